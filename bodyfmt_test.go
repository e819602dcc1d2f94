package bodyfmt_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bjaus/bodyfmt"
)

var errWrite = errors.New("write failed")

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		want    bodyfmt.Format
		wantErr require.ErrorAssertionFunc
	}{
		"json":    {input: "json", want: bodyfmt.JSON, wantErr: require.NoError},
		"xml":     {input: "xml", want: bodyfmt.XML, wantErr: require.NoError},
		"html":    {input: "html", want: bodyfmt.HTML, wantErr: require.NoError},
		"form":    {input: "form", want: bodyfmt.Form, wantErr: require.NoError},
		"raw":     {input: "raw", want: bodyfmt.Raw, wantErr: require.NoError},
		"unknown": {input: "yaml", want: "", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := bodyfmt.ParseFormat(tt.input)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormatSentinel(t *testing.T) {
	t.Parallel()
	_, err := bodyfmt.ParseFormat("csv")
	assert.ErrorIs(t, err, bodyfmt.ErrUnsupportedFormat)
}

func TestFormats(t *testing.T) {
	t.Parallel()
	got := bodyfmt.Formats()
	assert.Equal(t, []bodyfmt.Format{
		bodyfmt.JSON, bodyfmt.XML, bodyfmt.HTML, bodyfmt.Form, bodyfmt.Raw,
	}, got)
	// Returned slice must be a copy.
	got[0] = "modified"
	assert.Equal(t, bodyfmt.JSON, bodyfmt.Formats()[0])
}

func TestFormatString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "json", bodyfmt.JSON.String())
	assert.Equal(t, "form", bodyfmt.Form.String())
}

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		contentType string
		color       bool
		indent      bool
		want        bodyfmt.Format
	}{
		"json":                 {contentType: "application/json", color: true, want: bodyfmt.JSON},
		"json indent only":     {contentType: "application/json", indent: true, want: bodyfmt.JSON},
		"no pretty printing":   {contentType: "application/json", want: bodyfmt.Raw},
		"empty type":           {contentType: "", color: true, indent: true, want: bodyfmt.Raw},
		"vendor json":          {contentType: "application/vnd.api+json; charset=utf-8", indent: true, want: bodyfmt.JSON},
		"upper case":           {contentType: "APPLICATION/JSON", color: true, want: bodyfmt.JSON},
		"xml":                  {contentType: "text/xml", color: true, indent: true, want: bodyfmt.XML},
		"xhtml is xml":         {contentType: "application/xhtml+xml", color: true, want: bodyfmt.XML},
		"html":                 {contentType: "text/html; charset=utf-8", color: true, want: bodyfmt.HTML},
		"form":                 {contentType: "application/x-www-form-urlencoded", color: true, want: bodyfmt.Form},
		"form with charset":    {contentType: "application/x-www-form-urlencoded; charset=utf-8", color: true, want: bodyfmt.Form},
		"multipart is raw":     {contentType: "multipart/form-data; boundary=x", color: true, want: bodyfmt.Raw},
		"plain text is raw":    {contentType: "text/plain", color: true, indent: true, want: bodyfmt.Raw},
		"whitespace only type": {contentType: "  ", color: true, want: bodyfmt.Raw},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bodyfmt.Detect(tt.contentType, tt.color, tt.indent))
		})
	}
}

func TestNewFormatUnknown(t *testing.T) {
	t.Parallel()
	r, err := bodyfmt.NewFormat("yaml", []byte("a: 1"), bodyfmt.Options{})
	assert.Nil(t, r)
	assert.ErrorIs(t, err, bodyfmt.ErrUnsupportedFormat)
}

func TestNewCopiesBody(t *testing.T) {
	t.Parallel()
	body := []byte(`{"a":1}`)
	r := bodyfmt.New("application/json", body, bodyfmt.Options{Indent: true, IndentWidth: 2})
	copy(body, `[1,2,3]`)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	assert.Equal(t, "{\n  \"a\": 1\n}", buf.String())
}

func TestWrite(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		contentType string
		body        string
		opts        bodyfmt.Options
		want        string
	}{
		"json": {
			contentType: "application/json",
			body:        `{"a":1}`,
			opts:        bodyfmt.Options{Indent: true, IndentWidth: 2},
			want:        "{\n  \"a\": 1\n}",
		},
		"raw when nothing enabled": {
			contentType: "application/json",
			body:        `{"a":1}`,
			want:        `{"a":1}`,
		},
		"unknown type": {
			contentType: "image/png",
			body:        "\x89PNG",
			opts:        bodyfmt.Options{Color: true, Indent: true},
			want:        "\x89PNG",
		},
		"html never indented": {
			contentType: "text/html",
			body:        "<p><b>x</b></p>",
			opts:        bodyfmt.Options{Indent: true, IndentWidth: 2},
			want:        "<p><b>x</b></p>",
		},
		"form": {
			contentType: "application/x-www-form-urlencoded",
			body:        "a=1&b=2",
			opts:        bodyfmt.Options{Indent: true},
			want:        "a=1&b=2",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := bodyfmt.Write(&buf, tt.contentType, []byte(tt.body), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteMalformedFallsBackToRaw(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	body := `{"a":`

	var buf bytes.Buffer
	err := bodyfmt.Write(&buf, "application/json", []byte(body), bodyfmt.Options{
		Color:  true,
		Indent: true,
		Logger: logger,
	})
	require.NoError(t, err)
	assert.Equal(t, body, buf.String())
	assert.Contains(t, logs.String(), "rendering degraded")
	assert.Contains(t, logs.String(), "content_type=application/json")
}

func TestWriteMalformedWithoutLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := bodyfmt.Write(&buf, "text/xml", []byte("<a"), bodyfmt.Options{Color: true})
	require.NoError(t, err)
	assert.Equal(t, "<a", buf.String())
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	err := bodyfmt.Write(errWriter{}, "application/json", []byte(`{}`), bodyfmt.Options{Color: true})
	assert.ErrorIs(t, err, errWrite)
}

func TestMarshal(t *testing.T) {
	t.Parallel()
	got, err := bodyfmt.Marshal("application/json", []byte(`{"a":1}`), bodyfmt.Options{Indent: true, IndentWidth: 4})
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}", string(got))
}

func TestRawRender(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		body := rapid.SliceOf(rapid.Byte()).Draw(t, "body")
		r, err := bodyfmt.NewFormat(bodyfmt.Raw, body, bodyfmt.Options{Color: true, Indent: true})
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := r.Render(&buf); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), body) {
			t.Fatalf("got %q, want %q", buf.Bytes(), body)
		}
	})
}
