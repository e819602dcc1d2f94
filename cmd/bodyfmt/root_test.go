package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootRendersStdin(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		stdin string
		args  []string
		want  string
	}{
		"json indent": {
			stdin: `{"a":[1,2]}`,
			args:  []string{"-P", "indent", "--indent", "2", "-t", "application/json"},
			want:  "{\n  \"a\": [\n    1,\n    2\n  ]\n}",
		},
		"json colors": {
			stdin: `{"a":1}`,
			args:  []string{"--pretty", "colors", "--content-type", "application/json"},
			want:  "\x1b[37m{\x1b[36m\"a\"\x1b[37m:\x1b[35m1\x1b[37m}\x1b[39m",
		},
		"none is raw": {
			stdin: `{"a":1}`,
			args:  []string{"-P", "none", "-t", "application/json"},
			want:  `{"a":1}`,
		},
		"no content type is raw": {
			stdin: `{"a":1}`,
			args:  []string{"-P", "all"},
			want:  `{"a":1}`,
		},
		"form": {
			stdin: "a=%20",
			args:  []string{"-P", "all", "-t", "application/x-www-form-urlencoded"},
			want:  "a\x1b[36m=\x1b[35m%20\x1b[39m",
		},
		"malformed falls back": {
			stdin: `{"a":`,
			args:  []string{"-P", "all", "-t", "application/json"},
			want:  `{"a":`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootReadsFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "body.xml", "<a><b>x</b></a>")
	got, err := execute(t, "", "-P", "indent", "--indent", "4", "-t", "text/xml", path)
	require.NoError(t, err)
	assert.Equal(t, "<a>\n    <b>x</b>\n</a>\n", got)
}

func TestRootMissingFile(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "", "-P", "none", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRootInvalidPretty(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "{}", "-P", "sparkly", "-t", "application/json")
	assert.ErrorContains(t, err, "invalid --pretty value")
}

func TestRootMessage(t *testing.T) {
	t.Parallel()
	msg := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: application/json\r\n" +
		"Content-Length: 7\r\n" +
		"\r\n" +
		`{"a":1}`
	got, err := execute(t, msg, "-m", "-P", "indent", "--indent", "2")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\n"+
		"Content-Length: 7\n"+
		"Content-Type: application/json\n"+
		"\n"+
		"{\n  \"a\": 1\n}", got)
}

func TestRootMessageAlignedHeaders(t *testing.T) {
	t.Parallel()
	msg := "HTTP/1.1 404 Not Found\r\n" +
		"Content-Length: 0\r\n" +
		"Vary: Accept\r\n" +
		"\r\n"
	got, err := execute(t, msg, "--message", "--align-headers", "-P", "indent")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 404 Not Found\n"+
		"Content-Length: 0\n"+
		"Vary:           Accept\n"+
		"\n", got)
}

func TestRootMessageInvalid(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "not http", "-m", "-P", "indent")
	assert.ErrorContains(t, err, "reading HTTP response")
}

func TestRootTheme(t *testing.T) {
	t.Parallel()
	theme := writeFile(t, "theme.yaml", "key: red\n")
	got, err := execute(t, `{"a":1}`, "--theme", theme, "-P", "colors", "-t", "application/json")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[37m{\x1b[31m\"a\"\x1b[37m:\x1b[35m1\x1b[37m}\x1b[39m", got)
}

func TestRootInvalidTheme(t *testing.T) {
	t.Parallel()
	theme := writeFile(t, "theme.yaml", "key: pink\n")
	_, err := execute(t, `{}`, "--theme", theme, "-P", "colors", "-t", "application/json")
	assert.ErrorContains(t, err, "loading theme")
}

func TestRootConfigFile(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "config.yaml", "pretty: indent\ncontent_type: application/json\nindent: 3\n")
	got, err := execute(t, `[1]`, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "[\n   1\n]", got)
}

func TestRootMissingConfigFile(t *testing.T) {
	t.Parallel()
	_, err := execute(t, `[1]`, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestThemeCommand(t *testing.T) {
	t.Parallel()
	got, err := execute(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "punctuation: white\n"+
		"key: cyan\n"+
		"keyword: blue\n"+
		"numeric: magenta\n"+
		"string: yellow\n"+
		"default: default\n"+
		"function: green\n", got)
}

func TestThemeCommandWithFile(t *testing.T) {
	t.Parallel()
	theme := writeFile(t, "theme.yaml", "string: green\n")
	got, err := execute(t, "", "theme", "--theme", theme)
	require.NoError(t, err)
	assert.Contains(t, got, "string: green\n")
}

func TestPrettyMode(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		mode       string
		wantColor  bool
		wantIndent bool
		wantErr    require.ErrorAssertionFunc
	}{
		"none":   {mode: "none", wantErr: require.NoError},
		"colors": {mode: "colors", wantColor: true, wantErr: require.NoError},
		"indent": {mode: "INDENT", wantIndent: true, wantErr: require.NoError},
		"all":    {mode: "all", wantColor: true, wantIndent: true, wantErr: require.NoError},
		"bad":    {mode: "rainbow", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c, i, err := prettyMode(tt.mode)
			tt.wantErr(t, err)
			assert.Equal(t, tt.wantColor, c)
			assert.Equal(t, tt.wantIndent, i)
		})
	}
}
