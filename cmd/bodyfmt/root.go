package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/amterp/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bjaus/bodyfmt"
)

var version = "dev"

// Pretty-print modes accepted by --pretty.
const (
	prettyAuto   = "auto"
	prettyNone   = "none"
	prettyColors = "colors"
	prettyIndent = "indent"
	prettyAll    = "all"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bodyfmt [file]",
		Short: "Render an HTTP body with colors and indentation",
		Long: `Render a JSON, XML, HTML or form-urlencoded HTTP body for the terminal.

The body is read from file, or from stdin when no file is given. With
--message the input is a complete HTTP response; its status line and headers
are rendered too and the body type comes from its Content-Type header.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/bodyfmt/config.yaml)")
	cmd.PersistentFlags().String("theme", "", "YAML file mapping roles to colors")
	cmd.Flags().StringP("content-type", "t", "", "declared content type of the body")
	cmd.Flags().StringP("pretty", "P", prettyAuto, "none, colors, indent, all or auto")
	cmd.Flags().Int("indent", 0, "spaces per indent level (default from BODYFMT_INDENT or 2)")
	cmd.Flags().BoolP("message", "m", false, "input is a full HTTP response")
	cmd.Flags().Bool("align-headers", false, "align header values in a column")
	cmd.PersistentFlags().Bool("debug", false, "log debug messages to stderr")

	_ = v.BindPFlag("theme", cmd.PersistentFlags().Lookup("theme"))
	_ = v.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("content_type", cmd.Flags().Lookup("content-type"))
	_ = v.BindPFlag("pretty", cmd.Flags().Lookup("pretty"))
	_ = v.BindPFlag("indent", cmd.Flags().Lookup("indent"))
	_ = v.BindPFlag("message", cmd.Flags().Lookup("message"))
	_ = v.BindPFlag("align_headers", cmd.Flags().Lookup("align-headers"))

	cmd.AddCommand(newThemeCmd(v))
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("bodyfmt")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(home, ".config", "bodyfmt"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	opts, err := options(cmd, v)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if v.GetBool("message") {
		return writeMessage(out, data, v.GetString("content_type"), opts)
	}
	return bodyfmt.Write(out, v.GetString("content_type"), data, opts)
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func options(cmd *cobra.Command, v *viper.Viper) (bodyfmt.Options, error) {
	useColor, indent, err := prettyMode(v.GetString("pretty"))
	if err != nil {
		return bodyfmt.Options{}, err
	}
	palette, err := loadTheme(v.GetString("theme"))
	if err != nil {
		return bodyfmt.Options{}, err
	}
	level := slog.LevelWarn
	if v.GetBool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("render options",
		"color", useColor,
		"indent", indent,
		"indent_width", v.GetInt("indent"),
		"theme", v.GetString("theme"),
	)
	return bodyfmt.Options{
		Color:        useColor,
		Indent:       indent,
		IndentWidth:  v.GetInt("indent"),
		Palette:      palette,
		AlignHeaders: v.GetBool("align_headers"),
		Logger:       logger,
	}, nil
}

// prettyMode maps a --pretty value to the color and indent switches. Auto
// colors only when stdout is a color-capable terminal.
func prettyMode(mode string) (useColor, indent bool, err error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case prettyAuto, "":
		return !color.NoColor, true, nil
	case prettyNone:
		return false, false, nil
	case prettyColors:
		return true, false, nil
	case prettyIndent:
		return false, true, nil
	case prettyAll:
		return true, true, nil
	default:
		return false, false, fmt.Errorf("invalid --pretty value %q", mode)
	}
}

func loadTheme(path string) (*bodyfmt.Palette, error) {
	if path == "" {
		return bodyfmt.DefaultPalette, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening theme: %w", err)
	}
	defer func() { _ = f.Close() }()
	p, err := bodyfmt.LoadPalette(f)
	if err != nil {
		return nil, fmt.Errorf("loading theme %s: %w", path, err)
	}
	return p, nil
}

// writeMessage renders a dumped HTTP response: status line, headers, a blank
// line and the body.
func writeMessage(w io.Writer, data []byte, contentType string, opts bodyfmt.Options) error {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return fmt.Errorf("reading HTTP response: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading HTTP response body: %w", err)
	}

	_, reason, _ := strings.Cut(resp.Status, " ")
	if err := bodyfmt.WriteStatusLine(w, resp.Proto, resp.StatusCode, reason, opts); err != nil {
		return err
	}
	if err := bodyfmt.WriteHeaders(w, resp.Header, opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}
	return bodyfmt.Write(w, contentType, body, opts)
}
