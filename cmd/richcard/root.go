package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richcard"
	"github.com/goliatone/go-richcard/pkg/config"
	"github.com/goliatone/go-richcard/pkg/session"
)

// app carries the persistent flags and the logger every command shares.
type app struct {
	logLevel     string
	layoutPath   string
	stylesPath   string
	templatesDir string
	defaultImage string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	root := &cobra.Command{
		Use:           "richcard",
		Short:         "Preview RCS rich cards from a params + layout document",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.layoutPath, "layout-path", config.DefaultLayoutPath, "JSONPath of the layout inside the document")
	flags.StringVar(&a.stylesPath, "styles", "", "JSON or YAML style overrides file")
	flags.StringVar(&a.templatesDir, "templates", "", "directory shadowing the form and page templates")
	flags.StringVar(&a.defaultImage, "default-image", "", "fallback image for the title media slot")

	root.AddCommand(
		newRenderCmd(a),
		newPromptCmd(a),
		newLintCmd(a),
		newImportOpenAPICmd(a),
		newWatchCmd(a),
	)
	return root
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", raw, err)
	}
	return level, nil
}

func (a *app) loadDocument(path string) (config.Document, error) {
	return config.LoadFile(path, config.WithLayoutPath(a.layoutPath))
}

func (a *app) openEditor(path string, extra ...session.Option) (*richcard.Editor, error) {
	doc, err := a.loadDocument(path)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithTemplatesDir(a.templatesDir),
		session.WithDefaultImage(a.defaultImage),
	}
	if a.stylesPath != "" {
		styles, err := config.LoadStylesFile(a.stylesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithStyles(styles))
	}
	return richcard.Open(doc, append(opts, extra...)...)
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return err
}
