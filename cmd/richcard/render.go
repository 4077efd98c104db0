package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richcard"
	"github.com/goliatone/go-richcard/pkg/session"
)

// renderRequest holds the flags shared by render and watch.
type renderRequest struct {
	sets        []string
	files       []string
	output      string
	title       string
	inline      bool
	previewOnly bool
}

func (r *renderRequest) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVar(&r.sets, "set", nil, "param value as key=value (repeatable)")
	flags.StringArrayVar(&r.files, "file", nil, "image for a file param as key=path (repeatable)")
	flags.StringVarP(&r.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&r.title, "title", richcard.DefaultPageTitle, "page title")
	flags.BoolVar(&r.inline, "inline-media", false, "embed selected images as data: URLs")
	flags.BoolVar(&r.previewOnly, "preview-only", false, "write only the preview markup")
}

func newRenderCmd(a *app) *cobra.Command {
	req := &renderRequest{}
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Fill a document with values and write the preview page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return req.run(cmd, a, args[0])
		},
	}
	req.bind(cmd)
	return cmd
}

// run opens a fresh editor over path, applies the values and writes the
// result.
func (r *renderRequest) run(cmd *cobra.Command, a *app, path string) error {
	values, err := parseAssignments("--set", r.sets)
	if err != nil {
		return err
	}
	images, err := parseAssignments("--file", r.files)
	if err != nil {
		return err
	}

	editor, err := a.openEditor(path, session.WithValues(values))
	if err != nil {
		return err
	}
	defer editor.Close()

	for _, key := range sortedKeys(images) {
		imagePath := images[key]
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("--file %s: %w", key, err)
		}
		if err := editor.SelectFile(key, filepath.Base(imagePath), "", data); err != nil {
			return err
		}
	}
	if _, err := editor.Render(); err != nil {
		return err
	}

	if r.previewOnly {
		markup, err := editor.PreviewHTML()
		if r.inline {
			markup, err = editor.InlinePreviewHTML()
		}
		if err != nil {
			return err
		}
		return writeOutput(cmd, r.output, []byte(markup+"\n"))
	}

	pageOpts := []richcard.PageOption{
		richcard.WithTitle(r.title),
		richcard.WithPageTemplatesDir(a.templatesDir),
	}
	if r.inline {
		pageOpts = append(pageOpts, richcard.WithInlineMedia())
	}
	page, err := editor.Page(pageOpts...)
	if err != nil {
		return err
	}
	return writeOutput(cmd, r.output, page)
}

// parseAssignments splits key=value pairs. Later keys win.
func parseAssignments(flag string, raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%s %q: want key=value", flag, item)
		}
		out[key] = value
	}
	return out, nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
