package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-richcard"
	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/openapi"
	"github.com/goliatone/go-richcard/pkg/placeholder"
)

// scaffold mirrors the document layout config.Parse expects at the default
// layout path.
type scaffold struct {
	Params          []descriptor.Field `json:"params" yaml:"params"`
	FormattedString struct {
		RCSMessage struct {
			OpenRichcardMessage struct {
				Layout widget `json:"layout" yaml:"layout"`
			} `json:"openrichcardMessage" yaml:"openrichcardMessage"`
		} `json:"RCSMessage" yaml:"RCSMessage"`
	} `json:"formattedString" yaml:"formattedString"`
}

type widget struct {
	Widget      string   `json:"widget" yaml:"widget"`
	Orientation string   `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Text        string   `json:"text,omitempty" yaml:"text,omitempty"`
	MediaURL    string   `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	Children    []widget `json:"children,omitempty" yaml:"children,omitempty"`
}

func newImportOpenAPICmd(a *app) *cobra.Command {
	var (
		operationID string
		format      string
		output      string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import-openapi <path-or-url>",
		Short: "Scaffold a document from an OpenAPI operation's request body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(operationID) == "" {
				return fmt.Errorf("--operation is required")
			}
			fields, err := richcard.ImportOpenAPI(cmd.Context(), args[0], operationID, openapi.WithHTTPFallback(timeout))
			if err != nil {
				return err
			}
			a.logger.Info("import-openapi: params imported", "operation", operationID, "params", len(fields))

			data, err := encodeScaffold(newScaffold(fields), format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&operationID, "operation", "", "operationId whose request body becomes the params")
	flags.StringVar(&format, "format", "yaml", "output format (yaml or json)")
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "timeout for http(s) sources")
	return cmd
}

// newScaffold lays out one widget per param: images for file params, buttons
// for button params and text for the rest.
func newScaffold(fields []descriptor.Field) scaffold {
	var doc scaffold
	doc.Params = fields

	root := widget{Widget: emulator.WidgetLinearLayout, Orientation: "vertical"}
	for _, field := range fields {
		token := placeholder.Token(field.Param)
		switch field.Type {
		case descriptor.FieldTypeFile:
			root.Children = append(root.Children, widget{Widget: emulator.WidgetImageView, MediaURL: token})
		case descriptor.FieldTypeButton:
			root.Children = append(root.Children, widget{Widget: emulator.WidgetButton, Text: token})
		default:
			root.Children = append(root.Children, widget{Widget: emulator.WidgetTextView, Text: token})
		}
	}
	doc.FormattedString.RCSMessage.OpenRichcardMessage.Layout = root
	return doc
}

func encodeScaffold(doc scaffold, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported --format %q (want yaml or json)", format)
	}
	return buf.Bytes(), nil
}
