package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richcard"
	"github.com/goliatone/go-richcard/pkg/prompt"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		output string
		title  string
		inline bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "prompt <document>",
		Short: "Fill a document interactively and write the preview page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := a.openEditor(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()

			opts := []prompt.Option{
				prompt.WithLogger(a.logger),
				prompt.WithPromptDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
			}
			if yes {
				opts = append(opts, prompt.WithSkipConfirm())
			}
			submitted, err := prompt.New(opts...).Run(cmd.Context(), editor.Session)
			if err != nil {
				return err
			}
			if !submitted {
				_, err := fmt.Fprintln(cmd.ErrOrStderr(), "nothing written")
				return err
			}

			pageOpts := []richcard.PageOption{
				richcard.WithTitle(title),
				richcard.WithPageTemplatesDir(a.templatesDir),
			}
			if inline {
				pageOpts = append(pageOpts, richcard.WithInlineMedia())
			}
			page, err := editor.Page(pageOpts...)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, page)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&title, "title", richcard.DefaultPageTitle, "page title")
	flags.BoolVar(&inline, "inline-media", false, "embed selected images as data: URLs")
	flags.BoolVarP(&yes, "yes", "y", false, "skip the final confirmation")
	return cmd
}
