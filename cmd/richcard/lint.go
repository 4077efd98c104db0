package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-richcard/pkg/config"
)

type violation struct {
	file    string
	finding config.Finding
}

func newLintCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Check documents for unknown tokens, unused params and unsupported widgets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectDocuments(args)
			if err != nil {
				return err
			}

			var violations []violation
			for _, file := range files {
				doc, err := a.loadDocument(file)
				if err != nil {
					violations = append(violations, violation{file: file, finding: config.Finding{
						Severity: config.SeverityError,
						Location: "document",
						Message:  err.Error(),
					}})
					continue
				}
				for _, finding := range config.Lint(doc, nil) {
					violations = append(violations, violation{file: file, finding: finding})
				}
			}

			sort.SliceStable(violations, func(i, j int) bool {
				return violations[i].file < violations[j].file
			})

			failed := 0
			for _, v := range violations {
				if v.finding.Severity == config.SeverityError || strict {
					failed++
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", v.file, v.finding); err != nil {
					return err
				}
			}
			a.logger.Info("lint: done", "files", len(files), "findings", len(violations))
			if failed > 0 {
				return fmt.Errorf("lint: %d finding(s) fail the check", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

// collectDocuments expands directories into the document files they hold.
func collectDocuments(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(name string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && config.IsDocumentFile(name) {
				files = append(files, name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
