package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const defaultDebounce = 150 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	req := &renderRequest{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-render the preview whenever the document, styles or images change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.output == "" || req.output == "-" {
				return errors.New("watch: --output is required")
			}
			if _, err := parseAssignments("--set", req.sets); err != nil {
				return err
			}
			images, err := parseAssignments("--file", req.files)
			if err != nil {
				return err
			}

			targets := []string{args[0]}
			if a.stylesPath != "" {
				targets = append(targets, a.stylesPath)
			}
			for _, key := range sortedKeys(images) {
				targets = append(targets, images[key])
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("watch: started", "document", args[0], "output", req.output)
			return watchFiles(ctx, a.logger, targets, debounce, func() error {
				return req.run(cmd, a, args[0])
			})
		},
	}
	req.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-rendering")
	return cmd
}

// watchFiles renders once, then again after every burst of writes to one of
// targets. It returns when ctx is done. Render failures are logged and the
// watch continues.
func watchFiles(ctx context.Context, logger *slog.Logger, targets []string, debounce time.Duration, render func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Directories are watched so editors that save by rename keep firing.
	watched := make(map[string]struct{}, len(targets))
	dirs := make(map[string]struct{})
	for _, target := range targets {
		abs, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("watch %s: %w", target, err)
		}
		watched[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	rerender := func() {
		if err := render(); err != nil {
			logger.Error("watch: render failed", "error", err)
		}
	}
	rerender()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[name]; !ok {
				continue
			}
			logger.Debug("watch: change", "file", name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rerender()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", "error", err)
		}
	}
}
