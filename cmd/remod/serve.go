package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gnana997/remod/pkg/lsp"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
	"github.com/gnana997/remod/pkg/util"
)

// sourceCacheSize bounds the closed files the language server keeps parsed
// text for.
const sourceCacheSize = 256

func newServeCmd(a *app) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdin/stdout",
		Long: `Serve the Language Server Protocol over stdio. Every component gets a
"Create Story" code lens that creates, fills and opens its story file
through the editor. Logs go to stderr or --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), !noWatch)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not watch the root directory for changes")
	return cmd
}

func (a *app) runServe(ctx context.Context, watch bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := scanner.NewScanner(a.log)
	defer s.Close()

	cache, err := util.NewSourceCache(sourceCacheSize, a.log)
	if err != nil {
		return fmt.Errorf("create source cache: %w", err)
	}
	docs := lsp.NewDocuments(cache)
	srv := lsp.NewServer(lsp.Options{
		Orchestrator: lsp.NewOrchestrator(s, storybook.NewSynthesizer(a.cfg.StoryExt()), a.cfg.Typescript, a.log),
		Documents:    docs,
		Version:      version,
		Logger:       a.log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The watcher has nothing to do once the client is gone.
		defer cancel()
		return srv.Serve(gctx, lsp.Stdio())
	})

	if watch {
		w, err := lsp.NewWatcher(a.cfg.RootDir, a.cfg.Ignore, lsp.DefaultDebounce, a.log)
		if err != nil {
			a.log.Warn("file watching disabled", "error", err)
		} else {
			w.OnInvalidate = docs.Invalidate
			w.OnChange = func(path string) { srv.FileChanged(gctx, path) }
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	return g.Wait()
}
