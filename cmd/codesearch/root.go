package main

import (
	"context"

	"github.com/spf13/cobra"

	"codesearch/internal/bootstrap"
	"codesearch/internal/config"
	"codesearch/internal/logging"
)

type appFactory func(ctx context.Context, cfg *config.Config) (*bootstrap.SearchApp, error)

func defaultAppFactory(ctx context.Context, cfg *config.Config) (*bootstrap.SearchApp, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewSearchApp(ctx, cfg, logger)
}

type rootOptions struct {
	root  string
	store string
}

func newRootCmd(factory appFactory) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "codesearch",
		Short:        "Index a codebase and run similarity searches against it",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "codebase root (default from config)")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "vector store file (default from config)")

	cmd.AddCommand(newIndexCmd(opts, factory), newSearchCmd(opts, factory))
	return cmd
}

// openApp loads configuration, applies flag overrides and builds the search app.
func openApp(ctx context.Context, opts *rootOptions, factory appFactory) (*bootstrap.SearchApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.root != "" {
		cfg.Search.CodebaseRoot = opts.root
	}
	if opts.store != "" {
		cfg.Search.StorePath = opts.store
	}
	return factory(ctx, cfg)
}
