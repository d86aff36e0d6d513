package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jukebox/internal/metadata"
	"jukebox/internal/pipeline"
	"jukebox/internal/shutdown"
	"jukebox/internal/watcher"
	"jukebox/pkg/utils"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Identify audio files as they are dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := utils.CheckDependencies(cfg.FpcalcPath); err != nil {
				return err
			}

			dir := args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create watch dir: %w", err)
			}

			log := ctx.logger()
			sh := shutdown.New(cmd.Context())
			sh.Listen()

			client := pipeline.NewHTTPClient(cfg)
			resolver := pipeline.NewResolver(cfg, client, log)
			tagger := pipeline.NewTagger(client, log)

			handle := func(ctx context.Context, path string) {
				md, err := resolver.Lookup(ctx, path)
				if err != nil {
					log.Error("%s: %v", path, explain(err))
					return
				}
				log.Info("Identified %s: %s", path, metadata.DisplayName(md, path))
				if cfg.WriteTags {
					if err := tagger.Tag(ctx, path, md); err != nil {
						log.Warn("Failed to tag %s: %v", path, err)
					}
				}
			}

			w := watcher.New(dir, cfg.WatchDebounce(), handle, log)
			return w.Start(sh.Context())
		},
	}
}
