package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"jukebox/internal/downloader"
	"jukebox/internal/pipeline"
	"jukebox/internal/queue"
	"jukebox/internal/shutdown"
	"jukebox/pkg/utils"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "fetch <youtube-url>",
		Short: "Download a YouTube video's audio and identify it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !utils.IsYouTubeURL(args[0]) {
				return fmt.Errorf("not a YouTube URL: %s", args[0])
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := utils.CheckDependencies(cfg.YtdlpPath, cfg.FpcalcPath); err != nil {
				return err
			}

			log := ctx.logger()
			sh := shutdown.New(cmd.Context())
			sh.Listen()

			song := queue.NewSong(queue.ParseOrigin(args[0]), "cli")
			path, err := downloader.New(cfg, log).Fetch(sh.Context(), song)
			if err != nil {
				return err
			}
			log.Info("Downloaded to %s", path)

			client := pipeline.NewHTTPClient(cfg)
			md, err := song.FetchMetadata(sh.Context(), pipeline.NewResolver(cfg, client, log))
			if err != nil {
				return explain(err)
			}

			if cfg.WriteTags {
				if err := pipeline.NewTagger(client, log).Tag(sh.Context(), path, md); err != nil {
					log.Warn("Failed to tag %s: %v", path, err)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(song)
			}
			fmt.Fprintln(out, renderMetadata(md))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the song as JSON")
	return cmd
}
