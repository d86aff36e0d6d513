package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"jukebox/internal/metadata"
	"jukebox/internal/pipeline"
	"jukebox/internal/progress"
	"jukebox/internal/provider/acoustid"
	"jukebox/internal/shutdown"
	"jukebox/pkg/utils"
)

type identifyOutput struct {
	Path     string                 `json:"path"`
	Metadata *metadata.SongMetadata `json:"metadata,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOut, writeTags bool
	var parallel int

	cmd := &cobra.Command{
		Use:   "identify <path>...",
		Short: "Identify audio files and directories of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("write-tags") {
				cfg.WriteTags = writeTags
			}
			if cmd.Flags().Changed("parallel") {
				cfg.ParallelJobs = parallel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := utils.CheckDependencies(cfg.FpcalcPath); err != nil {
				return err
			}

			paths, err := pipeline.ExpandPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no audio files found")
			}

			log := ctx.logger()
			sh := shutdown.New(cmd.Context())
			sh.Listen()

			client := pipeline.NewHTTPClient(cfg)
			resolver := pipeline.NewResolver(cfg, client, log)

			stderr := cmd.ErrOrStderr()
			var bar *progress.Bar
			if !jsonOut && !cfg.Verbose && isTerminal(stderr) {
				bar = progress.New(stderr, len(paths))
				log.SetProgressBar(true)
			}

			hooks := pipeline.Hooks{
				OnStart: func(path string) {
					log.Debug("Identifying %s", path)
					if bar != nil {
						bar.Start(filepath.Base(path))
					}
				},
				OnResult: func(res pipeline.Result) {
					if res.Err != nil {
						log.Debug("Failed %s: %v", res.Path, res.Err)
					}
					if bar != nil {
						bar.Increment(res.Err == nil)
					}
				},
			}

			log.Info("Identifying %d file(s) with %d parallel job(s)", len(paths), cfg.ParallelJobs)
			results := pipeline.IdentifyAll(sh.Context(), resolver, paths, cfg.ParallelJobs, hooks)

			if bar != nil {
				bar.Finish()
				log.SetProgressBar(false)
			}
			if err := sh.Context().Err(); err != nil {
				return err
			}

			if cfg.WriteTags {
				tagger := pipeline.NewTagger(client, log)
				for _, res := range results {
					if res.Err != nil {
						continue
					}
					if err := tagger.Tag(sh.Context(), res.Path, res.Metadata); err != nil {
						log.Warn("Failed to tag %s: %v", res.Path, err)
					}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if err := writeResultsJSON(out, results); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderResults(results, filepath.Base))
			}

			return summarize(results)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&writeTags, "write-tags", false, "Write resolved metadata and cover art into the files")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "Number of files identified at once (1-10)")
	return cmd
}

func writeResultsJSON(w io.Writer, results []pipeline.Result) error {
	out := make([]identifyOutput, len(results))
	for i, res := range results {
		out[i].Path = res.Path
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			continue
		}
		md := res.Metadata
		out[i].Metadata = &md
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// summarize returns nil when every file was identified. The first error that
// has a user-facing hint is surfaced.
func summarize(results []pipeline.Result) error {
	failed := 0
	var first error
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		failed++
		if first == nil || acoustid.IsInvalidClient(res.Err) {
			first = res.Err
		}
	}
	if failed == 0 {
		return nil
	}
	if failed == len(results) {
		return explain(first)
	}
	return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(results))
}
