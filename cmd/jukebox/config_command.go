package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jukebox/internal/config"
)

func newInitConfigCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.GetDefaultConfigPath()
			}

			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(out, "Config file already exists at: %s\n", path)
				fmt.Fprintln(out, "Use --force to overwrite it.")
				return nil
			}

			if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}

			fmt.Fprintf(out, "Created default config file at: %s\n", path)
			fmt.Fprintln(out, "\nSet acoustid_client_id (or $"+config.ClientIDEnv+") before identifying files.")
			fmt.Fprintln(out, "Other options:")
			fmt.Fprintln(out, "  parallel_jobs: 1-10 (files identified at once)")
			fmt.Fprintln(out, "  write_tags: true/false (write metadata and cover art into files)")
			fmt.Fprintln(out, "  degrade_artwork_errors: true/false (keep going when cover art lookup fails)")
			fmt.Fprintln(out, "  audio_format: mp3, m4a, opus, flac (yt-dlp downloads)")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the config file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
