package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"jukebox/internal/config"
	"jukebox/internal/fingerprint"
	"jukebox/internal/logger"
	"jukebox/internal/metadata"
	"jukebox/internal/provider/acoustid"
	"jukebox/internal/provider/coverart"
	"jukebox/internal/provider/musicbrainz"
	"jukebox/pkg/utils"
)

// Lookuper resolves metadata for one local audio file.
type Lookuper interface {
	Lookup(ctx context.Context, path string) (metadata.SongMetadata, error)
}

// Hooks are optional callbacks fired while IdentifyAll runs. They may be
// called from several goroutines at once.
type Hooks struct {
	OnStart  func(path string)
	OnResult func(res Result)
}

// Result is the outcome of identifying one file.
type Result struct {
	Path     string
	Metadata metadata.SongMetadata
	Err      error
}

// NewHTTPClient returns the client shared by every remote service.
func NewHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout()}
}

// NewResolver wires fpcalc, AcoustID, MusicBrainz and the Cover Art Archive
// into a metadata.Resolver. All services share client.
func NewResolver(cfg config.Config, client *http.Client, log *logger.Logger) *metadata.Resolver {
	deps := metadata.Dependencies{
		Fingerprinter: fingerprint.New(cfg.FpcalcPath),
		Identity:      acoustid.New(client, cfg.AcoustIDURL, cfg.AcoustIDClientID),
		Catalog:       musicbrainz.New(client, cfg.MusicBrainzURL, cfg.UserAgent),
		Artwork:       coverart.New(client, cfg.CoverArtURL, cfg.UserAgent),
	}
	opts := metadata.Options{DegradeArtworkErrors: cfg.DegradeArtworkErrors}
	return metadata.NewResolver(deps, opts, log)
}

// IdentifyAll identifies every path with at most parallel lookups in
// flight. Results come back in input order; one file failing never stops
// the others.
func IdentifyAll(ctx context.Context, l Lookuper, paths []string, parallel int, hooks Hooks) []Result {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(parallel)

	for i, path := range paths {
		g.Go(func() error {
			res := Result{Path: path}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				if hooks.OnStart != nil {
					hooks.OnStart(path)
				}
				res.Metadata, res.Err = l.Lookup(ctx, path)
			}

			results[i] = res
			if hooks.OnResult != nil {
				hooks.OnResult(res)
			}
			return nil
		})
	}

	g.Wait()
	return results
}

// ExpandPaths turns a mix of files and directories into audio file paths.
// Directories are searched recursively; files are kept as given.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		files, err := utils.FindAudioFiles(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

// Tagger writes resolved metadata and cover art into audio files.
type Tagger struct {
	client *http.Client
	logger *logger.Logger
}

// NewTagger creates a Tagger that downloads artwork with client.
func NewTagger(client *http.Client, log *logger.Logger) *Tagger {
	return &Tagger{client: client, logger: log}
}

// Tag writes md into the file at path. Artwork problems are logged, not returned.
func (t *Tagger) Tag(ctx context.Context, path string, md metadata.SongMetadata) error {
	if old, err := metadata.ReadTags(path); err == nil {
		t.logger.Debug("Tagging %s: %q -> %q", path, old.Title+" / "+old.Artist, md.Title+" / "+md.Artist)
	}

	if err := metadata.WriteTags(path, md); err != nil {
		return err
	}

	if md.AlbumArt == "" {
		return nil
	}

	data, err := metadata.DownloadArtwork(ctx, t.client, md.AlbumArt)
	if err != nil {
		t.logger.Warn("Failed to download artwork for %s: %v", path, err)
		return nil
	}
	if err := metadata.WriteArtwork(path, data); err != nil {
		t.logger.Warn("Failed to embed artwork in %s: %v", path, err)
	}
	return nil
}
