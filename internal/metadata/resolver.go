package metadata

import (
	"context"
	"fmt"

	"jukebox/internal/logger"
)

// Dependencies are the external services a Resolver consults, in pipeline order.
type Dependencies struct {
	Fingerprinter Fingerprinter
	Identity      IdentityResolver
	Catalog       RecordingEnricher
	Artwork       ArtworkFetcher
}

// Options tune the Resolver's degradation policy.
type Options struct {
	// DegradeArtworkErrors turns artwork lookup failures into a missing
	// AlbumArt instead of failing the whole resolution.
	DegradeArtworkErrors bool
}

// Resolver turns an audio file or fingerprint into SongMetadata:
// fingerprint, identity lookup, candidate selection, recording lookup,
// release disambiguation and artwork lookup, strictly in that order.
// A Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	deps   Dependencies
	opts   Options
	logger *logger.Logger
}

// NewResolver creates a Resolver over the given services.
func NewResolver(deps Dependencies, opts Options, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.New(false)
	}
	return &Resolver{
		deps:   deps,
		opts:   opts,
		logger: log,
	}
}

// Lookup fingerprints the file at path and resolves its metadata.
func (r *Resolver) Lookup(ctx context.Context, path string) (SongMetadata, error) {
	if r.deps.Fingerprinter == nil {
		return SongMetadata{}, fmt.Errorf("no fingerprinter configured")
	}

	fp, err := r.deps.Fingerprinter.Fingerprint(ctx, path)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	r.logger.Debug("Fingerprinted %s (%.1fs)", path, fp.Duration)
	return r.Resolve(ctx, fp)
}

// Resolve runs the remote stages for an already computed fingerprint.
// On success every field of the result is a real value or a sentinel;
// on error the zero SongMetadata is returned.
func (r *Resolver) Resolve(ctx context.Context, fp FingerprintData) (SongMetadata, error) {
	candidates, err := r.deps.Identity.Lookup(ctx, fp)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("identity lookup: %w", err)
	}
	r.logger.Debug("  %d identity candidates", len(candidates))

	best, err := SelectBest(candidates)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("select candidate: %w", err)
	}

	ref, err := FirstRecording(best)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("select candidate %s: %w", best.ID, err)
	}
	r.logger.Debug("  Best match %s (score %.2f), recording %s", best.ID, best.Score, ref.ID)

	rec, err := r.deps.Catalog.Recording(ctx, ref.ID)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("recording lookup %s: %w", ref.ID, err)
	}

	album := Disambiguate(rec)
	r.logger.Debug("  Album: %q (release group %q)", album.Title, album.ID)

	art, err := ResolveArt(ctx, r.deps.Artwork, album.ID)
	if err != nil {
		if !r.opts.DegradeArtworkErrors {
			return SongMetadata{}, fmt.Errorf("artwork lookup %s: %w", album.ID, err)
		}
		r.logger.Warn("Artwork lookup for %s failed, continuing without art: %v", album.ID, err)
		art = ""
	}

	md := NewSongMetadata(fp.Duration)
	if rec.Title != "" {
		md.Title = rec.Title
	}
	if len(rec.ArtistCredits) > 0 && rec.ArtistCredits[0].Name != "" {
		md.Artist = rec.ArtistCredits[0].Name
	}
	md.Album = album.Title
	md.AlbumArt = art

	return md, nil
}
