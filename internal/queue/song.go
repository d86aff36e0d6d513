package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jukebox/internal/metadata"
)

// ErrNotFetched means a song's audio has not been downloaded yet, so there
// is no file to identify.
var ErrNotFetched = errors.New("song has not been fetched yet")

// OriginKind identifies where a song's audio comes from.
type OriginKind string

const (
	OriginFileUpload OriginKind = "file"
	OriginYouTube    OriginKind = "youtube"
	OriginSpotify    OriginKind = "spotify"
	OriginSoundCloud OriginKind = "soundcloud"
)

// Origin tells the downloader how to obtain a song's audio. Location is a
// local path for uploads and a URL otherwise.
type Origin struct {
	Kind     OriginKind `json:"kind"`
	Location string     `json:"location"`
}

// ParseOrigin classifies a submitted location by its host.
func ParseOrigin(location string) Origin {
	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "youtube.com/") || strings.Contains(lower, "youtu.be/"):
		return Origin{Kind: OriginYouTube, Location: location}
	case strings.Contains(lower, "open.spotify.com/"):
		return Origin{Kind: OriginSpotify, Location: location}
	case strings.Contains(lower, "soundcloud.com/"):
		return Origin{Kind: OriginSoundCloud, Location: location}
	default:
		return Origin{Kind: OriginFileUpload, Location: location}
	}
}

// Lookuper resolves metadata for a local audio file. *metadata.Resolver implements it.
type Lookuper interface {
	Lookup(ctx context.Context, path string) (metadata.SongMetadata, error)
}

// Song is one submission: where to get it, who asked for it and, once
// known, its local file and metadata. A Song is not safe for concurrent mutation.
type Song struct {
	ID        string                 `json:"id"`
	Origin    Origin                 `json:"origin"`
	Submitter string                 `json:"submitter"`
	Path      string                 `json:"path,omitempty"`
	Metadata  *metadata.SongMetadata `json:"metadata,omitempty"`
}

// NewSong creates a song. Uploaded files already have a local path.
func NewSong(origin Origin, submitter string) *Song {
	s := &Song{
		ID:        uuid.New().String(),
		Origin:    origin,
		Submitter: submitter,
	}
	if origin.Kind == OriginFileUpload {
		s.Path = origin.Location
	}
	return s
}

// FetchMetadata returns the song's metadata, resolving it from the local
// file the first time. Songs without a local file fail with ErrNotFetched.
func (s *Song) FetchMetadata(ctx context.Context, l Lookuper) (metadata.SongMetadata, error) {
	if s.Metadata != nil {
		return *s.Metadata, nil
	}
	if s.Path == "" {
		return metadata.SongMetadata{}, ErrNotFetched
	}

	md, err := l.Lookup(ctx, s.Path)
	if err != nil {
		return metadata.SongMetadata{}, fmt.Errorf("song %s: %w", s.ID, err)
	}
	s.Metadata = &md
	return md, nil
}

func (s *Song) String() string {
	if s.Metadata != nil {
		return fmt.Sprintf("%s - %s", s.Metadata.Artist, s.Metadata.Title)
	}
	return s.Origin.Location
}
