package metadata

import (
	"context"
	"strings"
)

// Sentinel values standing in for data the pipeline looked for and did not find.
const (
	NotFound                = "Not Found"
	NoAlbum                 = "None"
	SingleAlbum             = "Single"
	UnrecognizedReleaseType = "Unrecognized Release Type"
)

// FingerprintData is the output of the fingerprinting utility for one file.
type FingerprintData struct {
	Duration    float64 `json:"duration"` // seconds
	Fingerprint string  `json:"fingerprint"`
}

// IdentityCandidate is one fingerprint match returned by the identity lookup service.
type IdentityCandidate struct {
	ID         string
	Score      float64        // 0.0-1.0
	Recordings []RecordingRef // nil when the service omitted the field
}

// RecordingRef is the lightweight recording reference returned inline by the
// identity lookup. The authoritative data comes from CanonicalRecording.
type RecordingRef struct {
	ID            string
	Duration      int // seconds, 0 when unknown
	ReleaseGroups []ReleaseGroupRef
	Artists       []Artist
}

// Artist is a credited artist.
type Artist struct {
	ID   string
	Name string
}

// CanonicalRecording is the catalog's full view of a recording.
type CanonicalRecording struct {
	ID            string
	Title         string
	ArtistCredits []Artist  // ordered, primary artist first
	Releases      []Release // nil when the catalog omitted the field
}

// Release is one published edition of a recording.
type Release struct {
	ID           string
	Title        string
	ReleaseGroup *ReleaseGroupRef // nil in malformed data
}

// ReleaseType is the primary type of a release group. The zero value means
// the catalog did not report one.
type ReleaseType string

const (
	ReleaseTypeAlbum     ReleaseType = "Album"
	ReleaseTypeEP        ReleaseType = "EP"
	ReleaseTypeSingle    ReleaseType = "Single"
	ReleaseTypeBroadcast ReleaseType = "Broadcast"
	ReleaseTypeOther     ReleaseType = "Other"
)

// ParseReleaseType maps a catalog type string onto a ReleaseType.
// Known types match case-insensitively; unknown non-empty types are kept verbatim.
func ParseReleaseType(s string) ReleaseType {
	s = strings.TrimSpace(s)
	for _, known := range []ReleaseType{ReleaseTypeAlbum, ReleaseTypeEP, ReleaseTypeSingle, ReleaseTypeBroadcast, ReleaseTypeOther} {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return ReleaseType(s)
}

// ReleaseGroupRef groups the releases of one conceptual work (album, EP, single).
type ReleaseGroupRef struct {
	ID          string
	PrimaryType ReleaseType
	Title       string
}

// Album is the outcome of release disambiguation. ID is empty when no
// release group could be chosen.
type Album struct {
	Title string
	ID    string
}

// SongMetadata is the pipeline output. Every field holds either a real value
// or its sentinel; AlbumArt is empty when no artwork exists.
type SongMetadata struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	AlbumArt string  `json:"album_art,omitempty"`
	Duration float64 `json:"duration"`
}

// NewSongMetadata returns a sentinel-filled SongMetadata for a track of the given duration.
func NewSongMetadata(duration float64) SongMetadata {
	return SongMetadata{
		Title:    NotFound,
		Artist:   NotFound,
		Album:    NotFound,
		Duration: duration,
	}
}

// Fingerprinter computes the acoustic fingerprint of a local audio file.
type Fingerprinter interface {
	Fingerprint(ctx context.Context, path string) (FingerprintData, error)
}

// IdentityResolver looks a fingerprint up and returns candidates in service order.
type IdentityResolver interface {
	Lookup(ctx context.Context, fp FingerprintData) ([]IdentityCandidate, error)
}

// RecordingEnricher fetches the canonical recording for an id.
type RecordingEnricher interface {
	Recording(ctx context.Context, id string) (CanonicalRecording, error)
}

// ArtworkFetcher returns the first artwork URL for a release group, or ""
// when the archive has none.
type ArtworkFetcher interface {
	Artwork(ctx context.Context, releaseGroupID string) (string, error)
}
