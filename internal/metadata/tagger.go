package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"
)

// WriteTags writes resolved metadata to an audio file. Sentinel values are
// not written, so a partially identified song keeps whatever tags it had.
func WriteTags(path string, md SongMetadata) error {
	tags := make(map[string][]string)

	if known(md.Title) {
		tags[taglib.Title] = []string{md.Title}
	}
	if known(md.Artist) {
		tags[taglib.Artist] = []string{md.Artist}
	}
	if knownAlbum(md.Album) {
		tags[taglib.Album] = []string{md.Album}
	}

	if len(tags) == 0 {
		return nil
	}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return nil
}

// ReadTags returns the title, artist and album already stored in a file,
// using sentinels for anything missing.
func ReadTags(path string) (SongMetadata, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return SongMetadata{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	md := NewSongMetadata(0)
	if v := firstTag(tags, taglib.Title); v != "" {
		md.Title = v
	}
	if v := firstTag(tags, taglib.Artist); v != "" {
		md.Artist = v
	}
	if v := firstTag(tags, taglib.Album); v != "" {
		md.Album = v
	}
	return md, nil
}

// WriteArtwork embeds artwork image data into an audio file.
func WriteArtwork(path string, imageData []byte) error {
	if len(imageData) == 0 {
		return nil
	}
	if err := taglib.WriteImage(path, imageData); err != nil {
		return fmt.Errorf("failed to write artwork to %s: %w", path, err)
	}
	return nil
}

// DisplayName returns "Artist - Title" for a resolved song, falling back to
// the file's base name when the pipeline found neither.
func DisplayName(md SongMetadata, path string) string {
	switch {
	case known(md.Artist) && known(md.Title):
		return sanitizePath(md.Artist + " - " + md.Title)
	case known(md.Title):
		return sanitizePath(md.Title)
	default:
		return filepath.Base(path)
	}
}

func known(s string) bool {
	return s != "" && s != NotFound
}

func knownAlbum(s string) bool {
	switch s {
	case "", NotFound, NoAlbum, UnrecognizedReleaseType:
		return false
	}
	return true
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

// sanitizePath removes or replaces characters that are problematic in file paths.
func sanitizePath(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(s)
}
