package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxArtworkBytes caps the size of a downloaded cover image.
const maxArtworkBytes = 20 << 20

// ResolveArt returns the artwork URL for an album, or "" when albumID is empty.
// An empty albumID never reaches the fetcher.
func ResolveArt(ctx context.Context, fetcher ArtworkFetcher, albumID string) (string, error) {
	if albumID == "" {
		return "", nil
	}
	return fetcher.Artwork(ctx, albumID)
}

// DownloadArtwork fetches the image bytes behind an artwork URL.
func DownloadArtwork(ctx context.Context, client *http.Client, artworkURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork data: %w", err)
	}
	return data, nil
}
