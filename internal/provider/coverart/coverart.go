// Package coverart resolves album artwork through the Cover Art Archive.
package coverart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jukebox/internal/metadata"
)

const (
	service       = "coverart"
	defaultAPIURL = "https://coverartarchive.org"
)

// Client is a Cover Art Archive client that implements metadata.ArtworkFetcher.
type Client struct {
	httpClient *http.Client
	apiURL     string
	userAgent  string
}

// New creates a new Cover Art Archive client.
func New(httpClient *http.Client, apiURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
		userAgent:  userAgent,
	}
}

// Artwork returns the URL of the first image listed for a release group.
// A group the archive knows nothing about yields "" and no error.
func (c *Client) Artwork(ctx context.Context, releaseGroupID string) (string, error) {
	reqURL := fmt.Sprintf("%s/release-group/%s", c.apiURL, url.PathEscape(releaseGroupID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create coverart request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &metadata.TransportError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &metadata.TransportError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("release group %s: %s", releaseGroupID, body),
		}
	}

	var ar artResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", &metadata.TransportError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to decode coverart response: %w", err),
		}
	}

	if len(ar.Images) == 0 {
		return "", nil
	}
	return ar.Images[0].Image, nil
}

// Cover Art Archive response types

type artResponse struct {
	Images  []image `json:"images"`
	Release string  `json:"release"`
}

type image struct {
	Image      string     `json:"image"`
	Front      bool       `json:"front"`
	Types      []string   `json:"types"`
	Thumbnails thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Small string `json:"small"`
	Large string `json:"large"`
}
