// Package musicbrainz fetches canonical recordings from the MusicBrainz web service.
package musicbrainz

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
	service       = "musicbrainz"
	defaultAPIURL = "https://musicbrainz.org/ws/2"
	recordingInc  = "artist-credits+releases+release-groups"
)

// Client is a MusicBrainz Web API client that implements metadata.RecordingEnricher.
type Client struct {
	httpClient *http.Client
	apiURL     string
	userAgent  string
}

// New creates a new MusicBrainz client. MusicBrainz rejects requests without
// a meaningful User-Agent, so userAgent should identify the application.
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

// Recording fetches a recording by MBID with its artist credits, releases
// and release groups expanded.
func (c *Client) Recording(ctx context.Context, id string) (metadata.CanonicalRecording, error) {
	if id == "" {
		return metadata.CanonicalRecording{}, fmt.Errorf("empty recording id")
	}

	// inc is joined with literal '+', which url.Values would escape
	reqURL := fmt.Sprintf("%s/recording/%s?inc=%s&fmt=json", c.apiURL, url.PathEscape(id), recordingInc)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return metadata.CanonicalRecording{}, fmt.Errorf("failed to create musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return metadata.CanonicalRecording{}, &metadata.TransportError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return metadata.CanonicalRecording{}, &metadata.TransportError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("recording %s: %s", id, body),
		}
	}

	var rec recording
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return metadata.CanonicalRecording{}, &metadata.TransportError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to decode musicbrainz response: %w", err),
		}
	}

	return parseRecording(rec), nil
}

func parseRecording(rec recording) metadata.CanonicalRecording {
	out := metadata.CanonicalRecording{
		ID:    rec.ID,
		Title: rec.Title,
	}

	for _, ac := range rec.ArtistCredit {
		name := ac.Name
		if name == "" {
			name = ac.Artist.Name
		}
		out.ArtistCredits = append(out.ArtistCredits, metadata.Artist{ID: ac.Artist.ID, Name: name})
	}

	if rec.Releases != nil {
		out.Releases = make([]metadata.Release, 0, len(rec.Releases))
		for _, rel := range rec.Releases {
			r := metadata.Release{ID: rel.ID, Title: rel.Title}
			if rel.ReleaseGroup != nil {
				r.ReleaseGroup = &metadata.ReleaseGroupRef{
					ID:          rel.ReleaseGroup.ID,
					PrimaryType: metadata.ParseReleaseType(rel.ReleaseGroup.PrimaryType),
					Title:       rel.ReleaseGroup.Title,
				}
			}
			out.Releases = append(out.Releases, r)
		}
	}

	return out
}

// MusicBrainz API response types

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []release      `json:"releases"`
}

type artistCredit struct {
	Name   string     `json:"name"`
	Artist artistInfo `json:"artist"`
}

type artistInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type release struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Status       string        `json:"status"`
	ReleaseGroup *releaseGroup `json:"release-group"`
}

type releaseGroup struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	PrimaryType    string   `json:"primary-type"`
	SecondaryTypes []string `json:"secondary-types"`
}
