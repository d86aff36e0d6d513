// Package acoustid looks up acoustic fingerprints with the AcoustID web service.
package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jukebox/internal/metadata"
)

const (
	service       = "acoustid"
	defaultAPIURL = "https://api.acoustid.org/v2/lookup"

	// meta requests recording and release group facets in the compact response form.
	meta = "recordings releasegroups compress"
)

// Client is an AcoustID lookup client that implements metadata.IdentityResolver.
type Client struct {
	httpClient *http.Client
	apiURL     string
	clientID   string
}

// New creates a new AcoustID client. A nil httpClient gets a 10s timeout;
// an empty apiURL selects the public service.
func New(httpClient *http.Client, apiURL, clientID string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
		clientID:   clientID,
	}
}

// Lookup returns every candidate the service matched for fp, in response order.
func (c *Client) Lookup(ctx context.Context, fp metadata.FingerprintData) ([]metadata.IdentityCandidate, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("client", c.clientID)
	params.Set("duration", strconv.Itoa(int(fp.Duration)))
	params.Set("fingerprint", fp.Fingerprint)
	params.Set("meta", meta)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create acoustid request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &metadata.TransportError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	// AcoustID reports errors as JSON with a 4xx status, so decode before
	// looking at the status code.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &metadata.TransportError{Service: service, StatusCode: resp.StatusCode, Cause: err}
	}

	var lr lookupResponse
	decodeErr := json.Unmarshal(body, &lr)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("unexpected status: %s", truncate(body))
		if decodeErr == nil && lr.Error != nil {
			cause = lr.Error
		}
		return nil, &metadata.TransportError{Service: service, StatusCode: resp.StatusCode, Cause: cause}
	}
	if decodeErr != nil {
		return nil, &metadata.TransportError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to decode acoustid response: %w", decodeErr),
		}
	}

	if lr.Status != "ok" {
		var cause error = fmt.Errorf("status %q", lr.Status)
		if lr.Error != nil {
			cause = lr.Error
		}
		return nil, &metadata.TransportError{Service: service, StatusCode: resp.StatusCode, Cause: cause}
	}

	if len(lr.Results) == 0 {
		return nil, fmt.Errorf("acoustid lookup succeeded with no results: %w", metadata.ErrProtocolViolation)
	}

	return parseResults(lr.Results), nil
}

func parseResults(results []result) []metadata.IdentityCandidate {
	candidates := make([]metadata.IdentityCandidate, 0, len(results))
	for _, r := range results {
		c := metadata.IdentityCandidate{ID: r.ID, Score: r.Score}
		if r.Recordings != nil {
			c.Recordings = make([]metadata.RecordingRef, 0, len(r.Recordings))
			for _, rec := range r.Recordings {
				c.Recordings = append(c.Recordings, parseRecording(rec))
			}
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func parseRecording(rec recording) metadata.RecordingRef {
	ref := metadata.RecordingRef{ID: rec.ID}
	if rec.Duration != nil {
		ref.Duration = int(*rec.Duration)
	}
	for _, rg := range rec.ReleaseGroups {
		ref.ReleaseGroups = append(ref.ReleaseGroups, metadata.ReleaseGroupRef{
			ID:          rg.ID,
			PrimaryType: metadata.ParseReleaseType(rg.Type),
			Title:       rg.Title,
		})
	}
	for _, a := range rec.Artists {
		ref.Artists = append(ref.Artists, metadata.Artist{ID: a.ID, Name: a.Name})
	}
	return ref
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// AcoustID API response types

type lookupResponse struct {
	Status  string    `json:"status"`
	Results []result  `json:"results"`
	Error   *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("acoustid error %d: %s", e.Code, e.Message)
}

type result struct {
	ID         string      `json:"id"`
	Score      float64     `json:"score"`
	Recordings []recording `json:"recordings"`
}

type recording struct {
	ID            string         `json:"id"`
	Duration      *float64       `json:"duration"`
	ReleaseGroups []releaseGroup `json:"releasegroups"`
	Artists       []artist       `json:"artists"`
}

type releaseGroup struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

type artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsInvalidClient reports whether err is AcoustID rejecting the configured client id.
func IsInvalidClient(err error) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.Code == 4
}
