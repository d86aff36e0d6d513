package acoustid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jukebox/internal/metadata"
)

func TestLookup_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		checks := map[string]string{
			"format":      "json",
			"client":      "test-client",
			"duration":    "187",
			"fingerprint": "AQADtEmUSEkS",
			"meta":        "recordings releasegroups compress",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("query %s = %q, want %q", k, got, want)
			}
		}
		if !strings.Contains(r.URL.RawQuery, "meta=recordings+releasegroups+compress") {
			t.Errorf("meta not +-separated: %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"results": [
				{"id": "low", "score": 0.31},
				{
					"id": "high",
					"score": 0.97,
					"recordings": [{
						"id": "rec-1",
						"duration": 187,
						"releasegroups": [
							{"id": "rg-1", "type": "Album", "title": "Album A"},
							{"id": "rg-2", "type": "Single", "title": "Song A"}
						],
						"artists": [{"id": "art-1", "name": "Artist A"}]
					}]
				}
			]
		}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "test-client")
	got, err := c.Lookup(context.Background(), metadata.FingerprintData{Duration: 187.9, Fingerprint: "AQADtEmUSEkS"})
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	if got[0].ID != "low" || got[0].Recordings != nil {
		t.Errorf("first candidate = %+v, want response order and absent recordings", got[0])
	}

	high := got[1]
	if high.Score != 0.97 || len(high.Recordings) != 1 {
		t.Fatalf("second candidate = %+v", high)
	}
	rec := high.Recordings[0]
	if rec.ID != "rec-1" || rec.Duration != 187 {
		t.Errorf("recording = %+v", rec)
	}
	if len(rec.ReleaseGroups) != 2 || rec.ReleaseGroups[0].PrimaryType != metadata.ReleaseTypeAlbum || rec.ReleaseGroups[1].PrimaryType != metadata.ReleaseTypeSingle {
		t.Errorf("release groups = %+v", rec.ReleaseGroups)
	}
	if len(rec.Artists) != 1 || rec.Artists[0].Name != "Artist A" {
		t.Errorf("artists = %+v", rec.Artists)
	}
}

func TestLookup_EmptyResultsIsProtocolViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "results": []}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "id")
	_, err := c.Lookup(context.Background(), metadata.FingerprintData{Duration: 1, Fingerprint: "x"})
	if !errors.Is(err, metadata.ErrProtocolViolation) {
		t.Fatalf("error = %v, want ErrProtocolViolation", err)
	}
	var te *metadata.TransportError
	if errors.As(err, &te) {
		t.Error("protocol violation must not be reported as a transport error")
	}
}

func TestLookup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantClient bool
	}{
		{
			name:       "error status with 400",
			status:     http.StatusBadRequest,
			body:       `{"status": "error", "error": {"code": 4, "message": "invalid API key"}}`,
			wantStatus: http.StatusBadRequest,
			wantClient: true,
		},
		{
			name:       "error status with 200",
			status:     http.StatusOK,
			body:       `{"status": "error", "error": {"code": 3, "message": "invalid fingerprint"}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       `{"status": "ok", "results": [`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.Client(), srv.URL, "id")
			_, err := c.Lookup(context.Background(), metadata.FingerprintData{Duration: 1, Fingerprint: "x"})

			var te *metadata.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want TransportError", err)
			}
			if te.Service != "acoustid" || te.StatusCode != tt.wantStatus {
				t.Errorf("TransportError = %+v", te)
			}
			if IsInvalidClient(err) != tt.wantClient {
				t.Errorf("IsInvalidClient() = %v, want %v", !tt.wantClient, tt.wantClient)
			}
		})
	}
}

func TestLookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(nil, url, "id")
	_, err := c.Lookup(context.Background(), metadata.FingerprintData{Duration: 1, Fingerprint: "x"})
	var te *metadata.TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 {
		t.Errorf("error = %v, want TransportError without status", err)
	}
}
