package metadata

import (
	"errors"
	"math"
	"testing"
)

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []IdentityCandidate
		wantID     string
	}{
		{
			name:       "single candidate",
			candidates: []IdentityCandidate{{ID: "a", Score: 0.4}},
			wantID:     "a",
		},
		{
			name: "max score wins regardless of order",
			candidates: []IdentityCandidate{
				{ID: "a", Score: 0.2},
				{ID: "b", Score: 0.95},
				{ID: "c", Score: 0.5},
			},
			wantID: "b",
		},
		{
			name: "tie keeps first",
			candidates: []IdentityCandidate{
				{ID: "a", Score: 0.3},
				{ID: "b", Score: 0.9},
				{ID: "c", Score: 0.9},
			},
			wantID: "b",
		},
		{
			name: "all equal keeps first",
			candidates: []IdentityCandidate{
				{ID: "a", Score: 0.5},
				{ID: "b", Score: 0.5},
			},
			wantID: "a",
		},
		{
			name: "NaN ranks lowest",
			candidates: []IdentityCandidate{
				{ID: "a", Score: math.NaN()},
				{ID: "b", Score: 0.1},
			},
			wantID: "b",
		},
		{
			name: "NaN after a number is ignored",
			candidates: []IdentityCandidate{
				{ID: "a", Score: 0},
				{ID: "b", Score: math.NaN()},
			},
			wantID: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectBest(tt.candidates)
			if err != nil {
				t.Fatalf("SelectBest() error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("SelectBest() = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelectBestEmpty(t *testing.T) {
	for _, in := range [][]IdentityCandidate{nil, {}} {
		if _, err := SelectBest(in); !errors.Is(err, ErrNoCandidates) {
			t.Errorf("SelectBest(%v) error = %v, want ErrNoCandidates", in, err)
		}
	}
}

func TestFirstRecording(t *testing.T) {
	c := IdentityCandidate{
		ID:         "a",
		Recordings: []RecordingRef{{ID: "r1"}, {ID: "r2"}},
	}
	ref, err := FirstRecording(c)
	if err != nil {
		t.Fatalf("FirstRecording() error: %v", err)
	}
	if ref.ID != "r1" {
		t.Errorf("FirstRecording() = %q, want r1", ref.ID)
	}

	if _, err := FirstRecording(IdentityCandidate{ID: "b"}); !errors.Is(err, ErrNoRecordings) {
		t.Errorf("absent recordings: error = %v, want ErrNoRecordings", err)
	}
	if _, err := FirstRecording(IdentityCandidate{ID: "c", Recordings: []RecordingRef{}}); !errors.Is(err, ErrNoRecordings) {
		t.Errorf("empty recordings: error = %v, want ErrNoRecordings", err)
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Service: "acoustid", Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	var te *TransportError
	if !errors.As(err, &te) || te.Service != "acoustid" {
		t.Errorf("errors.As failed: %v", err)
	}
	if got := (&TransportError{Service: "coverart", StatusCode: 503, Cause: cause}).Error(); got != "coverart request failed (HTTP 503): connection refused" {
		t.Errorf("Error() = %q", got)
	}
}
