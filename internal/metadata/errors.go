package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolViolation means a service reported success with a payload its
	// contract rules out, e.g. an "ok" fingerprint lookup with no results.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrNoCandidates means there was nothing to select from.
	ErrNoCandidates = errors.New("no identity candidates")

	// ErrNoRecordings means a match was found but it lacks a linked canonical recording.
	ErrNoRecordings = errors.New("match found but lacks linked canonical recording")
)

// TransportError reports an unreachable service, a non-2xx response, an
// error status or an undecodable body.
type TransportError struct {
	Service    string
	StatusCode int // 0 when no response was received
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (HTTP %d): %v", e.Service, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
