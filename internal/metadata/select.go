package metadata

import "math"

// SelectBest returns the candidate with the highest score. Ties keep the
// candidate that appears first; NaN scores rank below every number.
func SelectBest(candidates []IdentityCandidate) (IdentityCandidate, error) {
	if len(candidates) == 0 {
		return IdentityCandidate{}, ErrNoCandidates
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if scoreLess(best.Score, c.Score) {
			best = c
		}
	}
	return best, nil
}

// FirstRecording returns the recording the pipeline disambiguates against.
func FirstRecording(c IdentityCandidate) (RecordingRef, error) {
	if len(c.Recordings) == 0 {
		return RecordingRef{}, ErrNoRecordings
	}
	return c.Recordings[0], nil
}

// scoreLess is a strict total order over scores.
func scoreLess(a, b float64) bool {
	switch {
	case math.IsNaN(b):
		return false
	case math.IsNaN(a):
		return true
	default:
		return a < b
	}
}
