// Package fingerprint computes Chromaprint fingerprints by running the fpcalc utility.
package fingerprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"jukebox/internal/metadata"
)

var (
	// ErrFingerprintFailed means fpcalc ran but did not produce a usable fingerprint.
	ErrFingerprintFailed = errors.New("fingerprint calculation failed")

	// ErrFpcalcNotFound means the fpcalc binary could not be located.
	ErrFpcalcNotFound = errors.New("fpcalc not found (install chromaprint / libchromaprint-tools)")
)

// Calculator runs fpcalc and implements metadata.Fingerprinter.
type Calculator struct {
	binary string
}

// New returns a Calculator that runs the given fpcalc binary.
// An empty binary means "fpcalc" from PATH.
func New(binary string) *Calculator {
	if binary == "" {
		binary = "fpcalc"
	}
	return &Calculator{binary: binary}
}

// Fingerprint runs `fpcalc -json path` and decodes its output.
func (c *Calculator) Fingerprint(ctx context.Context, path string) (metadata.FingerprintData, error) {
	if _, err := os.Stat(path); err != nil {
		return metadata.FingerprintData{}, fmt.Errorf("%w: %v", ErrFingerprintFailed, err)
	}

	cmd := exec.CommandContext(ctx, c.binary, "-json", path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return metadata.FingerprintData{}, fmt.Errorf("fingerprint cancelled: %w", ctx.Err())
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return metadata.FingerprintData{}, ErrFpcalcNotFound
		}
		return metadata.FingerprintData{}, fmt.Errorf("%w: fpcalc %s: %v: %s",
			ErrFingerprintFailed, path, err, strings.TrimSpace(stderr.String()))
	}

	var fp metadata.FingerprintData
	if err := json.Unmarshal(stdout.Bytes(), &fp); err != nil {
		return metadata.FingerprintData{}, fmt.Errorf("%w: malformed fpcalc output: %v", ErrFingerprintFailed, err)
	}
	if fp.Fingerprint == "" {
		return metadata.FingerprintData{}, fmt.Errorf("%w: fpcalc returned an empty fingerprint for %s", ErrFingerprintFailed, path)
	}

	return fp, nil
}

// Available reports whether the configured fpcalc binary can be found.
func (c *Calculator) Available() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return ErrFpcalcNotFound
	}
	return nil
}
