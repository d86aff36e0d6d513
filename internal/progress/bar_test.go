package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBarRendersCounts(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 2)
	b.interval = 0

	b.Start("first.mp3")
	b.Increment(true)
	b.Increment(false)
	b.Finish()

	out := buf.String()
	if !strings.Contains(out, "2/2 (1 failed)") {
		t.Errorf("output missing final count: %q", out)
	}
	if !strings.Contains(out, "first.mp3") {
		t.Errorf("output missing label: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should end the line")
	}

	n := buf.Len()
	b.Finish()
	b.Increment(true)
	if buf.Len() != n {
		t.Error("bar should not draw after Finish")
	}
}

func TestBarEmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, 0)
	b.Increment(true)
	b.Finish()
	if buf.String() != "\n" {
		t.Errorf("output = %q, want only newline", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long file name.flac", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate long = %q (%d runes)", got, len([]rune(got)))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 7*time.Second, "3m7s"},
		{time.Hour + 5*time.Minute, "1h5m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
