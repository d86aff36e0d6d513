// Package progress draws a one-line progress bar for batch identification.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const barWidth = 30

// Bar is a carriage-return progress bar. Safe for concurrent use.
type Bar struct {
	w         io.Writer
	total     int
	current   int
	failed    int
	label     string
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	interval  time.Duration
	done      bool
}

// New creates a bar counting to total that draws on w.
func New(w io.Writer, total int) *Bar {
	now := time.Now()
	return &Bar{
		w:         w,
		total:     total,
		startTime: now,
		lastPrint: now,
		interval:  200 * time.Millisecond,
	}
}

// Start shows name as the file currently being worked on.
func (b *Bar) Start(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.label = name
	b.maybeRender()
}

// Increment counts one finished file; ok is false when it failed.
func (b *Bar) Increment(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	if !ok {
		b.failed++
	}
	b.maybeRender()
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.label = ""
	b.render()
	fmt.Fprintln(b.w)
	b.done = true
}

func (b *Bar) maybeRender() {
	now := time.Now()
	if now.Sub(b.lastPrint) >= b.interval || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

func (b *Bar) render() {
	if b.done || b.total <= 0 {
		return
	}

	current := min(b.current, b.total)
	filled := barWidth * current / b.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	elapsed := time.Since(b.startTime)
	var eta time.Duration
	if current > 0 {
		eta = elapsed / time.Duration(current) * time.Duration(b.total-current)
	}

	line := fmt.Sprintf("\r[%s] %d/%d", bar, current, b.total)
	if b.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", b.failed)
	}
	line += fmt.Sprintf(" - %s elapsed, ETA %s", FormatDuration(elapsed), FormatDuration(eta))
	if b.label != "" {
		line += " - " + truncate(b.label, 30)
	}
	fmt.Fprintf(b.w, "%s\033[K", line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// FormatDuration formats d as 42s, 3m7s or 1h5m.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
