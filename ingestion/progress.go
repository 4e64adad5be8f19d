package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how many items a Loader has saved out of an expected total.
// It is safe for concurrent use.
type Progress struct {
	mu           sync.Mutex
	w            io.Writer
	total        int
	interval     int
	saved        int
	lastReported int
	start        time.Time
	now          func() time.Time
}

// NewProgress writes a status line to w every interval saved items.
// An interval below 1 reports only on Finish.
func NewProgress(w io.Writer, total, interval int) *Progress {
	return &Progress{
		w:        w,
		total:    total,
		interval: interval,
		now:      time.Now,
	}
}

// Add records n more saved items. The first call starts the clock.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.start.IsZero() {
		p.start = p.now()
	}
	p.saved += n

	if p.interval > 0 && p.saved-p.lastReported >= p.interval {
		p.report()
		p.lastReported = p.saved
	}
}

// Saved returns the number of items recorded so far.
func (p *Progress) Saved() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved
}

// Finish writes the final status line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.start.IsZero() {
		p.start = p.now()
	}
	p.report()
	fmt.Fprintln(p.w)
}

// report must be called with the lock held.
func (p *Progress) report() {
	rate := 0.0
	if elapsed := p.now().Sub(p.start).Seconds(); elapsed > 0 {
		rate = float64(p.saved) / elapsed
	}

	if p.total > 0 {
		pct := float64(p.saved) / float64(p.total) * 100.0
		fmt.Fprintf(p.w, "\rloaded %d/%d (%.1f%%) - %.1f items/s", p.saved, p.total, pct, rate)
		return
	}
	fmt.Fprintf(p.w, "\rloaded %d - %.1f items/s", p.saved, rate)
}
