package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"barrage/internal/metrics"
)

// ProgressReporter displays real-time progress updates. It receives the
// per-completion (completed, total) signal from the runner and renders it on
// a ticker together with live collector aggregates, so the observer callback
// stays cheap on the hot path.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	completed int64
	total     int64
	start     time.Time
}

// NewProgressReporter creates a progress reporter that redraws at the given
// interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// OnProgress records the latest completion counts. Invoked by the runner
// after every resolved request; safe to call from the collector goroutine.
func (p *ProgressReporter) OnProgress(completed, total int) {
	atomic.StoreInt64(&p.completed, int64(completed))
	atomic.StoreInt64(&p.total, int64(total))
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and draws a final line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			p.draw()
		case <-p.done:
			p.draw()
			return
		}
	}
}

func (p *ProgressReporter) draw() {
	completed := atomic.LoadInt64(&p.completed)
	total := atomic.LoadInt64(&p.total)
	snap := p.collector.Stats(time.Since(p.start))

	line := fmt.Sprintf("\rProgress: %d/%d | Failures: %d | RPS: %.1f | P99: %.1fms",
		completed, total, snap.Failures, snap.RequestsPerSec, snap.P99LatencyMs)
	fmt.Fprint(p.writer, line)
}
