package logging

import (
	"log/slog"
	"sync"
)

// Deduper suppresses repeats of spammy warning lines within one retrieval
// run. It replaces ad-hoc closure-captured seen-sets with an explicit
// observer whose lifecycle is documented: call Reset at the start of each
// run.
type Deduper struct {
	mu     sync.Mutex
	logger *slog.Logger
	seen   map[string]struct{}
}

// NewDeduper wraps logger with warning de-duplication.
func NewDeduper(logger *slog.Logger) *Deduper {
	return &Deduper{logger: logger, seen: make(map[string]struct{})}
}

// Reset clears the seen-set. Must be called when a new run starts so
// warnings suppressed in a previous run surface again.
func (d *Deduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
}

// Warn logs msg at warn level unless an identical message was already
// logged since the last Reset.
func (d *Deduper) Warn(msg string, args ...any) {
	d.mu.Lock()
	if _, dup := d.seen[msg]; dup {
		d.mu.Unlock()
		return
	}
	d.seen[msg] = struct{}{}
	d.mu.Unlock()
	d.logger.Warn(msg, args...)
}

// Info logs unconditionally; only warnings are de-duplicated.
func (d *Deduper) Info(msg string, args ...any) {
	d.logger.Info(msg, args...)
}

// Error logs unconditionally.
func (d *Deduper) Error(msg string, args ...any) {
	d.logger.Error(msg, args...)
}
