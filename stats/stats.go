// Package stats appends one human-readable entry per sort to a statistics
// file: cache hits, disk reads, disk writes, and elapsed time.
//
// The teacher's WALWriter queued entries onto a channel drained by a
// background goroutine, because many concurrent producers could be writing
// to the same segment file. A sort process only ever produces one stats
// entry, written once at the very end of the run, so that queue has no
// producer to decouple; Writer keeps the mutex-guarded, closed-flag-checked
// shape of WALWriter but writes synchronously.
package stats

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("stats: writer closed")

// Entry is one sort's worth of statistics.
type Entry struct {
	DataFile   string
	CacheHits  int64
	DiskReads  int64
	DiskWrites int64
	SortTime   time.Duration
}

// Writer appends Entry values to a statistics file in text, UTF-8, append
// mode.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	closed bool
}

// Open opens (creating if necessary) the statistics file at path for
// appending.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("stats: open %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// Write appends e to the statistics file.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	text := fmt.Sprintf(
		"File: %s\nCache hits: %d\nDisk reads: %d\nDisk writes: %d\nSort time: %d ms\n\n",
		e.DataFile, e.CacheHits, e.DiskReads, e.DiskWrites, e.SortTime.Milliseconds(),
	)

	if _, err := w.f.WriteString(text); err != nil {
		return fmt.Errorf("stats: write: %w", err)
	}
	return w.f.Sync()
}

// Close releases the underlying file. Idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}
