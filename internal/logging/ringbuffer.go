package logging

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is one log line kept for the API's recent-log view.
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Level     string            `json:"level"`
	Source    string            `json:"source"`
	Message   string            `json:"message"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// RingBuffer is a thread-safe circular buffer for log entries
type RingBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 1
	}
	return &RingBuffer{entries: make([]Entry, size)}
}

// Add adds an entry, overwriting the oldest one when full.
func (rb *RingBuffer) Add(e Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = e
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}
}

// Last returns up to n most recent entries, oldest first.
// Entries are filtered by source when source is non-empty.
func (rb *RingBuffer) Last(n int, source string) []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	size := len(rb.entries)
	start := (rb.head - rb.count + size) % size

	out := make([]Entry, 0, rb.count)
	for i := 0; i < rb.count; i++ {
		e := rb.entries[(start+i)%size]
		if source != "" && e.Source != source {
			continue
		}
		out = append(out, e)
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Count returns the number of entries in the buffer
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

var (
	recent     *RingBuffer
	recentOnce sync.Once
)

// Recent returns the process-wide buffer of recent log entries.
func Recent() *RingBuffer {
	recentOnce.Do(func() {
		recent = NewRingBuffer(2000)
	})
	return recent
}

func levelName(level slog.Level) string {
	switch {
	case level <= slog.LevelDebug:
		return "debug"
	case level <= slog.LevelInfo:
		return "info"
	case level <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}
