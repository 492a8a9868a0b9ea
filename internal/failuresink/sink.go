// Package failuresink records handler and finalizer errors for operators
// to inspect. It is a write-only diagnostic log, never fed back into the
// scheduler: retrying or reprocessing a task is out of scope here, unlike
// the dead-letter queue this package's shape is adapted from.
package failuresink

import (
	"sync"
	"time"
)

// Kind distinguishes which error path produced a FailureRecord.
type Kind int

const (
	KindHandler Kind = iota
	KindFinalizer
)

func (k Kind) String() string {
	switch k {
	case KindHandler:
		return "handler"
	case KindFinalizer:
		return "finalizer"
	default:
		return "unknown"
	}
}

// Record is a single recorded failure.
type Record struct {
	Source     string    `json:"source"`
	Kind       Kind      `json:"kind"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink accepts failure records and can list recently recorded ones.
type Sink interface {
	Add(r Record)
	List(limit int) []Record
	Size() int
	Clear()
}

// Memory is a bounded in-memory ring buffer Sink, the default used when no
// external sink is configured.
type Memory struct {
	mu       sync.Mutex
	capacity int
	records  []Record
	next     int
	full     bool
}

// NewMemory returns a Memory sink holding up to capacity records, oldest
// dropped first once full.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 256
	}
	return &Memory{capacity: capacity, records: make([]Record, capacity)}
}

func (m *Memory) Add(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[m.next] = r
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
}

func (m *Memory) List(limit int) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ordered []Record
	if m.full {
		ordered = append(ordered, m.records[m.next:]...)
		ordered = append(ordered, m.records[:m.next]...)
	} else {
		ordered = append(ordered, m.records[:m.next]...)
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[len(ordered)-limit:]
	}
	out := make([]Record, len(ordered))
	copy(out, ordered)
	return out
}

func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return m.capacity
	}
	return m.next
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = 0
	m.full = false
}
