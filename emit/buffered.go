package emit

import (
	"context"
	"sync"
)

// BufferedEmitter stores events in memory, keyed by DocID, for tests and
// post-match inspection.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// HistoryFilter narrows GetHistoryWithFilter's results. Zero-valued fields
// impose no constraint.
type HistoryFilter struct {
	QName   string
	Msg     string
	MinStep *int
	MaxStep *int
}

// NewBufferedEmitter creates an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit appends event to its DocID's history.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.DocID] = append(b.events[event.DocID], event)
}

// EmitBatch appends events in order.
func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, e := range events {
		b.Emit(e)
	}
	return nil
}

// Flush is a no-op: BufferedEmitter never buffers beyond its own map.
func (b *BufferedEmitter) Flush(context.Context) error { return nil }

// GetHistory returns a copy of docID's recorded events, in emission order.
func (b *BufferedEmitter) GetHistory(docID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	events := b.events[docID]
	result := make([]Event, len(events))
	copy(result, events)
	return result
}

// GetHistoryWithFilter returns docID's events matching every set field of
// filter.
func (b *BufferedEmitter) GetHistoryWithFilter(docID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var result []Event
	for _, event := range b.events[docID] {
		if filter.QName != "" && event.QName != filter.QName {
			continue
		}
		if filter.Msg != "" && event.Msg != filter.Msg {
			continue
		}
		if filter.MinStep != nil && event.EventIndex < *filter.MinStep {
			continue
		}
		if filter.MaxStep != nil && event.EventIndex > *filter.MaxStep {
			continue
		}
		result = append(result, event)
	}
	return result
}

// Clear drops docID's history, or every document's history if docID is
// empty.
func (b *BufferedEmitter) Clear(docID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if docID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, docID)
}
