package telemetry

import (
	"encoding/json"
	"sync"
	"time"

	"taskodo/internal/clock"
)

// Repository is the board's activity log.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	// GetEvents returns events at or after since, oldest first. An empty
	// types list matches every type.
	GetEvents(since time.Time, types []EventType) ([]Event, error)
	Clear() error
}

// DefaultMaxEvents bounds the in-memory log; the oldest events go first.
const DefaultMaxEvents = 10000

type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
	max    int
	clock  clock.Clock
}

func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(clock.RealClock{})
}

func NewMemoryRepositoryWithClock(c clock.Clock) *MemoryRepository {
	if c == nil {
		c = clock.RealClock{}
	}
	return &MemoryRepository{nextID: 1, max: DefaultMaxEvents, clock: c}
}

// SetMaxEvents changes the retention bound; n <= 0 keeps everything.
func (r *MemoryRepository) SetMaxEvents(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.max = n
	r.trimLocked()
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	if metadata == nil {
		metadata = EventMetadata{}
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.clock.Now(),
		Metadata:  string(b),
	})
	r.nextID++
	r.trimLocked()
	return nil
}

func (r *MemoryRepository) trimLocked() {
	if r.max > 0 && len(r.events) > r.max {
		r.events = append([]Event(nil), r.events[len(r.events)-r.max:]...)
	}
}

func (r *MemoryRepository) GetEvents(since time.Time, types []EventType) ([]Event, error) {
	want := make(map[EventType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Event{}
	for _, e := range r.events {
		if e.Timestamp.Before(since) || (len(want) > 0 && !want[e.Type]) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Clear drops every event. Ids keep counting so clients never see one reused.
func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}
