package threads

import "redline/pkg/models"

// EventKind identifies a store mutation kind.
type EventKind string

const (
	EventThreadCreated  EventKind = "thread_created"
	EventMessageAdded   EventKind = "message_added"
	EventStatusChanged  EventKind = "status_changed"
	EventRevisionMapped EventKind = "revision_mapped"
)

// Event describes one successful mutation. Thread is a detached copy taken
// at mutation time.
type Event struct {
	Kind     EventKind
	ThreadID string
	Thread   models.Thread
}

// OnEvent registers a callback invoked synchronously after each successful
// mutation, outside the store lock. Fan-out to UIs or transports is the
// callback's business; the engine only reports what changed. Callbacks
// must not block.
func (s *Store) OnEvent(fn func(Event)) {
	if fn == nil {
		return
	}
	s.cbMu.Lock()
	s.callbacks = append(s.callbacks, fn)
	s.cbMu.Unlock()
}

func (s *Store) emit(ev Event) {
	s.cbMu.RLock()
	cbs := s.callbacks
	s.cbMu.RUnlock()
	for _, fn := range cbs {
		fn(ev)
	}
}

// EmitMapped is called by the revision mapper after a batch touches a
// thread, keeping event consumers in the loop for mapping outcomes.
func (s *Store) EmitMapped(threadID string) {
	t, err := s.GetThread(threadID)
	if err != nil {
		return
	}
	s.emit(Event{Kind: EventRevisionMapped, ThreadID: threadID, Thread: t})
}
