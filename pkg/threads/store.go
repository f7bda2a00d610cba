package threads

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"redline/pkg/logger"
	"redline/pkg/models"
	"redline/pkg/telemetry"
	"redline/pkg/utils"
	"redline/pkg/validation"
)

// DefaultPersistKey is the logical key one engine instance serializes its
// thread collection under.
const DefaultPersistKey = "threads"

// Persistence is the pluggable storage collaborator. Load returns (nil, nil)
// when the key has never been written. The engine treats corrupt or missing
// data as "no threads yet" and persistence failures as warnings; in-memory
// state stays authoritative for the process lifetime.
type Persistence interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}

// Store is the authoritative in-memory collection of threads. All mutations
// serialize on one mutex; the algorithms themselves assume single-writer
// semantics, so the lock is the required boundary for a multi-goroutine
// host.
type Store struct {
	mu      sync.Mutex
	threads map[string]*models.Thread

	persist Persistence
	key     string

	cbMu      sync.RWMutex
	callbacks []func(Event)
}

// CreateThreadParams carries the inputs of CreateThread. BBox is copied
// into the thread, never aliased with the caller's selection.
type CreateThreadParams struct {
	ProjectID   string
	SheetID     string
	Revision    string
	BBox        models.BBox
	CreatedBy   string
	InitialText string
	AuthorName  string

	Title      string
	Priority   models.Priority
	AssigneeID string
	DueDate    string
	Tags       []string
}

// NewStore builds a Store backed by the given persistence collaborator and
// hydrates it from storage. persist may be nil for a purely in-memory
// engine (tests, ephemeral tooling).
func NewStore(persist Persistence, key string) *Store {
	if key == "" {
		key = DefaultPersistKey
	}
	s := &Store{
		threads: make(map[string]*models.Thread),
		persist: persist,
		key:     key,
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	if s.persist == nil {
		return
	}
	b, err := s.persist.Load(s.key)
	if err != nil {
		logger.Warn("thread_store_load_failed", "key", s.key, "error", err)
		return
	}
	if len(b) == 0 {
		return
	}
	var all []models.Thread
	if err := json.Unmarshal(b, &all); err != nil {
		logger.Warn("thread_store_corrupt", "key", s.key, "error", err)
		return
	}
	for i := range all {
		t := all[i]
		s.threads[t.ID] = &t
	}
	logger.Info("thread_store_hydrated", "key", s.key, "threads", len(all))
}

// persistLocked serializes the full collection under the store's key.
// Best-effort: failures are logged and swallowed, memory stays the source
// of truth.
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	all := make([]models.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	b, err := json.Marshal(all)
	if err != nil {
		logger.Warn("thread_store_marshal_failed", "error", err)
		return
	}
	if err := s.persist.Save(s.key, b); err != nil {
		logger.Warn("thread_store_save_failed", "key", s.key, "error", err)
	}
}

// CreateThread creates a thread pinned to a sheet region with exactly one
// initial message, status open and created==updated timestamps.
func (s *Store) CreateThread(p CreateThreadParams) (models.Thread, error) {
	if err := s.validateCreate(p); err != nil {
		return models.Thread{}, err
	}

	now := utils.Now()
	th := &models.Thread{
		ID:         utils.GenThreadID(),
		ProjectID:  p.ProjectID,
		SheetID:    p.SheetID,
		Revision:   p.Revision,
		BBox:       p.BBox,
		Status:     models.StatusOpen,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
		Title:      p.Title,
		Priority:   p.Priority,
		AssigneeID: p.AssigneeID,
		DueDate:    p.DueDate,
		Tags:       append([]string(nil), p.Tags...),
		Messages: []models.Message{{
			ID:         utils.GenMessageID(),
			AuthorID:   p.CreatedBy,
			AuthorName: p.AuthorName,
			Text:       p.InitialText,
			CreatedAt:  now,
		}},
	}

	s.mu.Lock()
	s.threads[th.ID] = th
	s.persistLocked()
	out := th.Clone()
	s.mu.Unlock()

	telemetry.ThreadsCreated.Inc()
	logger.Info("thread_created", "thread", th.ID, "project", th.ProjectID, "sheet", th.SheetID, "revision", th.Revision)
	s.emit(Event{Kind: EventThreadCreated, ThreadID: th.ID, Thread: out})
	return out, nil
}

func (s *Store) validateCreate(p CreateThreadParams) error {
	if err := validation.RequireID("project_id", p.ProjectID); err != nil {
		return err
	}
	if err := validation.RequireID("sheet_id", p.SheetID); err != nil {
		return err
	}
	if err := validation.RequireID("revision", p.Revision); err != nil {
		return err
	}
	if err := validation.RequireID("created_by", p.CreatedBy); err != nil {
		return err
	}
	if err := validation.RequireText("initial message text", p.InitialText); err != nil {
		return err
	}
	if err := validation.BBox(p.BBox); err != nil {
		return err
	}
	return validation.Priority(p.Priority)
}

// GetThread returns a deep copy of the thread or ErrNotFound.
func (s *Store) GetThread(threadID string) (models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return models.Thread{}, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	return t.Clone(), nil
}

// GetThreadsBySheet returns threads on a sheet, optionally narrowed to one
// revision (empty revision matches all). Results are copies sorted by
// creation time.
func (s *Store) GetThreadsBySheet(sheetID, revision string) []models.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Thread
	for _, t := range s.threads {
		if t.SheetID != sheetID {
			continue
		}
		if revision != "" && t.Revision != revision {
			continue
		}
		out = append(out, t.Clone())
	}
	sortThreads(out)
	return out
}

// GetThreadsByProject returns copies of all threads in a project.
func (s *Store) GetThreadsByProject(projectID string) []models.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Thread
	for _, t := range s.threads {
		if t.ProjectID == projectID {
			out = append(out, t.Clone())
		}
	}
	sortThreads(out)
	return out
}

// UpdateStatus transitions a thread to newStatus and appends a system
// message recording the transition, so status history is reconstructable
// from the message log alone. Any status may follow any other.
func (s *Store) UpdateStatus(threadID string, newStatus models.Status, actorID string) (models.Thread, error) {
	if err := validation.Status(newStatus); err != nil {
		return models.Thread{}, err
	}
	if err := validation.RequireID("actor_id", actorID); err != nil {
		return models.Thread{}, err
	}

	s.mu.Lock()
	t, ok := s.threads[threadID]
	if !ok {
		s.mu.Unlock()
		return models.Thread{}, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	prev := t.Status
	now := utils.Now()
	t.Status = newStatus
	t.UpdatedAt = now
	t.Messages = append(t.Messages, models.Message{
		ID:        utils.GenMessageID(),
		AuthorID:  models.SystemAuthorID,
		Text:      fmt.Sprintf("Status changed from %s to %s by %s", prev, newStatus, actorID),
		CreatedAt: now,
	})
	s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	logger.Info("thread_status_updated", "thread", threadID, "from", prev, "to", newStatus, "actor", actorID)
	s.emit(Event{Kind: EventStatusChanged, ThreadID: threadID, Thread: out})
	return out, nil
}

// SetRevision advances a thread's revision pointer. Reserved for the
// revision mapper; nothing else may move a thread between revisions.
func (s *Store) SetRevision(threadID, newRevision string) error {
	if err := validation.RequireID("revision", newRevision); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	t.Revision = newRevision
	t.UpdatedAt = utils.Now()
	s.persistLocked()
	return nil
}

func sortThreads(ts []models.Thread) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].ID < ts[j].ID
		}
		return ts[i].CreatedAt.Before(ts[j].CreatedAt)
	})
}
