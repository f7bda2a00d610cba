// Package store provides the durable key-value collaborators the engine
// persists through. The engine only requires Load/Save of opaque bytes;
// Pebble is the production implementation, Memory backs tests and
// ephemeral tooling.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"redline/pkg/logger"
)

// keyspace prefix for engine payloads, leaving room for other namespaces
// (snapshots, admin markers) in the same DB.
const enginePrefix = "engine:"

// Pebble is a pebble-backed persistence collaborator.
type Pebble struct {
	db   *pebble.DB
	path string
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*Pebble, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("pebble_opened", "path", path)
	return &Pebble{db: db, path: path}, nil
}

// Close closes the database.
func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return err
	}
	p.db = nil
	logger.Info("pebble_closed", "path", p.path)
	return nil
}

// Ready reports whether the store is open.
func (p *Pebble) Ready() bool { return p != nil && p.db != nil }

// Load returns the value stored under key, or (nil, nil) when the key has
// never been written.
func (p *Pebble) Load(key string) ([]byte, error) {
	if p.db == nil {
		return nil, fmt.Errorf("pebble not opened")
	}
	v, closer, err := p.db.Get([]byte(enginePrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()
	out := append([]byte(nil), v...)
	return out, nil
}

// Save writes value under key with a synced WAL entry.
func (p *Pebble) Save(key string, value []byte) error {
	if p.db == nil {
		return fmt.Errorf("pebble not opened")
	}
	if err := p.db.Set([]byte(enginePrefix+key), value, pebble.Sync); err != nil {
		logger.Error("pebble_save_failed", "key", key, "error", err)
		return err
	}
	logger.Debug("pebble_save_ok", "key", key, "len", len(value))
	return nil
}

// ListKeys returns all engine keys with the given prefix, for inspection
// tooling.
func (p *Pebble) ListKeys(prefix string) ([]string, error) {
	if p.db == nil {
		return nil, fmt.Errorf("pebble not opened")
	}
	pfx := []byte(enginePrefix + prefix)
	iter, err := p.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(bytes.TrimPrefix(k, []byte(enginePrefix))))
	}
	return out, iter.Error()
}

// Memory is an in-process persistence collaborator. Safe for concurrent
// use.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

// NewMemory builds an empty in-memory persistence.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Load returns the stored value or (nil, nil).
func (s *Memory) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of value under key.
func (s *Memory) Save(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}
