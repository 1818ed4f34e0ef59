package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process. It backs the test suites and
// the STORE_BACKEND=memory mode for running without a database. All
// operations take the same mutex, so UpdateIf carries the same
// check-and-claim atomicity the Mongo backend gets server-side.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(_ context.Context, path string) (Document, error) {
	tree, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.trees[tree][key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *MemoryStore) GetAll(_ context.Context, tree string) (map[string]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Document, len(s.trees[tree]))
	for key, doc := range s.trees[tree] {
		out[key] = copyDoc(doc)
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, path string, doc Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree(tree)[key] = copyDoc(doc)
	return nil
}

func (s *MemoryStore) SetAll(ctx context.Context, tree string, docs map[string]Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tree(tree)
	for key, doc := range docs {
		t[key] = copyDoc(doc)
	}
	return nil
}

func (s *MemoryStore) Create(_ context.Context, path string, doc Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trees[tree][key]; ok {
		return ErrExists
	}
	s.tree(tree)[key] = copyDoc(doc)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.trees[tree][key]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) UpdateIf(_ context.Context, path string, guard Document, fields Document) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.trees[tree][key]
	if !ok {
		return ErrNotFound
	}
	for k, want := range guard {
		if doc[k] != want {
			return ErrGuardFailed
		}
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, path string) error {
	tree, key, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.trees[tree], key)
	return nil
}

// tree returns the named tree, creating it if needed. Callers hold the
// write lock.
func (s *MemoryStore) tree(name string) map[string]Document {
	t, ok := s.trees[name]
	if !ok {
		t = make(map[string]Document)
		s.trees[name] = t
	}
	return t
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
