package corpus

import (
	"fmt"
	"slices"

	"github.com/hupe1980/linkweave/model"
)

// MemoryStore holds documents by ID. It satisfies assemble.DocumentSource.
// It is immutable after loading and safe for concurrent readers.
type MemoryStore struct {
	docs []model.Document
	byID map[model.ID]int
}

// NewMemoryStore indexes docs. Later duplicates of an ID are kept in
// Documents but Document returns the first.
func NewMemoryStore(docs []model.Document) *MemoryStore {
	s := &MemoryStore{docs: docs, byID: make(map[model.ID]int, len(docs))}
	for i, d := range docs {
		if _, ok := s.byID[d.ID]; !ok {
			s.byID[d.ID] = i
		}
	}
	return s
}

// Document returns the document with id.
func (s *MemoryStore) Document(id model.ID) (model.Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Document{}, false
	}
	return s.docs[i], true
}

// Len returns the number of distinct IDs.
func (s *MemoryStore) Len() int {
	return len(s.byID)
}

// Documents returns all documents in load order. The slice must not be
// modified.
func (s *MemoryStore) Documents() []model.Document {
	return s.docs
}

// LoadDocuments reads every document record of path.
func LoadDocuments(path string, opts ...ReaderOption) (*MemoryStore, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var docs []model.Document
	if err := ReadDocuments(rc, func(d model.Document) error {
		docs = append(docs, d)
		return nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewMemoryStore(slices.Clip(docs)), nil
}

// LoadRedirects reads every redirect record of path.
func LoadRedirects(path string, opts ...ReaderOption) ([]model.Redirect, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var out []model.Redirect
	if err := ReadRedirects(rc, func(r model.Redirect) error {
		out = append(out, r)
		return nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
