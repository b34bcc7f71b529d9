// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace routes research results into stage-organized workspace
// documents and persists them.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// ErrNotFound reports that no workspace document exists for the given ID.
var ErrNotFound = errors.New("workspace not found")

// Store persists workspace documents.
type Store interface {
	// Create inserts a new document. Fails if the ID already exists.
	Create(ctx context.Context, doc *types.WorkspaceDocument) error
	// Get returns the document with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*types.WorkspaceDocument, error)
	// Update overwrites an existing document, or returns ErrNotFound.
	Update(ctx context.Context, doc *types.WorkspaceDocument) error
	// List returns all documents owned by ownerID, newest first.
	List(ctx context.Context, ownerID string) ([]*types.WorkspaceDocument, error)
	// Delete removes a document. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Store for tests and single-shot CLI runs.
// All documents are deep-copied on the way in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*types.WorkspaceDocument
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*types.WorkspaceDocument)}
}

// Create inserts doc.
func (m *MemoryStore) Create(_ context.Context, doc *types.WorkspaceDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; ok {
		return fmt.Errorf("workspace %s already exists", doc.ID)
	}
	m.docs[doc.ID] = doc.Clone()
	return nil
}

// Get returns a copy of the document with the given ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*types.WorkspaceDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

// Update overwrites an existing document.
func (m *MemoryStore) Update(_ context.Context, doc *types.WorkspaceDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return ErrNotFound
	}
	m.docs[doc.ID] = doc.Clone()
	return nil
}

// List returns all documents owned by ownerID, newest first.
func (m *MemoryStore) List(_ context.Context, ownerID string) ([]*types.WorkspaceDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.WorkspaceDocument
	for _, doc := range m.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc.Clone())
		}
	}
	sortByLastUpdated(out)
	return out, nil
}

// Delete removes a document.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func sortByLastUpdated(docs []*types.WorkspaceDocument) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].LastUpdated.After(docs[j].LastUpdated)
	})
}
