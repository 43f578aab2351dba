package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
)

// DocumentStore keeps JSON documents in process memory.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document
	now         func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]docstore.Document),
		now:         time.Now,
	}
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return docstore.Document{}, fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
	}
	return cloneDocument(doc), nil
}

func (s *DocumentStore) Set(_ context.Context, collection, id string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setLocked(collection, id, body)
	return nil
}

func (s *DocumentStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(collection, id, fields)
}

func (s *DocumentStore) Mutate(_ context.Context, collection, id string, fn docstore.MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
	}
	fields, err := fn(cloneDocument(doc))
	if err != nil {
		return err
	}
	return s.updateLocked(collection, id, fields)
}

// List returns the collection ordered by document ID.
func (s *DocumentStore) List(_ context.Context, collection string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	out := make([]docstore.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, cloneDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *DocumentStore) Batch() docstore.Batch {
	return &documentBatch{store: s}
}

func (s *DocumentStore) setLocked(collection, id string, body []byte) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]docstore.Document)
		s.collections[collection] = docs
	}
	docs[id] = docstore.Document{
		Collection: collection,
		ID:         id,
		Body:       append([]byte(nil), body...),
		UpdatedAt:  s.now().UTC(),
	}
}

func (s *DocumentStore) updateLocked(collection, id string, fields map[string]any) error {
	doc, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
	}

	merged, err := docstore.MergeFields(doc.Body, fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	s.setLocked(collection, id, merged)
	return nil
}

type documentBatch struct {
	docstore.Ops
	store *DocumentStore
}

// Commit stages every write first so a failing op leaves the store untouched.
func (b *documentBatch) Commit(_ context.Context) error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct{ collection, id string }
	staged := make(map[key][]byte)
	order := make([]key, 0, b.Len())

	for _, op := range b.Items() {
		k := key{collection: op.Collection, id: op.ID}
		if _, seen := staged[k]; !seen {
			order = append(order, k)
		}

		switch op.Kind {
		case docstore.OpSet:
			staged[k] = op.Body
		case docstore.OpUpdate:
			current, ok := staged[k]
			if !ok {
				doc, exists := s.collections[op.Collection][op.ID]
				if !exists {
					return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, op.Collection, op.ID)
				}
				current = doc.Body
			}
			merged, err := docstore.MergeFields(current, op.Fields)
			if err != nil {
				return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, err)
			}
			staged[k] = merged
		}
	}

	for _, k := range order {
		s.setLocked(k.collection, k.id, staged[k])
	}
	return nil
}

func cloneDocument(doc docstore.Document) docstore.Document {
	doc.Body = append([]byte(nil), doc.Body...)
	return doc
}
