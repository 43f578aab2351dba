package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
)

func TestDocumentStoreSetGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	if _, err := store.Get(ctx, "players", "p1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := store.Set(ctx, "players", "p1", []byte(`{"id":"p1","name":"Kohli"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Update(ctx, "players", "p1", map[string]any{"teamId": "t1"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, err := store.Get(ctx, "players", "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, err := docstore.Decode[map[string]any](doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["name"] != "Kohli" || got["teamId"] != "t1" {
		t.Fatalf("unexpected document: %+v", got)
	}

	if err := store.Update(ctx, "players", "missing", map[string]any{"x": 1}); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestDocumentStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	_ = store.Set(ctx, "teams", "t1", []byte(`{"id":"t1"}`))

	doc, _ := store.Get(ctx, "teams", "t1")
	doc.Body[0] = 'x'

	again, _ := store.Get(ctx, "teams", "t1")
	if string(again.Body) != `{"id":"t1"}` {
		t.Fatalf("stored body was mutated: %s", again.Body)
	}
}

func TestDocumentStoreListSorted(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	_ = store.Set(ctx, "teams", "t2", []byte(`{}`))
	_ = store.Set(ctx, "teams", "t1", []byte(`{}`))
	_ = store.Set(ctx, "players", "p1", []byte(`{}`))

	docs, err := store.List(ctx, "teams")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "t1" || docs[1].ID != "t2" {
		t.Fatalf("unexpected list: %+v", docs)
	}
}

func TestDocumentBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	batch := store.Batch()
	batch.Set("players", "p1", []byte(`{"id":"p1"}`))
	batch.Update("players", "missing", map[string]any{"x": 1})
	if err := batch.Commit(ctx); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.Get(ctx, "players", "p1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected failed batch to write nothing, got %v", err)
	}

	batch = store.Batch()
	batch.Set("players", "p1", []byte(`{"id":"p1"}`))
	batch.Update("players", "p1", map[string]any{"name": "Kohli"})
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	doc, _ := store.Get(ctx, "players", "p1")
	got, _ := docstore.Decode[map[string]any](doc)
	if got["name"] != "Kohli" {
		t.Fatalf("expected update applied over staged set, got %+v", got)
	}
}

func TestSeedDefault(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	n, err := Seed(ctx, store, DefaultSeed())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 seeded documents, got %d", n)
	}

	players, _ := store.List(ctx, "players")
	if len(players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(players))
	}
}

func TestSeedRequiresID(t *testing.T) {
	_, err := Seed(context.Background(), NewDocumentStore(), SeedData{"players": {{"name": "x"}}})
	if err == nil {
		t.Fatalf("expected error for document without id")
	}
}

func TestDocumentStoreMutateSerializesWriters(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	if err := store.Set(ctx, "players", "p1", []byte(`{"id":"p1","seen":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Mutate(ctx, "players", "p1", func(current docstore.Document) (map[string]any, error) {
				doc, err := docstore.Decode[struct {
					Seen []string `json:"seen"`
				}](current)
				if err != nil {
					return nil, err
				}
				return map[string]any{"seen": append(doc.Seen, fmt.Sprint(i))}, nil
			})
			if err != nil {
				t.Errorf("mutate: %v", err)
			}
		}(i)
	}
	wg.Wait()

	doc, err := store.Get(ctx, "players", "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, err := docstore.Decode[struct {
		ID   string   `json:"id"`
		Seen []string `json:"seen"`
	}](doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "p1" || len(got.Seen) != n {
		t.Fatalf("expected %d writes kept, got %d (%+v)", n, len(got.Seen), got)
	}

	abort := errors.New("abort")
	err = store.Mutate(ctx, "players", "p1", func(docstore.Document) (map[string]any, error) {
		return nil, abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if err := store.Mutate(ctx, "players", "missing", func(docstore.Document) (map[string]any, error) {
		return nil, nil
	}); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
