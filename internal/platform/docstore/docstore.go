package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Document is a JSON body addressed by collection and ID.
type Document struct {
	Collection string
	ID         string
	Body       []byte
	UpdatedAt  time.Time
}

// MutateFunc derives the fields to merge from the current document.
// Returning an error aborts the write.
type MutateFunc func(current Document) (map[string]any, error)

// Store is a key-addressed document store. It offers no queries, indexes or
// transactions beyond atomic batch commits and single-document Mutate.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, body []byte) error
	// Update merges fields into the top level of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Mutate is a read-modify-write of one existing document. No other write
	// to it lands between the read passed to fn and the merge of its fields.
	Mutate(ctx context.Context, collection, id string, fn MutateFunc) error
	List(ctx context.Context, collection string) ([]Document, error)
	Batch() Batch
}

// Batch buffers writes until Commit applies them all or none.
type Batch interface {
	Set(collection, id string, body []byte)
	Update(collection, id string, fields map[string]any)
	Len() int
	Commit(ctx context.Context) error
}

type OpKind string

const (
	OpSet    OpKind = "set"
	OpUpdate OpKind = "update"
)

// Op is one buffered batch write. Implementations share it through Ops.
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Body       []byte
	Fields     map[string]any
}

// Ops is an embeddable write buffer for Batch implementations.
type Ops struct {
	items []Op
}

func (o *Ops) Set(collection, id string, body []byte) {
	o.items = append(o.items, Op{Kind: OpSet, Collection: collection, ID: id, Body: append([]byte(nil), body...)})
}

func (o *Ops) Update(collection, id string, fields map[string]any) {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	o.items = append(o.items, Op{Kind: OpUpdate, Collection: collection, ID: id, Fields: copied})
}

func (o *Ops) Len() int {
	return len(o.items)
}

func (o *Ops) Items() []Op {
	return o.items
}
