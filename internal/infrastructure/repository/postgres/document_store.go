package postgres

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
	qb "github.com/riskibarqy/cricket-stats/internal/platform/querybuilder"
)

const documentsTable = "documents"

const upsertDocumentSuffix = `ON CONFLICT (collection, id)
DO UPDATE SET
    body = EXCLUDED.body,
    updated_at = EXCLUDED.updated_at`

// DocumentStore keeps documents as JSONB rows keyed by (collection, id).
type DocumentStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db, now: time.Now}
}

type documentRow struct {
	Collection string    `db:"collection"`
	ID         string    `db:"id"`
	Body       []byte    `db:"body"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r documentRow) toDocument() docstore.Document {
	return docstore.Document{
		Collection: r.Collection,
		ID:         r.ID,
		Body:       r.Body,
		UpdatedAt:  r.UpdatedAt,
	}
}

func getQuery(collection, id string, lock bool) (string, []any, error) {
	b := qb.Select("collection", "id", "body", "updated_at").
		From(documentsTable).
		Where(qb.Eq("collection", collection), qb.Eq("id", id))
	if lock {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return "", nil, crerr.Wrap(err, "build get document query")
	}
	return query, args, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	query, args, err := getQuery(collection, id, false)
	if err != nil {
		return docstore.Document{}, err
	}

	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return docstore.Document{}, fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
		}
		return docstore.Document{}, crerr.Wrapf(err, "get document %s/%s", collection, id)
	}

	return row.toDocument(), nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, body []byte) error {
	query, args, err := s.upsertQuery(collection, id, body)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "set document %s/%s", collection, id)
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	query, args, err := updateQuery(collection, id, fields, s.now().UTC())
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "update document %s/%s", collection, id)
	}
	return requireAffected(result, collection, id)
}

// Mutate locks the row with SELECT ... FOR UPDATE so concurrent mutations of
// one document serialize inside their transactions.
func (s *DocumentStore) Mutate(ctx context.Context, collection, id string, fn docstore.MutateFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx mutate document")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := getQuery(collection, id, true)
	if err != nil {
		return err
	}
	var row documentRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
		}
		return crerr.Wrapf(err, "lock document %s/%s", collection, id)
	}

	fields, err := fn(row.toDocument())
	if err != nil {
		return err
	}

	query, args, err = updateQuery(collection, id, fields, s.now().UTC())
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "mutate document %s/%s", collection, id)
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit mutate document tx")
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	query, args, err := qb.Select("collection", "id", "body", "updated_at").
		From(documentsTable).
		Where(qb.Eq("collection", collection)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list documents query")
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list documents %s", collection)
	}

	out := make([]docstore.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDocument())
	}
	return out, nil
}

func (s *DocumentStore) Batch() docstore.Batch {
	return &documentBatch{store: s}
}

func (s *DocumentStore) upsertQuery(collection, id string, body []byte) (string, []any, error) {
	query, args, err := qb.InsertModel(documentsTable, documentRow{
		Collection: collection,
		ID:         id,
		Body:       body,
		UpdatedAt:  s.now().UTC(),
	}, upsertDocumentSuffix)
	if err != nil {
		return "", nil, crerr.Wrap(err, "build set document query")
	}
	return query, args, nil
}

func updateQuery(collection, id string, fields map[string]any, updatedAt time.Time) (string, []any, error) {
	patch, err := docstore.Encode(fields)
	if err != nil {
		return "", nil, err
	}

	query, args, err := qb.Update(documentsTable).
		SetExpr("body", "body || ?::jsonb", string(patch)).
		Set("updated_at", updatedAt).
		Where(qb.Eq("collection", collection), qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return "", nil, crerr.Wrap(err, "build update document query")
	}
	return query, args, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffecter, collection, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "read rows affected")
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, collection, id)
	}
	return nil
}

type documentBatch struct {
	docstore.Ops
	store *DocumentStore
}

// Commit applies every buffered write inside one transaction.
func (b *documentBatch) Commit(ctx context.Context) error {
	if b.Len() == 0 {
		return nil
	}

	tx, err := b.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx commit document batch")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, op := range b.Items() {
		switch op.Kind {
		case docstore.OpSet:
			query, args, err := b.store.upsertQuery(op.Collection, op.ID, op.Body)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return crerr.Wrapf(err, "batch set document %s/%s", op.Collection, op.ID)
			}
		case docstore.OpUpdate:
			query, args, err := updateQuery(op.Collection, op.ID, op.Fields, b.store.now().UTC())
			if err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return crerr.Wrapf(err, "batch update document %s/%s", op.Collection, op.ID)
			}
			if err := requireAffected(result, op.Collection, op.ID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit document batch tx")
	}
	return nil
}
