package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storevisit/internal/findings"
	"storevisit/internal/logging"
	"storevisit/internal/pipeline"
	"storevisit/internal/services"
	"storevisit/internal/sessiondb"
)

// Restore rebuilds session id from db. Stored records whose category is no
// longer in the taxonomy are skipped with a warning.
func Restore(ctx context.Context, db *sessiondb.DB, id string, p *pipeline.Pipeline, opts ...Option) (*Session, error) {
	records, entries, err := db.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s := New(p, append(opts, WithID(id), WithPersister(db))...)

	tax := p.Taxonomy()
	kept := make([]findings.Record, 0, len(records))
	for _, rec := range records {
		if !tax.Contains(rec.Category) {
			logging.WarnWithContext(s.logger, "stored record has unknown category", "unknown_category",
				logging.String("category", rec.Category),
				logging.String(logging.FieldErrorHint, "restore the taxonomy file used when it was recorded"),
				logging.String(logging.FieldImpact, "record hidden from this run"),
			)
			continue
		}
		kept = append(kept, rec)
	}
	if err := s.store.Append(kept...); err != nil {
		return nil, services.Wrap(services.ErrStoreWrite, componentName, "restore", fmt.Sprintf("load %d records", len(kept)), err)
	}
	if err := s.log.Append(entries...); err != nil {
		return nil, services.Wrap(services.ErrStoreWrite, componentName, "restore", fmt.Sprintf("load %d transcript entries", len(entries)), err)
	}
	s.logger.Debug("session restored", logging.Int("records", len(kept)), logging.Int("transcript_entries", len(entries)))
	return s, nil
}

// Create inserts a new session row and returns the empty session.
func Create(ctx context.Context, db *sessiondb.DB, p *pipeline.Pipeline, opts ...Option) (*Session, error) {
	id := uuid.NewString()
	if _, err := db.CreateSession(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return New(p, append(opts, WithID(id), WithPersister(db))...), nil
}

// Open restores session id, or the most recently used session when id is
// blank. A blank id with no stored sessions creates one.
func Open(ctx context.Context, db *sessiondb.DB, id string, p *pipeline.Pipeline, opts ...Option) (*Session, error) {
	if id != "" {
		return Restore(ctx, db, id, p, opts...)
	}
	latest, err := db.LatestSession(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return Create(ctx, db, p, opts...)
	}
	return Restore(ctx, db, latest.ID, p, opts...)
}
