// Package postgres implements the engine's stores on a PostgreSQL pool.
//
// Staged writes are held in memory and flushed inside a single transaction
// on Commit, so an import or sweep batch lands atomically.
package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"inout-engine/internal/models"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// Store backs all three engine stores with one pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger logger.Logger

	mu            sync.Mutex
	stagedRecords []*models.TransactionRecord
	stagedCursors map[string]time.Time
}

// Connect opens a pool against databaseURL and verifies connectivity.
func Connect(ctx context.Context, databaseURL string, log logger.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeConnection, "open pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, pkgerrors.StoreError(pkgerrors.CodeConnection, "ping database", err)
	}
	return NewStore(pool, log), nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Store{
		pool:          pool,
		logger:        log.WithComponent("postgres"),
		stagedCursors: make(map[string]time.Time),
	}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// FetchAll returns every committed transaction record.
func (s *Store) FetchAll(ctx context.Context) ([]*models.TransactionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, amount, currency, kind, category, notes, timestamp
		FROM records
		ORDER BY timestamp, id
	`)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "query records", err)
	}
	defer rows.Close()

	var records []*models.TransactionRecord
	for rows.Next() {
		var record models.TransactionRecord
		var amount *decimal.Decimal
		var kind string
		if err := rows.Scan(&record.ID, &record.Title, &amount, &record.Currency,
			&kind, &record.Category, &record.Notes, &record.Timestamp); err != nil {
			return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "scan record", err)
		}
		if amount != nil {
			record.Amount = decimal.NullDecimal{Decimal: *amount, Valid: true}
		}
		record.Kind = models.RecordKind(kind)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "iterate records", err)
	}
	return records, nil
}

// Create stages a record for the next Commit.
func (s *Store) Create(record *models.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stagedRecords = append(s.stagedRecords, record)
}

// Commit flushes staged records and cursor updates in one transaction. The
// staged batch is cleared whether the transaction lands or rolls back.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	records := s.stagedRecords
	cursors := s.stagedCursors
	s.stagedRecords = nil
	s.stagedCursors = make(map[string]time.Time)
	s.mu.Unlock()

	if len(records) == 0 && len(cursors) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "begin transaction", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var amount *decimal.Decimal
		if record.Amount.Valid {
			amount = &record.Amount.Decimal
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO records (id, title, amount, currency, kind, category, notes, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, record.ID, record.Title, amount, record.Currency,
			string(record.Kind), record.Category, record.Notes, record.Timestamp)
		if err != nil {
			return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "insert record", err)
		}
	}

	for id, cursor := range cursors {
		_, err := tx.Exec(ctx, `
			UPDATE subscriptions SET last_generated_date = $2 WHERE id = $1
		`, id, cursor)
		if err != nil {
			return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "update cursor", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "commit transaction", err)
	}

	s.logger.WithFields(logger.Fields{
		"records": len(records),
		"cursors": len(cursors),
	}).Debug("Committed batch")
	return nil
}

// Categories exposes the category store view.
func (s *Store) Categories() *CategoryStore {
	return &CategoryStore{store: s}
}

// Subscriptions exposes the subscription store view.
func (s *Store) Subscriptions() *SubscriptionStore {
	return &SubscriptionStore{store: s}
}

// CategoryStore is the category taxonomy view of a Store.
type CategoryStore struct {
	store *Store
}

// FetchAll returns all known categories.
func (c *CategoryStore) FetchAll(ctx context.Context) ([]*models.Category, error) {
	rows, err := c.store.pool.Query(ctx, `
		SELECT id, name, kind FROM categories ORDER BY name, kind
	`)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "query categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		var kind string
		if err := rows.Scan(&category.ID, &category.Name, &kind); err != nil {
			return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "scan category", err)
		}
		category.Kind = models.RecordKind(kind)
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "iterate categories", err)
	}
	return categories, nil
}

// Create inserts a category, tolerating a concurrent insert of the same
// (name, kind) pair.
func (c *CategoryStore) Create(ctx context.Context, name string, kind models.RecordKind) error {
	category := models.NewCategory(name, kind)
	_, err := c.store.pool.Exec(ctx, `
		INSERT INTO categories (id, name, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, kind) DO NOTHING
	`, category.ID, category.Name, string(category.Kind))
	if err != nil {
		return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "insert category", err)
	}
	return nil
}

// SubscriptionStore is the subscription view of a Store.
type SubscriptionStore struct {
	store *Store
}

// FetchAll returns all subscription definitions.
func (s *SubscriptionStore) FetchAll(ctx context.Context) ([]*models.Subscription, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT id, title, amount, currency, category, notes, kind,
		       start_date, cycle_unit, cycle_count, end_date, last_generated_date
		FROM subscriptions
		ORDER BY title, id
	`)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "query subscriptions", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var amount *decimal.Decimal
		var kind, unit string
		if err := rows.Scan(&sub.ID, &sub.Title, &amount, &sub.Currency,
			&sub.Category, &sub.Notes, &kind, &sub.StartDate, &unit,
			&sub.CycleCount, &sub.EndDate, &sub.LastGeneratedDate); err != nil {
			return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "scan subscription", err)
		}
		if amount != nil {
			sub.Amount = decimal.NullDecimal{Decimal: *amount, Valid: true}
		}
		sub.Kind = models.RecordKind(kind)
		sub.CycleUnit = models.CycleUnit(unit)
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "iterate subscriptions", err)
	}
	return subs, nil
}

// SaveCursor stages a cursor advance; it is applied by the next Commit.
func (s *SubscriptionStore) SaveCursor(_ context.Context, id string, cursor time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.stagedCursors[id] = cursor
	return nil
}
