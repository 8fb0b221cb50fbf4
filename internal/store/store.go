// Package store defines the collaborator interfaces the engine runs against:
// the transaction record store, the category taxonomy store, the subscription
// store, plus the injected clock and default-currency provider.
//
// Writes are staged: Create and SaveCursor queue changes that become visible
// only after Commit, which applies the whole batch atomically. Other readers
// see the store either before or after a batch, never mid-batch.
package store

import (
	"context"
	"time"

	"inout-engine/internal/models"
)

// RecordStore is the transaction record collaborator.
type RecordStore interface {
	// FetchAll returns a snapshot of all committed records.
	FetchAll(ctx context.Context) ([]*models.TransactionRecord, error)

	// Create stages a record for the current batch. It becomes visible only
	// after Commit.
	Create(record *models.TransactionRecord)

	// Commit atomically applies everything staged since the last Commit,
	// including cursor updates staged via SubscriptionStore.SaveCursor. On
	// failure nothing staged is persisted.
	Commit(ctx context.Context) error
}

// CategoryStore is the taxonomy collaborator.
type CategoryStore interface {
	// FetchAll returns all known categories.
	FetchAll(ctx context.Context) ([]*models.Category, error)

	// Create adds a category identified by the (name, kind) pair.
	Create(ctx context.Context, name string, kind models.RecordKind) error
}

// SubscriptionStore is the recurring-charge collaborator.
type SubscriptionStore interface {
	// FetchAll returns all subscription definitions.
	FetchAll(ctx context.Context) ([]*models.Subscription, error)

	// SaveCursor stages an advance of a subscription's generation cursor.
	// The new cursor is persisted by the next RecordStore.Commit so records
	// and cursor move together.
	SaveCursor(ctx context.Context, id string, cursor time.Time) error
}

// Clock supplies the current instant. Injected so generation and same-day
// comparisons are deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct {
	At time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// CurrencyProvider supplies the default currency code used when a row or
// subscription omits one.
type CurrencyProvider interface {
	DefaultCurrencyCode() string
}

// StaticCurrency is a CurrencyProvider with a fixed code.
type StaticCurrency string

// DefaultCurrencyCode returns the fixed code.
func (c StaticCurrency) DefaultCurrencyCode() string {
	return string(c)
}
