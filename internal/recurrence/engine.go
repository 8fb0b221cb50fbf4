package recurrence

import (
	"context"

	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// SweepResult summarizes one sweep over the subscription set.
type SweepResult struct {
	Subscriptions int `json:"subscriptions"`
	Generated     int `json:"generated"`
	Skipped       int `json:"skipped"`
}

// Engine walks every subscription, materializes due occurrences and commits
// the records together with the advanced cursors in one batch.
type Engine struct {
	records       store.RecordStore
	subscriptions store.SubscriptionStore
	clock         store.Clock
	currency      store.CurrencyProvider
	logger        logger.Logger
}

// NewEngine creates a sweep engine over the given stores.
func NewEngine(records store.RecordStore, subscriptions store.SubscriptionStore, clock store.Clock, currency store.CurrencyProvider, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Engine{
		records:       records,
		subscriptions: subscriptions,
		clock:         clock,
		currency:      currency,
		logger:        log.WithComponent("recurrence"),
	}
}

// Sweep generates all due occurrences across subscriptions. Incomplete
// subscription definitions are skipped, matching how abandoned drafts were
// historically tolerated. Records and cursor updates land atomically: a
// failed commit leaves every cursor where it was.
func (e *Engine) Sweep(ctx context.Context) (*SweepResult, error) {
	subs, err := e.subscriptions.FetchAll(ctx)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "fetch subscriptions", err)
	}

	now := e.clock.Now()
	result := &SweepResult{Subscriptions: len(subs)}

	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			skip := pkgerrors.SubscriptionError(pkgerrors.CodeIncompleteDefinition, sub.ID, err)
			e.logger.WithError(skip).Debug("Skipping incomplete subscription")
			result.Skipped++
			continue
		}

		records, cursor := GenerateDue(sub, now)
		if cursor == nil {
			continue
		}

		for _, record := range records {
			if record.Currency == "" {
				record.Currency = e.currency.DefaultCurrencyCode()
			}
			e.records.Create(record)
		}
		if err := e.subscriptions.SaveCursor(ctx, sub.ID, *cursor); err != nil {
			return nil, pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "save cursor", err)
		}
		result.Generated += len(records)

		e.logger.WithFields(logger.Fields{
			"subscription": sub.Title,
			"generated":    len(records),
			"cursor":       cursor.Format("2006-01-02"),
		}).Info("Generated subscription occurrences")
	}

	if err := e.records.Commit(ctx); err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "commit sweep batch", err)
	}

	return result, nil
}
