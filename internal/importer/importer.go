// Package importer orchestrates CSV ingestion: parsing, row normalization,
// category reconciliation, duplicate detection and the final staged commit.
package importer

import (
	"context"

	"inout-engine/internal/csvio"
	"inout-engine/internal/dedup"
	"inout-engine/internal/models"
	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// ImportResult accounts for every data row of an import. Imported + Skipped
// + Duplicates always equals the number of data rows parsed.
type ImportResult struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// Total is the number of data rows the import saw.
func (r *ImportResult) Total() int {
	return r.Imported + r.Skipped + r.Duplicates
}

// Importer wires the ingestion pipeline to a record store and a category
// store.
type Importer struct {
	records    store.RecordStore
	categories store.CategoryStore
	clock      store.Clock
	currency   store.CurrencyProvider
	logger     logger.Logger
}

// NewImporter creates an importer over the given stores.
func NewImporter(records store.RecordStore, categories store.CategoryStore, clock store.Clock, currency store.CurrencyProvider, log logger.Logger) *Importer {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Importer{
		records:    records,
		categories: categories,
		clock:      clock,
		currency:   currency,
		logger:     log.WithComponent("importer"),
	}
}

// ImportCSV ingests CSV text. Malformed rows are counted as skipped, rows
// matching an existing record as duplicates, and the rest are staged and
// committed in one batch. A commit failure discards the whole batch.
func (i *Importer) ImportCSV(ctx context.Context, text string, criteria dedup.Criteria) (*ImportResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	rows := csvio.Parse(text)
	i.logger.WithField("rows", len(rows)).Info("Starting CSV import")

	normalizer := csvio.NewNormalizer(i.clock, i.currency, i.logger)
	result := &ImportResult{}

	var candidates []*models.TransactionRecord
	for idx, fields := range rows {
		record, err := normalizer.NormalizeRow(idx+1, fields)
		if err != nil {
			i.logger.WithError(err).WithField("row", idx+1).Warn("Skipping malformed row")
			result.Skipped++
			continue
		}
		candidates = append(candidates, record)
	}

	i.reconcileCategories(ctx, candidates)

	existing, err := i.records.FetchAll(ctx)
	if err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "fetch records", err)
	}

	detector := dedup.NewDetector(criteria, existing, i.logger)
	for _, record := range candidates {
		if detector.IsDuplicate(record) {
			result.Duplicates++
			continue
		}
		i.records.Create(record)
		result.Imported++
	}

	if err := i.records.Commit(ctx); err != nil {
		return nil, pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "commit import batch", err)
	}

	i.logger.WithFields(logger.Fields{
		"imported":   result.Imported,
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
	}).Info("CSV import complete")

	return result, nil
}

// ExportCSV renders every persisted record in the interchange format.
func (i *Importer) ExportCSV(ctx context.Context) (string, error) {
	records, err := i.records.FetchAll(ctx)
	if err != nil {
		return "", pkgerrors.StoreError(pkgerrors.CodeFetchFailed, "fetch records", err)
	}
	return csvio.Export(records), nil
}

// reconcileCategories creates any category named by the batch that the
// taxonomy does not already hold. Taxonomy failures are logged and absorbed:
// the import itself must not depend on them.
func (i *Importer) reconcileCategories(ctx context.Context, candidates []*models.TransactionRecord) {
	wanted := make(map[models.CategoryKey]bool)
	for _, record := range candidates {
		if record.Category == "" {
			continue
		}
		key := models.NewCategoryKey(record.Category, record.Kind)
		wanted[key] = true
	}
	if len(wanted) == 0 {
		return
	}

	existing, err := i.categories.FetchAll(ctx)
	if err != nil {
		i.logger.WithError(err).Warn("Category fetch failed, skipping reconciliation")
		return
	}
	for _, category := range existing {
		delete(wanted, category.Key())
	}

	for key := range wanted {
		if err := i.categories.Create(ctx, key.Name, key.Kind); err != nil {
			i.logger.WithError(err).WithFields(logger.Fields{
				"category": key.Name,
				"kind":     key.Kind,
			}).Warn("Category creation failed")
			continue
		}
		i.logger.WithFields(logger.Fields{
			"category": key.Name,
			"kind":     key.Kind,
		}).Info("Created category")
	}
}
