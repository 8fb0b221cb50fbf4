package csvio

import (
	"strings"
	"time"

	"inout-engine/internal/models"
	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// timestampLayouts are tried in order when normalizing a raw timestamp
// field. The first is the export format itself, so exported files
// round-trip without loss.
var timestampLayouts = []string{
	timestampLayout,
	time.RFC3339,
	"2006-01-02 15:04:05-0700",
	"2006-01-02",
}

// Normalizer converts raw CSV rows into transaction records, filling
// defaults for absent optional fields.
type Normalizer struct {
	clock    store.Clock
	currency store.CurrencyProvider
	logger   logger.Logger
}

// NewNormalizer creates a normalizer. clock supplies the fallback timestamp
// for unparseable dates; currency supplies the fallback currency code.
func NewNormalizer(clock store.Clock, currency store.CurrencyProvider, log logger.Logger) *Normalizer {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Normalizer{
		clock:    clock,
		currency: currency,
		logger:   log.WithComponent("normalizer"),
	}
}

// NormalizeRow maps one raw row onto a fresh record. row is the 1-based data
// row number, used only for error reporting. Rows with fewer than
// len(Columns) fields are rejected; extra trailing fields are ignored.
func (n *Normalizer) NormalizeRow(row int, fields []string) (*models.TransactionRecord, error) {
	if len(fields) < len(Columns) {
		return nil, pkgerrors.ParseError(
			pkgerrors.CodeMalformedRow, row, "row", strings.Join(fields, ","), nil)
	}

	record := models.NewTransactionRecord()
	record.Title = strings.TrimSpace(fields[0])
	record.Amount = models.ParseAmount(fields[1])
	record.Currency = strings.TrimSpace(fields[2])
	record.Kind = models.NormalizeKind(fields[3])
	record.Category = strings.TrimSpace(fields[4])
	record.Notes = strings.TrimSpace(fields[5])
	record.Timestamp = n.parseTimestamp(row, fields[6])

	if record.Currency == "" {
		record.Currency = n.currency.DefaultCurrencyCode()
	}

	return record, nil
}

// parseTimestamp tries each known layout and falls back to the current time,
// mirroring how incomplete rows were historically absorbed rather than
// refused.
func (n *Normalizer) parseTimestamp(row int, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	now := n.clock.Now()
	if raw != "" {
		n.logger.WithFields(logger.Fields{
			"row":   row,
			"value": raw,
		}).Debug("Unparseable timestamp, using current time")
	}
	return now
}
