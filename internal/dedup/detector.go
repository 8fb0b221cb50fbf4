package dedup

import (
	"strings"
	"time"

	"inout-engine/internal/models"
	"inout-engine/pkg/logger"
)

// dayLayout collapses timestamps to calendar days for coarse matching.
const dayLayout = "2006-01-02"

// Detector checks candidate records against a fixed snapshot of existing
// records. The snapshot is taken once at construction, so records accepted
// during a batch do not shadow later rows of the same batch.
type Detector struct {
	criteria Criteria
	existing []*models.TransactionRecord
	logger   logger.Logger
}

// NewDetector builds a detector over a snapshot of persisted records.
func NewDetector(criteria Criteria, existing []*models.TransactionRecord, log logger.Logger) *Detector {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Detector{
		criteria: criteria,
		existing: existing,
		logger:   log.WithComponent("dedup"),
	}
}

// IsDuplicate reports whether the candidate matches any snapshot record on
// at least the criteria threshold of enabled axes. With no axes enabled
// nothing is ever a duplicate.
func (d *Detector) IsDuplicate(candidate *models.TransactionRecord) bool {
	required := d.criteria.RequiredMatches()
	if required == 0 {
		return false
	}
	threshold := d.criteria.threshold()

	for _, existing := range d.existing {
		matches := d.matchCount(candidate, existing)
		if matches >= threshold {
			d.logger.WithFields(logger.Fields{
				"title":       candidate.Title,
				"matched_id":  existing.ID,
				"axis_count":  matches,
				"axis_needed": threshold,
			}).Debug("Duplicate detected")
			return true
		}
	}
	return false
}

// matchCount counts how many enabled axes agree between two records.
func (d *Detector) matchCount(a, b *models.TransactionRecord) int {
	count := 0
	if d.criteria.MatchAmount && amountsMatch(a, b) {
		count++
	}
	if d.criteria.MatchTimestamp && d.timestampsMatch(a, b) {
		count++
	}
	if d.criteria.MatchTitle && titlesMatch(a.Title, b.Title) {
		count++
	}
	if d.criteria.MatchKind && kindsMatch(a.Kind, b.Kind) {
		count++
	}
	if d.criteria.MatchCategory && categoriesMatch(a.Category, b.Category) {
		count++
	}
	if d.criteria.MatchCurrency && a.Currency == b.Currency {
		count++
	}
	return count
}

// amountsMatch treats two absent amounts as equal; absent never matches
// present.
func amountsMatch(a, b *models.TransactionRecord) bool {
	if !a.Amount.Valid || !b.Amount.Valid {
		return !a.Amount.Valid && !b.Amount.Valid
	}
	return a.Amount.Decimal.Equal(b.Amount.Decimal)
}

// kindsMatch compares kinds exactly, coercing only an absent kind to the
// Outcome default. Distinct foreign values stay distinct.
func kindsMatch(a, b models.RecordKind) bool {
	if strings.TrimSpace(string(a)) == "" {
		a = models.KindOutcome
	}
	if strings.TrimSpace(string(b)) == "" {
		b = models.KindOutcome
	}
	return a == b
}

func (d *Detector) timestampsMatch(a, b *models.TransactionRecord) bool {
	if d.criteria.TimeThreshold >= DefaultTimeThreshold {
		// One calendar for both sides: a timestamp's embedded zone must not
		// decide which day it falls on.
		return a.Timestamp.In(time.Local).Format(dayLayout) == b.Timestamp.In(time.Local).Format(dayLayout)
	}
	diff := a.Timestamp.Unix() - b.Timestamp.Unix()
	if diff < 0 {
		diff = -diff
	}
	return diff <= d.criteria.TimeThreshold
}

func titlesMatch(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func categoriesMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
