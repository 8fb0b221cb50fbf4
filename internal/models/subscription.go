package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "inout-engine/pkg/errors"
)

// CycleUnit is the calendar unit a subscription renews in.
type CycleUnit string

const (
	CycleDay   CycleUnit = "Day"
	CycleWeek  CycleUnit = "Week"
	CycleMonth CycleUnit = "Month"
	CycleYear  CycleUnit = "Year"
)

// String returns the string representation of CycleUnit.
func (u CycleUnit) String() string {
	return string(u)
}

// IsValid checks if the cycle unit is one of the known values.
func (u CycleUnit) IsValid() bool {
	switch u {
	case CycleDay, CycleWeek, CycleMonth, CycleYear:
		return true
	}
	return false
}

// ParseCycleUnit parses a cycle unit from a raw string, case-insensitively.
func ParseCycleUnit(raw string) (CycleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "day", "days":
		return CycleDay, nil
	case "week", "weeks":
		return CycleWeek, nil
	case "month", "months":
		return CycleMonth, nil
	case "year", "years":
		return CycleYear, nil
	default:
		return "", fmt.Errorf("invalid cycle unit '%s': must be Day, Week, Month or Year", raw)
	}
}

// Subscription is a recurring-charge template. Each due cycle materializes
// one TransactionRecord carrying the template fields verbatim.
//
// LastGeneratedDate is the generation cursor. It is owned exclusively by the
// recurrence engine, advances monotonically, and, once set, is always an
// occurrence date reachable from StartDate by whole cycles.
type Subscription struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Amount            decimal.NullDecimal `json:"amount"`
	Currency          string              `json:"currency,omitempty"`
	Category          string              `json:"category"`
	Notes             string              `json:"notes,omitempty"`
	Kind              RecordKind          `json:"kind"`
	StartDate         time.Time           `json:"start_date"`
	CycleUnit         CycleUnit           `json:"cycle_unit"`
	CycleCount        int                 `json:"cycle_count"`
	EndDate           *time.Time          `json:"end_date,omitempty"`
	LastGeneratedDate *time.Time          `json:"last_generated_date,omitempty"`
}

// Validate reports whether the subscription carries everything generation
// needs. An invalid subscription is skipped during a sweep, not an error for
// the sweep as a whole. A foreign Kind is not an error: generation coerces
// it through OrDefault.
func (s *Subscription) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return pkgerrors.ValidationError(pkgerrors.CodeMissingField, "title", nil, nil)
	}
	if !s.Amount.Valid {
		return pkgerrors.ValidationError(pkgerrors.CodeMissingField, "amount", nil, nil)
	}
	if strings.TrimSpace(s.Category) == "" {
		return pkgerrors.ValidationError(pkgerrors.CodeMissingField, "category", nil, nil)
	}
	if s.StartDate.IsZero() {
		return pkgerrors.ValidationError(pkgerrors.CodeInvalidDate, "start_date", s.StartDate, nil)
	}
	if !s.CycleUnit.IsValid() || s.CycleCount <= 0 {
		return pkgerrors.SubscriptionError(pkgerrors.CodeInvalidCycle, s.ID, nil).
			WithContext("cycle_unit", string(s.CycleUnit)).
			WithContext("cycle_count", s.CycleCount)
	}
	return nil
}

// String returns a compact representation for logging.
func (s *Subscription) String() string {
	return fmt.Sprintf("Subscription{ID: %s, Title: %q, Every: %d %s, Start: %s}",
		s.ID, s.Title, s.CycleCount, s.CycleUnit, s.StartDate.Format("2006-01-02"))
}
