// Package models defines the core entities of the tracker: transaction
// records, the category taxonomy, and recurring-charge subscriptions.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordKind classifies a transaction as money coming in or going out.
//
// Imported data may carry foreign values; those are preserved as-is on the
// record and coerced to KindOutcome only where strict enum semantics are
// required (see OrDefault).
type RecordKind string

const (
	// KindIncome represents money received.
	KindIncome RecordKind = "Income"
	// KindOutcome represents money spent.
	KindOutcome RecordKind = "Outcome"
)

// String returns the string representation of RecordKind.
func (k RecordKind) String() string {
	return string(k)
}

// IsValid checks if the kind is one of the two known values.
func (k RecordKind) IsValid() bool {
	return k == KindIncome || k == KindOutcome
}

// OrDefault coerces a foreign kind value to KindOutcome. Callers that need a
// strict enum (category resolution, subscription generation) go through this.
func (k RecordKind) OrDefault() RecordKind {
	if k.IsValid() {
		return k
	}
	return KindOutcome
}

// NormalizeKind maps a raw type field to a RecordKind. The match is
// case-insensitive on the prefix: "in*" is Income, "out*" is Outcome. An
// empty value defaults to Outcome; anything else passes through unchanged so
// callers can decide how to treat foreign values.
func NormalizeKind(raw string) RecordKind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return KindOutcome
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "in") {
		return KindIncome
	}
	if strings.HasPrefix(lower, "out") {
		return KindOutcome
	}

	return RecordKind(trimmed)
}

// TransactionRecord is a single financial event.
//
// Optional string fields use the empty string for "absent". The amount is a
// NullDecimal so an unparseable or missing amount degrades to absent rather
// than to a sentinel value.
type TransactionRecord struct {
	ID        string              `json:"id"`
	Title     string              `json:"title,omitempty"`
	Amount    decimal.NullDecimal `json:"amount,omitempty"`
	Currency  string              `json:"currency"`
	Kind      RecordKind          `json:"kind"`
	Category  string              `json:"category,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewTransactionRecord creates a record with a fresh identity.
func NewTransactionRecord() *TransactionRecord {
	return &TransactionRecord{ID: uuid.NewString()}
}

// HasAmount reports whether the record carries an amount.
func (r *TransactionRecord) HasAmount() bool {
	return r.Amount.Valid
}

// String returns a compact representation for logging.
func (r *TransactionRecord) String() string {
	amount := "<none>"
	if r.Amount.Valid {
		amount = r.Amount.Decimal.String()
	}
	return fmt.Sprintf("TransactionRecord{ID: %s, Title: %q, Amount: %s %s, Kind: %s, Time: %s}",
		r.ID, r.Title, amount, r.Currency, r.Kind, r.Timestamp.Format(time.RFC3339))
}

// ParseAmount parses a raw amount field into an optional decimal. Empty or
// unparseable input yields an absent amount, never an error: a bad amount
// degrades the field, not the row.
func ParseAmount(raw string) decimal.NullDecimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Category is a taxonomy entry. Two categories with the same name but
// different kinds are distinct entities.
type Category struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind RecordKind `json:"kind"`
}

// NewCategory creates a category with a fresh identity.
func NewCategory(name string, kind RecordKind) *Category {
	return &Category{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
	}
}

// CategoryKey is the identity of a category: the (name, kind) pair.
type CategoryKey struct {
	Name string
	Kind RecordKind
}

// Key returns the category's identity.
func (c *Category) Key() CategoryKey {
	return NewCategoryKey(c.Name, c.Kind)
}

// NewCategoryKey builds a comparable taxonomy key. The name is trimmed and
// the kind coerced to a strict enum value so lookups are stable regardless of
// how the source data spelled them.
func NewCategoryKey(name string, kind RecordKind) CategoryKey {
	return CategoryKey{
		Name: strings.TrimSpace(name),
		Kind: kind.OrDefault(),
	}
}

// Validate performs basic validation on the Category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("invalid category kind: %s", c.Kind)
	}
	return nil
}
