// Package recurrence materializes transaction records from subscription
// definitions on a fixed cycle.
package recurrence

import (
	"time"

	"inout-engine/internal/models"
)

// advance moves a cursor forward by one cycle. Month and year steps clamp to
// the last day of a shorter target month (Jan 31 + 1 month = Feb 28), never
// spilling into the following month.
func advance(cursor time.Time, unit models.CycleUnit, count int) time.Time {
	switch unit {
	case models.CycleDay:
		return cursor.AddDate(0, 0, count)
	case models.CycleWeek:
		return cursor.AddDate(0, 0, 7*count)
	case models.CycleMonth:
		return addMonths(cursor, count)
	case models.CycleYear:
		return addMonths(cursor, 12*count)
	default:
		return cursor
	}
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// Normalize via the first of the month, then clamp the day.
	first := time.Date(year, month, 1, hour, minute, sec, t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)

	last := daysIn(target.Year(), target.Month())
	if day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// GenerateDue computes every occurrence of the subscription due at or before
// now, returning the materialized records and the new cursor (the date of
// the last emitted record). Pure: no stores are touched.
//
// The cursor starts one cycle past LastGeneratedDate when set, so repeated
// sweeps never re-emit an occurrence; otherwise it starts at StartDate. An
// EndDate, when present, is a hard ceiling.
func GenerateDue(sub *models.Subscription, now time.Time) ([]*models.TransactionRecord, *time.Time) {
	var cursor time.Time
	if sub.LastGeneratedDate != nil {
		cursor = advance(*sub.LastGeneratedDate, sub.CycleUnit, sub.CycleCount)
	} else {
		cursor = sub.StartDate
	}

	var records []*models.TransactionRecord
	var lastEmitted *time.Time

	for !cursor.After(now) {
		if sub.EndDate != nil && cursor.After(*sub.EndDate) {
			break
		}

		record := models.NewTransactionRecord()
		record.Title = sub.Title
		record.Amount = sub.Amount
		record.Currency = sub.Currency
		record.Kind = sub.Kind.OrDefault()
		record.Category = sub.Category
		record.Notes = sub.Notes
		record.Timestamp = cursor
		records = append(records, record)

		emitted := cursor
		lastEmitted = &emitted
		cursor = advance(cursor, sub.CycleUnit, sub.CycleCount)
	}

	return records, lastEmitted
}
