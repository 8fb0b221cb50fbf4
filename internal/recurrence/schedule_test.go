package recurrence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inout-engine/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildMonthlySubscription() *models.Subscription {
	return &models.Subscription{
		ID:         "sub-1",
		Title:      "Streaming",
		Amount:     decimal.NewNullDecimal(decimal.NewFromFloat(9.99)),
		Currency:   "USD",
		Category:   "Entertainment",
		Kind:       models.KindOutcome,
		StartDate:  date(2025, 1, 1),
		CycleUnit:  models.CycleMonth,
		CycleCount: 1,
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name   string
		cursor time.Time
		unit   models.CycleUnit
		count  int
		want   time.Time
	}{
		{"single day", date(2025, 1, 1), models.CycleDay, 1, date(2025, 1, 2)},
		{"ten days", date(2025, 1, 25), models.CycleDay, 10, date(2025, 2, 4)},
		{"two weeks", date(2025, 1, 1), models.CycleWeek, 2, date(2025, 1, 15)},
		{"one month", date(2025, 1, 15), models.CycleMonth, 1, date(2025, 2, 15)},
		{"month clamps to shorter month", date(2025, 1, 31), models.CycleMonth, 1, date(2025, 2, 28)},
		{"month clamp in leap year", date(2024, 1, 31), models.CycleMonth, 1, date(2024, 2, 29)},
		{"month end of march", date(2025, 3, 31), models.CycleMonth, 1, date(2025, 4, 30)},
		{"year", date(2025, 6, 15), models.CycleYear, 1, date(2026, 6, 15)},
		{"year clamps leap day", date(2024, 2, 29), models.CycleYear, 1, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advance(tt.cursor, tt.unit, tt.count)
			if !got.Equal(tt.want) {
				t.Errorf("advance(%v, %s, %d) = %v, want %v",
					tt.cursor, tt.unit, tt.count, got, tt.want)
			}
		})
	}
}

func TestGenerateDueFromStart(t *testing.T) {
	sub := buildMonthlySubscription()
	now := date(2025, 4, 15)

	records, cursor := GenerateDue(sub, now)
	if len(records) != 4 {
		t.Fatalf("generated %d records, want 4 (Jan-Apr)", len(records))
	}
	for i, want := range []time.Time{date(2025, 1, 1), date(2025, 2, 1), date(2025, 3, 1), date(2025, 4, 1)} {
		if !records[i].Timestamp.Equal(want) {
			t.Errorf("record %d timestamp = %v, want %v", i, records[i].Timestamp, want)
		}
	}
	if cursor == nil || !cursor.Equal(date(2025, 4, 1)) {
		t.Errorf("cursor = %v, want 2025-04-01", cursor)
	}

	first := records[0]
	if first.Title != "Streaming" || first.Category != "Entertainment" || first.Kind != models.KindOutcome {
		t.Errorf("record does not carry subscription fields: %+v", first)
	}
	if !first.Amount.Valid || !first.Amount.Decimal.Equal(decimal.NewFromFloat(9.99)) {
		t.Errorf("record amount = %v", first.Amount)
	}
	if records[0].ID == records[1].ID {
		t.Error("generated records must have distinct IDs")
	}
}

func TestGenerateDueResumesAfterCursor(t *testing.T) {
	sub := buildMonthlySubscription()
	last := date(2025, 4, 1)
	sub.LastGeneratedDate = &last

	records, cursor := GenerateDue(sub, date(2025, 4, 15))
	if len(records) != 0 {
		t.Fatalf("nothing is due yet, generated %d records", len(records))
	}
	if cursor != nil {
		t.Errorf("idle sweep must not move the cursor, got %v", cursor)
	}

	records, cursor = GenerateDue(sub, date(2025, 6, 3))
	if len(records) != 2 {
		t.Fatalf("generated %d records, want 2 (May, Jun)", len(records))
	}
	if !records[0].Timestamp.Equal(date(2025, 5, 1)) {
		t.Errorf("first resumed record = %v, want 2025-05-01", records[0].Timestamp)
	}
	if cursor == nil || !cursor.Equal(date(2025, 6, 1)) {
		t.Errorf("cursor = %v, want 2025-06-01", cursor)
	}
}

func TestGenerateDueRespectsEndDate(t *testing.T) {
	sub := buildMonthlySubscription()
	end := date(2025, 3, 15)
	sub.EndDate = &end

	records, cursor := GenerateDue(sub, date(2025, 12, 31))
	if len(records) != 3 {
		t.Fatalf("generated %d records, want 3 (Jan-Mar)", len(records))
	}
	if cursor == nil || !cursor.Equal(date(2025, 3, 1)) {
		t.Errorf("cursor = %v, want 2025-03-01", cursor)
	}
}

func TestGenerateDueBeforeStart(t *testing.T) {
	sub := buildMonthlySubscription()
	records, cursor := GenerateDue(sub, date(2024, 12, 31))
	if len(records) != 0 || cursor != nil {
		t.Errorf("nothing should be due before the start date, got %d records", len(records))
	}
}

func TestGenerateDueMonthEndDrift(t *testing.T) {
	sub := buildMonthlySubscription()
	sub.StartDate = date(2025, 1, 31)

	records, _ := GenerateDue(sub, date(2025, 4, 30))
	want := []time.Time{date(2025, 1, 31), date(2025, 2, 28), date(2025, 3, 28), date(2025, 4, 28)}
	if len(records) != len(want) {
		t.Fatalf("generated %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if !records[i].Timestamp.Equal(want[i]) {
			t.Errorf("occurrence %d = %v, want %v", i, records[i].Timestamp, want[i])
		}
	}
}

func TestGenerateDueBiweekly(t *testing.T) {
	sub := buildMonthlySubscription()
	sub.CycleUnit = models.CycleWeek
	sub.CycleCount = 2

	records, cursor := GenerateDue(sub, date(2025, 2, 1))
	want := []time.Time{date(2025, 1, 1), date(2025, 1, 15), date(2025, 1, 29)}
	if len(records) != len(want) {
		t.Fatalf("generated %d records, want %d", len(records), len(want))
	}
	if cursor == nil || !cursor.Equal(date(2025, 1, 29)) {
		t.Errorf("cursor = %v, want 2025-01-29", cursor)
	}
}
