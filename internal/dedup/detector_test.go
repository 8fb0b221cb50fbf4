package dedup

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inout-engine/internal/models"
)

func buildRecord(title, amount string, kind models.RecordKind, ts time.Time) *models.TransactionRecord {
	record := models.NewTransactionRecord()
	record.Title = title
	record.Amount = models.ParseAmount(amount)
	record.Currency = "USD"
	record.Kind = kind
	record.Timestamp = ts
	return record
}

var aug14 = time.Date(2025, 8, 14, 9, 0, 0, 0, time.UTC)

func TestDefaultCriteria(t *testing.T) {
	criteria := DefaultCriteria()
	if got := criteria.RequiredMatches(); got != 3 {
		t.Errorf("default enabled axes = %d, want 3", got)
	}
	if criteria.TimeThreshold != 86400 {
		t.Errorf("default threshold = %d, want 86400", criteria.TimeThreshold)
	}
	if err := criteria.Validate(); err != nil {
		t.Errorf("default criteria should validate: %v", err)
	}
}

func TestCriteriaValidateRejectsNegativeThreshold(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.TimeThreshold = -1
	if err := criteria.Validate(); err == nil {
		t.Error("expected negative threshold to be rejected")
	}
}

func TestIsDuplicateDefaultCriteria(t *testing.T) {
	existing := []*models.TransactionRecord{
		buildRecord("Groceries", "50", models.KindOutcome, aug14),
	}
	detector := NewDetector(DefaultCriteria(), existing, nil)

	tests := []struct {
		name      string
		candidate *models.TransactionRecord
		want      bool
	}{
		{
			// All three axes agree.
			"full match",
			buildRecord("Anything", "50", models.KindOutcome, aug14.Add(2*time.Hour)),
			true,
		},
		{
			// Amount differs but date and kind still agree: 2 of 3.
			"two of three axes",
			buildRecord("Anything", "51", models.KindOutcome, aug14),
			true,
		},
		{
			// Only kind agrees: 1 of 3.
			"one of three axes",
			buildRecord("Anything", "51", models.KindOutcome, aug14.AddDate(0, 0, 5)),
			false,
		},
		{
			"different day same amount and kind",
			buildRecord("Anything", "50", models.KindOutcome, aug14.AddDate(0, 0, 1)),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.IsDuplicate(tt.candidate); got != tt.want {
				t.Errorf("IsDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDuplicateSingleAxis(t *testing.T) {
	criteria := Criteria{MatchTitle: true}
	existing := []*models.TransactionRecord{
		buildRecord("Netflix", "15", models.KindOutcome, aug14),
	}
	detector := NewDetector(criteria, existing, nil)

	if !detector.IsDuplicate(buildRecord("NETFLIX", "99", models.KindIncome, aug14.AddDate(1, 0, 0))) {
		t.Error("single enabled axis should flag on that axis alone")
	}
	if detector.IsDuplicate(buildRecord("Spotify", "15", models.KindOutcome, aug14)) {
		t.Error("different title must not match on title-only criteria")
	}
}

func TestIsDuplicateNoAxes(t *testing.T) {
	detector := NewDetector(Criteria{}, []*models.TransactionRecord{
		buildRecord("Groceries", "50", models.KindOutcome, aug14),
	}, nil)

	if detector.IsDuplicate(buildRecord("Groceries", "50", models.KindOutcome, aug14)) {
		t.Error("with no axes enabled nothing is a duplicate")
	}
}

func TestAmountAxisAbsentValues(t *testing.T) {
	criteria := Criteria{MatchAmount: true}
	noAmount := buildRecord("A", "", models.KindOutcome, aug14)
	withAmount := buildRecord("B", "10", models.KindOutcome, aug14)

	detector := NewDetector(criteria, []*models.TransactionRecord{noAmount}, nil)
	if !detector.IsDuplicate(buildRecord("C", "", models.KindOutcome, aug14)) {
		t.Error("two absent amounts should match")
	}
	if detector.IsDuplicate(withAmount) {
		t.Error("absent amount must never match a present one")
	}
}

func TestTimestampAxisFineThreshold(t *testing.T) {
	criteria := Criteria{MatchTimestamp: true, TimeThreshold: 3600}
	existing := []*models.TransactionRecord{
		buildRecord("A", "10", models.KindOutcome, aug14),
	}
	detector := NewDetector(criteria, existing, nil)

	if !detector.IsDuplicate(buildRecord("B", "0", models.KindIncome, aug14.Add(59*time.Minute))) {
		t.Error("59 minutes apart should match a 3600s threshold")
	}
	if detector.IsDuplicate(buildRecord("B", "0", models.KindIncome, aug14.Add(2*time.Hour))) {
		t.Error("2 hours apart should not match a 3600s threshold")
	}
}

func TestTimestampAxisDayGranularity(t *testing.T) {
	criteria := Criteria{MatchTimestamp: true, TimeThreshold: DefaultTimeThreshold}
	lateNight := time.Date(2025, 8, 14, 23, 50, 0, 0, time.UTC)
	existing := []*models.TransactionRecord{
		buildRecord("A", "10", models.KindOutcome, lateNight),
	}
	detector := NewDetector(criteria, existing, nil)

	// Same calendar day, nearly 24h apart.
	if !detector.IsDuplicate(buildRecord("B", "0", models.KindIncome, time.Date(2025, 8, 14, 0, 5, 0, 0, time.UTC))) {
		t.Error("same calendar day should match at day granularity")
	}
	// 15 minutes apart but across midnight.
	if detector.IsDuplicate(buildRecord("B", "0", models.KindIncome, time.Date(2025, 8, 15, 0, 5, 0, 0, time.UTC))) {
		t.Error("different calendar days should not match at day granularity")
	}
}

func TestTimestampAxisMixedZonesSameInstant(t *testing.T) {
	criteria := Criteria{MatchTimestamp: true, TimeThreshold: DefaultTimeThreshold}

	est := time.FixedZone("EST", -5*3600)
	existing := buildRecord("A", "10", models.KindOutcome, time.Date(2025, 8, 14, 22, 0, 0, 0, est))
	candidate := buildRecord("B", "0", models.KindIncome, time.Date(2025, 8, 15, 3, 0, 0, 0, time.UTC))
	if !existing.Timestamp.Equal(candidate.Timestamp) {
		t.Fatal("fixture sanity check failed: not the same instant")
	}

	detector := NewDetector(criteria, []*models.TransactionRecord{existing}, nil)
	if !detector.IsDuplicate(candidate) {
		t.Error("the same instant must land on the same calendar day regardless of its serialized zone")
	}
}

func TestKindAxisForeignValues(t *testing.T) {
	criteria := Criteria{MatchKind: true}

	transfer := buildRecord("A", "10", models.RecordKind("Transfer"), aug14)
	detector := NewDetector(criteria, []*models.TransactionRecord{transfer}, nil)

	if detector.IsDuplicate(buildRecord("B", "0", models.RecordKind("Voucher"), aug14)) {
		t.Error("distinct foreign kinds must not count as a match")
	}
	if !detector.IsDuplicate(buildRecord("B", "0", models.RecordKind("Transfer"), aug14)) {
		t.Error("identical foreign kinds should match")
	}
	if detector.IsDuplicate(buildRecord("B", "0", models.KindOutcome, aug14)) {
		t.Error("a foreign kind must not match the Outcome default")
	}

	detector = NewDetector(criteria, []*models.TransactionRecord{
		buildRecord("A", "10", "", aug14),
	}, nil)
	if !detector.IsDuplicate(buildRecord("B", "0", models.KindOutcome, aug14)) {
		t.Error("an absent kind coerces to Outcome and should match it")
	}
}

func TestDecimalAmountComparison(t *testing.T) {
	criteria := Criteria{MatchAmount: true}
	existing := []*models.TransactionRecord{
		buildRecord("A", "12.50", models.KindOutcome, aug14),
	}
	detector := NewDetector(criteria, existing, nil)

	candidate := buildRecord("B", "12.5000", models.KindOutcome, aug14)
	if !candidate.Amount.Decimal.Equal(decimal.RequireFromString("12.5")) {
		t.Fatal("fixture sanity check failed")
	}
	if !detector.IsDuplicate(candidate) {
		t.Error("12.50 and 12.5000 should compare equal")
	}
}
