// Package dedup decides whether an incoming transaction record duplicates
// one already persisted, using a configurable set of matching axes.
package dedup

import (
	pkgerrors "inout-engine/pkg/errors"
)

// DefaultTimeThreshold is one day in seconds. At or above this threshold the
// timestamp axis compares calendar days instead of raw instants.
const DefaultTimeThreshold int64 = 86400

// Criteria selects which record axes participate in duplicate matching and
// how close two timestamps must be to count as matching.
type Criteria struct {
	MatchAmount    bool
	MatchTimestamp bool
	MatchTitle     bool
	MatchKind      bool
	MatchCategory  bool
	MatchCurrency  bool

	// TimeThreshold is the maximum timestamp distance in seconds for the
	// timestamp axis. Values >= 86400 switch to same-calendar-day matching.
	TimeThreshold int64
}

// DefaultCriteria matches on amount, timestamp and kind with day
// granularity.
func DefaultCriteria() Criteria {
	return Criteria{
		MatchAmount:    true,
		MatchTimestamp: true,
		MatchKind:      true,
		TimeThreshold:  DefaultTimeThreshold,
	}
}

// RequiredMatches counts the enabled axes.
func (c Criteria) RequiredMatches() int {
	required := 0
	for _, enabled := range []bool{
		c.MatchAmount, c.MatchTimestamp, c.MatchTitle,
		c.MatchKind, c.MatchCategory, c.MatchCurrency,
	} {
		if enabled {
			required++
		}
	}
	return required
}

// threshold is the number of axis matches needed to flag a duplicate: two,
// or fewer when fewer axes are enabled.
func (c Criteria) threshold() int {
	required := c.RequiredMatches()
	if required < 2 {
		return required
	}
	return 2
}

// Validate rejects a negative time threshold on an enabled timestamp axis.
func (c Criteria) Validate() error {
	if c.MatchTimestamp && c.TimeThreshold < 0 {
		return pkgerrors.ValidationError(
			pkgerrors.CodeInvalidCriteria, "time_threshold", c.TimeThreshold, nil)
	}
	return nil
}
