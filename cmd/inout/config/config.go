// Package config turns CLI and environment settings into wired engine
// collaborators.
package config

import (
	"context"

	"github.com/spf13/viper"

	"inout-engine/internal/dedup"
	"inout-engine/internal/store"
	"inout-engine/internal/store/postgres"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// BuildCriteria assembles duplicate-matching criteria from viper-bound
// flags.
func BuildCriteria() (dedup.Criteria, error) {
	criteria := dedup.Criteria{
		MatchAmount:    viper.GetBool("match-amount"),
		MatchTimestamp: viper.GetBool("match-date"),
		MatchTitle:     viper.GetBool("match-title"),
		MatchKind:      viper.GetBool("match-kind"),
		MatchCategory:  viper.GetBool("match-category"),
		MatchCurrency:  viper.GetBool("match-currency"),
		TimeThreshold:  viper.GetInt64("time-threshold"),
	}
	if err := criteria.Validate(); err != nil {
		return dedup.Criteria{}, err
	}
	return criteria, nil
}

// OpenStore connects to the configured PostgreSQL database.
func OpenStore(ctx context.Context, log logger.Logger) (*postgres.Store, error) {
	databaseURL := viper.GetString("database-url")
	if databaseURL == "" {
		err := pkgerrors.StoreError(pkgerrors.CodeConnection, "resolve database", nil)
		err.Message = "no database configured"
		return nil, err.WithSuggestion("set INOUT_DATABASE_URL or pass --database-url")
	}
	return postgres.Connect(ctx, databaseURL, log)
}

// Currency returns the configured fallback currency provider.
func Currency() store.CurrencyProvider {
	return store.StaticCurrency(viper.GetString("currency"))
}
