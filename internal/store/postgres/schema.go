package postgres

import (
	"context"

	"inout-engine/internal/models"
	pkgerrors "inout-engine/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL DEFAULT '',
	amount    NUMERIC,
	currency  TEXT NOT NULL DEFAULT '',
	kind      TEXT NOT NULL DEFAULT 'Outcome',
	category  TEXT NOT NULL DEFAULT '',
	notes     TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	UNIQUE (name, kind)
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id                  TEXT PRIMARY KEY,
	title               TEXT NOT NULL DEFAULT '',
	amount              NUMERIC,
	currency            TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL DEFAULT '',
	notes               TEXT NOT NULL DEFAULT '',
	kind                TEXT NOT NULL DEFAULT 'Outcome',
	start_date          TIMESTAMPTZ NOT NULL,
	cycle_unit          TEXT NOT NULL,
	cycle_count         INTEGER NOT NULL DEFAULT 1,
	end_date            TIMESTAMPTZ,
	last_generated_date TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_records_timestamp ON records (timestamp);
`

// seedCategories is the starter taxonomy installed on a fresh database.
var seedCategories = []struct {
	name string
	kind models.RecordKind
}{
	{"Salary", models.KindIncome},
	{"Investments", models.KindIncome},
	{"Groceries", models.KindOutcome},
	{"Transport", models.KindOutcome},
	{"Entertainment", models.KindOutcome},
	{"Bills", models.KindOutcome},
}

// InitSchema creates the tables and installs the seed categories. Safe to
// run repeatedly.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return pkgerrors.StoreError(pkgerrors.CodeCommitFailed, "create schema", err)
	}

	categories := s.Categories()
	for _, seed := range seedCategories {
		if err := categories.Create(ctx, seed.name, seed.kind); err != nil {
			return err
		}
	}

	s.logger.WithField("seed_categories", len(seedCategories)).Info("Schema initialized")
	return nil
}
