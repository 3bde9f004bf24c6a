package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS invoices (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  invoice_number TEXT        NOT NULL,
  vendor_name    TEXT        NOT NULL DEFAULT '',
  gst_numbers    JSONB       NOT NULL DEFAULT '[]',
  invoice_date   TIMESTAMPTZ,
  total_amount   NUMERIC(14,2) NOT NULL DEFAULT 0,
  gst_rate       NUMERIC(5,2)  NOT NULL DEFAULT 0,
  hsn_number     TEXT        NOT NULL DEFAULT '',
  hsn_sac_codes  JSONB       NOT NULL DEFAULT '[]',
  line_items     JSONB       NOT NULL DEFAULT '[]',
  ocr_confidence NUMERIC(5,2) NOT NULL DEFAULT 0,
  fingerprint    TEXT        NOT NULL,
  upload_date    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_invoices_fingerprint",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_fingerprint ON invoices (fingerprint);`,
	},
	{
		Name: "create_index_invoices_upload_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_upload_date ON invoices (upload_date);`,
	},
	{
		Name: "create_table_compliance_results",
		SQL: `CREATE TABLE IF NOT EXISTS compliance_results (
  invoice_id     UUID        PRIMARY KEY REFERENCES invoices (id) ON DELETE CASCADE,
  score          NUMERIC(5,1) NOT NULL,
  status         TEXT        NOT NULL,
  risk_score     NUMERIC(5,1) NOT NULL,
  risk_level     TEXT        NOT NULL,
  checks_passed  INT         NOT NULL,
  checks_total   INT         NOT NULL,
  payload        JSONB       NOT NULL,
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_anomalies",
		SQL: `CREATE TABLE IF NOT EXISTS anomalies (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  invoice_id     UUID        NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
  invoice_number TEXT        NOT NULL,
  vendor_name    TEXT        NOT NULL DEFAULT '',
  anomaly_type   TEXT        NOT NULL,
  severity       TEXT        NOT NULL,
  description    TEXT        NOT NULL DEFAULT '',
  detected_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  status         TEXT        NOT NULL DEFAULT 'OPEN'
);`,
	},
	{
		Name: "create_index_anomalies_invoice_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_anomalies_invoice_id ON anomalies (invoice_id);`,
	},
	{
		Name: "create_index_anomalies_detected_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_anomalies_detected_at ON anomalies (detected_at);`,
	},
	{
		Name: "create_table_vendor_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS vendor_profiles (
  gst_number         TEXT        PRIMARY KEY,
  vendor_name        TEXT        NOT NULL DEFAULT '',
  total_invoices     INT         NOT NULL DEFAULT 0,
  total_amount       NUMERIC(16,2) NOT NULL DEFAULT 0,
  first_invoice_date TIMESTAMPTZ,
  last_invoice_date  TIMESTAMPTZ
);`,
	},
}

// EnsureMigrated checks for the invoices sentinel table and applies the
// schema when it is missing. Steps are individually idempotent so a
// partially applied run can simply be re-run.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.invoices') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info().Str("event", "db_migration_skip").Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Msg("applying schema")
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Err(err).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info().Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema applied")
	return nil
}
