package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fintel/internal/model"
	"fintel/internal/repository"
)

// CompliancePostgres stores one compliance result per invoice. Scalar
// columns carry the scores for aggregation; the full payload lives in a
// JSONB column so the history endpoint can return it verbatim.
type CompliancePostgres struct {
	db *sql.DB
}

// NewCompliancePostgres creates a new CompliancePostgres repository.
func NewCompliancePostgres(db *sql.DB) *CompliancePostgres {
	return &CompliancePostgres{db: db}
}

var _ repository.ComplianceRepository = (*CompliancePostgres)(nil)

// Upsert inserts or overwrites the result for an invoice.
func (r *CompliancePostgres) Upsert(ctx context.Context, invoiceID string, res *model.ComplianceResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal compliance payload: %w", err)
	}

	const q = `
		INSERT INTO compliance_results (invoice_id, score, status, risk_score, risk_level,
			checks_passed, checks_total, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (invoice_id) DO UPDATE SET
			score         = EXCLUDED.score,
			status        = EXCLUDED.status,
			risk_score    = EXCLUDED.risk_score,
			risk_level    = EXCLUDED.risk_level,
			checks_passed = EXCLUDED.checks_passed,
			checks_total  = EXCLUDED.checks_total,
			payload       = EXCLUDED.payload,
			updated_at    = now()
	`
	_, err = r.db.ExecContext(ctx, q,
		invoiceID,
		res.ComplianceScore,
		res.ComplianceStatus,
		res.RiskScore,
		res.RiskLevel,
		res.ChecksPassedCount,
		res.TotalChecksCount,
		payload,
	)
	return err
}

// AverageScore returns the mean compliance score across all results, or 0
// when none exist.
func (r *CompliancePostgres) AverageScore(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(score), 0) FROM compliance_results`,
	).Scan(&avg)
	return avg, err
}
