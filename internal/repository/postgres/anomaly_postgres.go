package postgres

import (
	"context"
	"database/sql"
	"time"

	"fintel/internal/model"
	"fintel/internal/repository"
)

// AnomalyPostgres is a PostgreSQL implementation of
// repository.AnomalyRepository.
type AnomalyPostgres struct {
	db *sql.DB
}

// NewAnomalyPostgres creates a new AnomalyPostgres repository.
func NewAnomalyPostgres(db *sql.DB) *AnomalyPostgres {
	return &AnomalyPostgres{db: db}
}

var _ repository.AnomalyRepository = (*AnomalyPostgres)(nil)

// ReplaceForInvoice deletes the invoice's prior anomalies and inserts the
// new set inside one transaction, so re-validation never appends
// duplicates next to stale records.
func (r *AnomalyPostgres) ReplaceForInvoice(ctx context.Context, invoiceID string, anomalies []model.Anomaly) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM anomalies WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}

	const q = `
		INSERT INTO anomalies (invoice_id, invoice_number, vendor_name, anomaly_type,
			severity, description, detected_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, a := range anomalies {
		if _, err := tx.ExecContext(ctx, q,
			invoiceID,
			a.InvoiceNumber,
			a.VendorName,
			a.AnomalyType,
			a.Severity,
			a.Description,
			a.DetectedAt,
			a.Status,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns anomalies, newest first, bounded by the query.
func (r *AnomalyPostgres) List(ctx context.Context, hq repository.HistoryQuery) ([]model.Anomaly, error) {
	limit := hq.Limit
	if limit <= 0 {
		limit = 200
	}
	since := hq.Since
	if since.IsZero() {
		since = time.Unix(0, 0).UTC()
	}

	const q = `
		SELECT id, invoice_id, invoice_number, vendor_name, anomaly_type,
			severity, description, detected_at, status
		FROM anomalies
		WHERE detected_at >= $1
		ORDER BY detected_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anomalies := make([]model.Anomaly, 0)
	for rows.Next() {
		var a model.Anomaly
		if err := rows.Scan(
			&a.ID, &a.InvoiceID, &a.InvoiceNumber, &a.VendorName, &a.AnomalyType,
			&a.Severity, &a.Description, &a.DetectedAt, &a.Status,
		); err != nil {
			return nil, err
		}
		anomalies = append(anomalies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return anomalies, nil
}

// Count returns the total number of anomaly records.
func (r *AnomalyPostgres) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anomalies`).Scan(&count)
	return count, err
}
