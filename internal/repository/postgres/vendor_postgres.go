package postgres

import (
	"context"
	"database/sql"

	"fintel/internal/model"
	"fintel/internal/repository"
)

// VendorPostgres is a PostgreSQL implementation of
// repository.VendorRepository. The rollup arithmetic happens in SQL so
// concurrent validations fold in correctly without read-modify-write races.
type VendorPostgres struct {
	db *sql.DB
}

// NewVendorPostgres creates a new VendorPostgres repository.
func NewVendorPostgres(db *sql.DB) *VendorPostgres {
	return &VendorPostgres{db: db}
}

var _ repository.VendorRepository = (*VendorPostgres)(nil)

// RecordInvoice upserts one invoice into the vendor rollup. LEAST/GREATEST
// extend the date bounds in either direction; an invoice dated before the
// recorded first sighting moves the lower bound backward.
func (r *VendorPostgres) RecordInvoice(ctx context.Context, p *model.VendorProfile) error {
	const q = `
		INSERT INTO vendor_profiles (gst_number, vendor_name, total_invoices, total_amount,
			first_invoice_date, last_invoice_date)
		VALUES ($1, $2, 1, $3, $4, $4)
		ON CONFLICT (gst_number) DO UPDATE SET
			vendor_name        = EXCLUDED.vendor_name,
			total_invoices     = vendor_profiles.total_invoices + 1,
			total_amount       = vendor_profiles.total_amount + EXCLUDED.total_amount,
			first_invoice_date = LEAST(vendor_profiles.first_invoice_date, EXCLUDED.first_invoice_date),
			last_invoice_date  = GREATEST(vendor_profiles.last_invoice_date, EXCLUDED.last_invoice_date)
	`
	_, err := r.db.ExecContext(ctx, q,
		p.GSTNumber,
		p.VendorName,
		p.TotalAmount,
		p.LastInvoiceDate,
	)
	return err
}

// List returns all vendor profiles ordered by invoice volume.
func (r *VendorPostgres) List(ctx context.Context) ([]model.VendorProfile, error) {
	const q = `
		SELECT gst_number, vendor_name, total_invoices, total_amount,
			first_invoice_date, last_invoice_date
		FROM vendor_profiles
		ORDER BY total_invoices DESC, vendor_name ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]model.VendorProfile, 0)
	for rows.Next() {
		var (
			v           model.VendorProfile
			first, last sql.NullTime
		)
		if err := rows.Scan(
			&v.GSTNumber, &v.VendorName, &v.TotalInvoices, &v.TotalAmount, &first, &last,
		); err != nil {
			return nil, err
		}
		if first.Valid {
			v.FirstInvoiceDate = first.Time
		}
		if last.Valid {
			v.LastInvoiceDate = last.Time
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vendors, nil
}
