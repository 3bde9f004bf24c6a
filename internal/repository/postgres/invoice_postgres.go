package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fintel/internal/model"
	"fintel/internal/repository"
)

// InvoicePostgres is a PostgreSQL implementation of
// repository.InvoiceRepository. List-shaped fields (identifiers, codes,
// line items) are stored as JSONB columns.
type InvoicePostgres struct {
	db *sql.DB
}

// NewInvoicePostgres creates a new InvoicePostgres repository.
func NewInvoicePostgres(db *sql.DB) *InvoicePostgres {
	return &InvoicePostgres{db: db}
}

var _ repository.InvoiceRepository = (*InvoicePostgres)(nil)

const invoiceColumns = `id, invoice_number, vendor_name, gst_numbers, invoice_date,
	total_amount, gst_rate, hsn_number, hsn_sac_codes, line_items, ocr_confidence, upload_date`

// Create inserts a new invoice row and returns the stored record.
func (r *InvoicePostgres) Create(ctx context.Context, inv *model.Invoice, fingerprint string) (*model.Invoice, error) {
	gstNumbers, err := json.Marshal(orEmpty(inv.GSTNumbers))
	if err != nil {
		return nil, fmt.Errorf("marshal gst numbers: %w", err)
	}
	hsnCodes, err := json.Marshal(orEmpty(inv.HSNSACCodes))
	if err != nil {
		return nil, fmt.Errorf("marshal hsn codes: %w", err)
	}
	lineItems, err := json.Marshal(inv.LineItems)
	if err != nil {
		return nil, fmt.Errorf("marshal line items: %w", err)
	}

	q := `
		INSERT INTO invoices (invoice_number, vendor_name, gst_numbers, invoice_date,
			total_amount, gst_rate, hsn_number, hsn_sac_codes, line_items,
			ocr_confidence, fingerprint, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + invoiceColumns
	row := r.db.QueryRowContext(ctx, q,
		inv.InvoiceNumber,
		inv.VendorName,
		gstNumbers,
		nullableTime(inv.InvoiceDate),
		inv.TotalAmount,
		inv.GSTRate,
		inv.HSNNumber,
		hsnCodes,
		lineItems,
		inv.OCRConfidence,
		fingerprint,
		inv.UploadDate,
	)
	return scanInvoice(row)
}

// FindByFingerprint fetches all invoices sharing a duplicate fingerprint.
func (r *InvoicePostgres) FindByFingerprint(ctx context.Context, fingerprint string) ([]model.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices WHERE fingerprint = $1 ORDER BY upload_date ASC`
	return r.queryInvoices(ctx, q, fingerprint)
}

// FindByGST fetches all invoices whose identifier list contains gstNumber.
func (r *InvoicePostgres) FindByGST(ctx context.Context, gstNumber string) ([]model.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE gst_numbers @> jsonb_build_array($1::text) ORDER BY upload_date ASC`
	return r.queryInvoices(ctx, q, gstNumber)
}

// ListHistory returns recent invoices joined with their compliance result.
func (r *InvoicePostgres) ListHistory(ctx context.Context, hq repository.HistoryQuery) ([]repository.InvoiceHistoryEntry, error) {
	limit := hq.Limit
	if limit <= 0 {
		limit = 50
	}
	since := hq.Since
	if since.IsZero() {
		since = time.Unix(0, 0).UTC()
	}

	q := `
		SELECT i.id, i.invoice_number, i.vendor_name, i.gst_numbers, i.invoice_date,
			i.total_amount, i.gst_rate, i.hsn_number, i.hsn_sac_codes, i.line_items,
			i.ocr_confidence, i.upload_date, cr.payload
		FROM invoices i
		LEFT JOIN compliance_results cr ON cr.invoice_id = i.id
		WHERE i.upload_date >= $1
		ORDER BY i.upload_date DESC, i.id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]repository.InvoiceHistoryEntry, 0)
	for rows.Next() {
		var (
			inv        model.Invoice
			invDate    sql.NullTime
			gstNumbers []byte
			hsnCodes   []byte
			lineItems  []byte
			payload    []byte
		)
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.VendorName, &gstNumbers, &invDate,
			&inv.TotalAmount, &inv.GSTRate, &inv.HSNNumber, &hsnCodes, &lineItems,
			&inv.OCRConfidence, &inv.UploadDate, &payload,
		); err != nil {
			return nil, err
		}
		if err := unmarshalInvoiceLists(&inv, invDate, gstNumbers, hsnCodes, lineItems); err != nil {
			return nil, err
		}
		entry := repository.InvoiceHistoryEntry{Invoice: inv}
		if len(payload) > 0 {
			var res model.ComplianceResult
			if err := json.Unmarshal(payload, &res); err != nil {
				return nil, fmt.Errorf("unmarshal compliance payload: %w", err)
			}
			entry.Result = &res
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats returns invoice count and total processed amount.
func (r *InvoicePostgres) Stats(ctx context.Context) (int, float64, error) {
	var (
		count int
		total float64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM invoices`,
	).Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}

func (r *InvoicePostgres) queryInvoices(ctx context.Context, q string, args ...any) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoiceRows(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var (
		inv        model.Invoice
		invDate    sql.NullTime
		gstNumbers []byte
		hsnCodes   []byte
		lineItems  []byte
	)
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.VendorName, &gstNumbers, &invDate,
		&inv.TotalAmount, &inv.GSTRate, &inv.HSNNumber, &hsnCodes, &lineItems,
		&inv.OCRConfidence, &inv.UploadDate,
	); err != nil {
		return nil, err
	}
	if err := unmarshalInvoiceLists(&inv, invDate, gstNumbers, hsnCodes, lineItems); err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanInvoiceRows(rows *sql.Rows) (*model.Invoice, error) {
	return scanInvoice(rows)
}

func unmarshalInvoiceLists(inv *model.Invoice, invDate sql.NullTime, gstNumbers, hsnCodes, lineItems []byte) error {
	if invDate.Valid {
		inv.InvoiceDate = invDate.Time
	}
	if len(gstNumbers) > 0 {
		if err := json.Unmarshal(gstNumbers, &inv.GSTNumbers); err != nil {
			return fmt.Errorf("unmarshal gst numbers: %w", err)
		}
	}
	if len(hsnCodes) > 0 {
		if err := json.Unmarshal(hsnCodes, &inv.HSNSACCodes); err != nil {
			return fmt.Errorf("unmarshal hsn codes: %w", err)
		}
	}
	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &inv.LineItems); err != nil {
			return fmt.Errorf("unmarshal line items: %w", err)
		}
	}
	return nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
