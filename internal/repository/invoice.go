package repository

import (
	"context"

	"fintel/internal/model"
)

// InvoiceRepository defines persistence for invoices. Invoices are
// immutable; there is no update operation.
type InvoiceRepository interface {
	// Create inserts a new invoice with its duplicate fingerprint and
	// returns the stored record (ID assigned by the database if empty).
	Create(ctx context.Context, inv *model.Invoice, fingerprint string) (*model.Invoice, error)

	// FindByFingerprint returns all invoices sharing the fingerprint,
	// including the one being re-validated; callers exclude self-matches.
	FindByFingerprint(ctx context.Context, fingerprint string) ([]model.Invoice, error)

	// FindByGST returns all invoices whose identifier list contains the
	// given GST number.
	FindByGST(ctx context.Context, gstNumber string) ([]model.Invoice, error)

	// ListHistory returns recent invoices, newest first, each joined with
	// its compliance result when present.
	ListHistory(ctx context.Context, q HistoryQuery) ([]InvoiceHistoryEntry, error)

	// Stats returns the invoice count and summed amount.
	Stats(ctx context.Context) (count int, totalAmount float64, err error)
}

// ComplianceRepository persists one result per invoice; a re-run
// overwrites the prior result.
type ComplianceRepository interface {
	Upsert(ctx context.Context, invoiceID string, res *model.ComplianceResult) error
	AverageScore(ctx context.Context) (float64, error)
}

// AnomalyRepository persists classified anomalies. Replacement is the
// only write path so re-validation never accumulates stale records.
type AnomalyRepository interface {
	// ReplaceForInvoice atomically deletes the invoice's prior anomalies
	// and inserts the new set (which may be empty).
	ReplaceForInvoice(ctx context.Context, invoiceID string, anomalies []model.Anomaly) error

	List(ctx context.Context, q HistoryQuery) ([]model.Anomaly, error)
	Count(ctx context.Context) (int, error)
}

// VendorRepository maintains per-tax-identifier rollups.
type VendorRepository interface {
	// RecordInvoice folds one invoice into the vendor's profile: count +1,
	// amount added, date bounds extended, display name last-write-wins.
	RecordInvoice(ctx context.Context, profile *model.VendorProfile) error

	List(ctx context.Context) ([]model.VendorProfile, error)
}
