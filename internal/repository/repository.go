// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres); no business logic here.
package repository

import (
	"time"

	"fintel/internal/model"
)

// HistoryQuery bounds invoice/anomaly listings. Zero Since means no lower
// bound; Limit <= 0 means the implementation default.
type HistoryQuery struct {
	Since time.Time
	Limit int
}

// InvoiceHistoryEntry pairs a stored invoice with its compliance result,
// when one exists.
type InvoiceHistoryEntry struct {
	Invoice model.Invoice
	Result  *model.ComplianceResult
}
