package model

import (
	"strings"
	"time"
)

// LineItem is a single billed line on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	HSNCode     string  `json:"hsnCode,omitempty"`
}

// Invoice holds the structured fields extracted from one uploaded invoice.
// Instances are immutable once stored; validation never mutates them, it
// only writes ComplianceResult and Anomaly records that reference them.
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	VendorName    string     `json:"vendorName"`
	GSTNumbers    []string   `json:"gstNumbers"`
	InvoiceDate   time.Time  `json:"invoiceDate"`
	TotalAmount   float64    `json:"totalAmount"`
	GSTRate       float64    `json:"gstRate"`
	HSNNumber     string     `json:"hsnNumber"`
	HSNSACCodes   []string   `json:"hsnSacCodes"`
	LineItems     []LineItem `json:"lineItems"`
	OCRConfidence float64    `json:"ocrConfidence"`
	UploadDate    time.Time  `json:"uploadDate"`
}

// gstSentinels are placeholder values the extraction layer emits when no
// identifier could be read. They count as missing, not as identifiers.
var gstSentinels = map[string]bool{"": true, "N/A": true, "UNKNOWN": true}

// UsableGST reports whether a raw identifier value is a real identifier
// rather than an extraction placeholder.
func UsableGST(raw string) bool {
	return !gstSentinels[strings.ToUpper(strings.TrimSpace(raw))]
}

// PrimaryGST returns the first usable tax identifier, or "".
func (inv *Invoice) PrimaryGST() string {
	for _, g := range inv.GSTNumbers {
		if UsableGST(g) {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

// HasGST reports whether the invoice carries any usable tax identifier.
func (inv *Invoice) HasGST() bool {
	return inv.PrimaryGST() != ""
}

// MLPrediction is the externally supplied model signal for an invoice.
// It is passed through, never re-derived here.
type MLPrediction struct {
	IsAnomaly  bool    `json:"is_anomaly"`
	Confidence float64 `json:"confidence"`
}

// InvoiceSubmission is the processing request: one invoice's extracted
// fields plus the external model signal.
type InvoiceSubmission struct {
	Invoice
	MLPrediction MLPrediction `json:"mlPrediction"`
}
