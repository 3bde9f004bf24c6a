package model

import "time"

// Anomaly types. One invoice may carry several, one per distinct trigger.
const (
	AnomalyDuplicateInvoice  = "DUPLICATE_INVOICE"
	AnomalyGSTVendorMismatch = "GST_VENDOR_MISMATCH"
	AnomalyMissingGST        = "MISSING_GST"
	AnomalyInvalidGST        = "INVALID_GST"
	AnomalyHSNRateMismatch   = "HSN_RATE_MISMATCH"
	AnomalyArithmeticError   = "ARITHMETIC_ERROR"
	AnomalyPriceOutlier      = "PRICE_OUTLIER"
	AnomalyMLFlagged         = "ML_FLAGGED_ANOMALY"
)

// Anomaly severities.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// DefaultSeverity maps each anomaly type to its default severity.
var DefaultSeverity = map[string]string{
	AnomalyDuplicateInvoice:  SeverityHigh,
	AnomalyGSTVendorMismatch: SeverityHigh,
	AnomalyMissingGST:        SeverityMedium,
	AnomalyInvalidGST:        SeverityHigh,
	AnomalyHSNRateMismatch:   SeverityMedium,
	AnomalyArithmeticError:   SeverityMedium,
	AnomalyPriceOutlier:      SeverityLow,
	AnomalyMLFlagged:         SeverityMedium,
}

// Anomaly is one classified compliance finding on an invoice. Records are
// immutable; re-validating an invoice replaces its whole anomaly set.
type Anomaly struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	VendorName    string    `json:"vendorName"`
	AnomalyType   string    `json:"anomalyType"`
	Severity      string    `json:"severity"`
	Description   string    `json:"description"`
	DetectedAt    time.Time `json:"detectedAt"`
	Status        string    `json:"status"`
}

// AnomalyStatusOpen is the initial status of every new anomaly. Closing
// anomalies is an operator action outside this service.
const AnomalyStatusOpen = "OPEN"
