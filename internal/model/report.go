package model

// DashboardStats is the headline rollup shown on the dashboard and
// embedded in periodic reports.
type DashboardStats struct {
	TotalInvoices        int     `json:"totalInvoices"`
	TotalAmountProcessed float64 `json:"totalAmountProcessed"`
	TotalAnomalies       int     `json:"totalAnomalies"`
	AverageScore         float64 `json:"averageScore"`
}

// VendorRank is one entry in a digest's top-vendor list.
type VendorRank struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Digest periods.
const (
	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"
)

// DigestReport is the periodic rollup payload. It is computed per trigger
// and never persisted beyond the send (plus an archive copy).
type DigestReport struct {
	Date              string         `json:"date"`
	Period            string         `json:"period"`
	InvoicesProcessed int            `json:"invoicesProcessed"`
	AnomaliesDetected int            `json:"anomaliesDetected"`
	AnomalyCounts     map[string]int `json:"anomalyCounts"`
	TotalAmount       float64        `json:"totalAmount"`
	TopVendors        []VendorRank   `json:"topVendors"`
}

// ReportData is the anomaly report payload for report emails.
type ReportData struct {
	TotalAnomalies int    `json:"totalAnomalies"`
	Duplicates     int    `json:"duplicates"`
	GstMismatches  int    `json:"gstMismatches"`
	MissingGst     int    `json:"missingGst"`
	Period         string `json:"period"`
	InvoiceCount   int    `json:"invoiceCount"`
}

// AlertData is the payload for a high-priority single-anomaly alert.
type AlertData struct {
	AnomalyType   string `json:"anomalyType"`
	InvoiceNumber string `json:"invoiceNumber"`
	VendorName    string `json:"vendorName"`
	Description   string `json:"description"`
}

// RecipientResult records the delivery outcome for one recipient. A failed
// recipient never aborts the rest of the batch.
type RecipientResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
