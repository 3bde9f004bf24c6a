package model

import "time"

// VendorProfile is the running rollup for one tax identifier. Counts and
// totals only ever grow; date bounds extend by min/max; the display name
// follows the most recently seen spelling.
type VendorProfile struct {
	GSTNumber        string    `json:"gstNumber"`
	VendorName       string    `json:"vendorName"`
	TotalInvoices    int       `json:"totalInvoices"`
	TotalAmount      float64   `json:"totalAmount"`
	FirstInvoiceDate time.Time `json:"firstInvoiceDate"`
	LastInvoiceDate  time.Time `json:"lastInvoiceDate"`
}
