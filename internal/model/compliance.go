package model

// Compliance status labels, derived from the compliance score.
const (
	StatusCompliant    = "Compliant"
	StatusMinorIssues  = "Minor Issues"
	StatusNeedsReview  = "Needs Review"
	StatusNonCompliant = "Non-Compliant"
)

// Risk levels, derived from the risk score.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// GSTValidation is the structural check outcome for one tax identifier.
type GSTValidation struct {
	Valid  bool   `json:"valid"`
	Status string `json:"status"`
}

// HSNValidation is the rate check outcome for one HSN/SAC code.
type HSNValidation struct {
	IsCorrect bool   `json:"is_correct"`
	HSNCode   string `json:"hsn_code"`
}

// DuplicateHit identifies a prior invoice sharing the duplicate fingerprint.
type DuplicateHit struct {
	InvoiceNumber string `json:"invoice_number"`
	UploadDate    string `json:"upload_date"`
}

// ArithmeticCheck reports whether line items sum to the declared total.
type ArithmeticCheck struct {
	OverallAccurate bool `json:"overall_accurate"`
}

// PriceAnalysis is the outlier check outcome for one line item.
type PriceAnalysis struct {
	Item            string  `json:"item"`
	BilledPrice     float64 `json:"billed_price"`
	VariancePercent float64 `json:"variance_percent"`
	IsOutlier       bool    `json:"is_outlier"`
}

// GSTVerification is the registry lookup outcome for one tax identifier.
// A failed lookup is a degraded outcome, never a processing error.
type GSTVerification struct {
	Success   bool   `json:"success"`
	IsValid   bool   `json:"is_valid"`
	IsActive  bool   `json:"is_active"`
	GSTNumber string `json:"gst_number"`
	LegalName string `json:"legal_name,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ComplianceResult is the full validation outcome for one invoice. The
// field set is consumed by the dashboard and the notification layer, so
// names and shapes here are load-bearing.
type ComplianceResult struct {
	InvoiceNumber     string            `json:"invoiceNumber"`
	VendorName        string            `json:"vendorName"`
	InvoiceAmount     float64           `json:"invoiceAmount"`
	InvoiceDate       string            `json:"invoiceDate"`
	GSTNumbers        []string          `json:"gstNumbers"`
	GSTRate           float64           `json:"gstRate"`
	HSNNumber         string            `json:"hsnNumber"`
	OCRConfidence     float64           `json:"ocrConfidence"`
	HSNSACCodes       []string          `json:"hsnSacCodes"`
	ItemDescriptions  []string          `json:"itemDescriptions"`
	Quantities        []float64         `json:"quantities"`
	ComplianceScore   float64           `json:"complianceScore"`
	ComplianceStatus  string            `json:"complianceStatus"`
	ChecksPassedCount int               `json:"checksPassedCount"`
	TotalChecksCount  int               `json:"totalChecksCount"`
	RiskScore         float64           `json:"riskScore"`
	RiskLevel         string            `json:"riskLevel"`
	GSTValidations    []GSTValidation   `json:"gstValidations"`
	HSNValidations    []HSNValidation   `json:"hsnValidations"`
	DuplicateCheck    []DuplicateHit    `json:"duplicateCheck"`
	ArithmeticCheck   ArithmeticCheck   `json:"arithmeticCheck"`
	PriceAnalysis     []PriceAnalysis   `json:"priceAnalysis"`
	GSTVerification   []GSTVerification `json:"gstVerification"`
	MLPrediction      MLPrediction      `json:"mlPrediction"`
	AnomaliesDetected []string          `json:"anomaliesDetected"`
}
