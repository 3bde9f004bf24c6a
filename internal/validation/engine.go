package validation

import (
	"fmt"
	"time"

	"fintel/internal/config"
	"fintel/internal/model"
)

// History carries the prior invoices a single evaluation may consult.
// Both slices may legitimately be empty.
type History struct {
	// SameFingerprint are prior invoices sharing the duplicate fingerprint.
	SameFingerprint []model.Invoice
	// SameGST are prior invoices sharing the primary tax identifier.
	SameGST []model.Invoice
}

// Engine evaluates one invoice against every field-level check, scores the
// outcome and classifies anomalies. It holds only thresholds and reference
// tables, so a single instance is safe for concurrent use.
type Engine struct {
	PriceVariancePct   float64
	ArithmeticSlackPct float64
	MLConfidenceFloor  float64
	Rates              RateTable
	Prices             PriceBook
}

// NewEngine builds an engine from configuration with the default rate table.
func NewEngine(cfg config.EngineConfig) *Engine {
	return &Engine{
		PriceVariancePct:   cfg.PriceVariancePct,
		ArithmeticSlackPct: cfg.ArithmeticSlackPct,
		MLConfidenceFloor:  cfg.MLConfidenceFloor,
		Rates:              DefaultRateTable,
		Prices:             PriceBook{},
	}
}

// Evaluate runs all checks over the submission and returns the compliance
// result plus the classified anomaly set. Registry verifications are
// attached to the result but do not enter the score: their outcome depends
// on an external service, not on the invoice. now stamps detection times.
func (e *Engine) Evaluate(sub *model.InvoiceSubmission, hist History, verifications []model.GSTVerification, now time.Time) (*model.ComplianceResult, []model.Anomaly) {
	inv := &sub.Invoice
	var tally checkTally
	var anomalies []model.Anomaly

	addAnomaly := func(anomalyType, description string) {
		anomalies = append(anomalies, model.Anomaly{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			VendorName:    inv.VendorName,
			AnomalyType:   anomalyType,
			Severity:      model.DefaultSeverity[anomalyType],
			Description:   description,
			DetectedAt:    now,
			Status:        model.AnomalyStatusOpen,
		})
	}

	res := &model.ComplianceResult{
		InvoiceNumber:    inv.InvoiceNumber,
		VendorName:       inv.VendorName,
		InvoiceAmount:    inv.TotalAmount,
		InvoiceDate:      formatDate(inv.InvoiceDate),
		GSTNumbers:       emptyIfNil(inv.GSTNumbers),
		GSTRate:          inv.GSTRate,
		HSNNumber:        inv.HSNNumber,
		OCRConfidence:    inv.OCRConfidence,
		HSNSACCodes:      emptyIfNil(inv.HSNSACCodes),
		GSTVerification:  verifications,
		MLPrediction:     sub.MLPrediction,
		DuplicateCheck:   []model.DuplicateHit{},
		GSTValidations:   []model.GSTValidation{},
		HSNValidations:   []model.HSNValidation{},
		PriceAnalysis:    []model.PriceAnalysis{},
		ItemDescriptions: []string{},
		Quantities:       []float64{},
	}
	if res.GSTVerification == nil {
		res.GSTVerification = []model.GSTVerification{}
	}
	for _, li := range inv.LineItems {
		res.ItemDescriptions = append(res.ItemDescriptions, li.Description)
		res.Quantities = append(res.Quantities, li.Quantity)
	}

	// Tax identifier presence.
	hasGST := inv.HasGST()
	tally.record(hasGST)
	if !hasGST {
		addAnomaly(model.AnomalyMissingGST,
			fmt.Sprintf("Invoice missing GST number - Vendor: %s", inv.VendorName))
	}

	// Structural validation, one outcome per identifier. Skipped entirely
	// when no identifier exists; MISSING_GST already failed above.
	if hasGST {
		allValid := true
		for _, g := range inv.GSTNumbers {
			gr := ValidateGSTIN(g)
			res.GSTValidations = append(res.GSTValidations, model.GSTValidation{
				Valid:  gr.Valid,
				Status: gr.Status,
			})
			if !gr.Valid {
				allValid = false
				addAnomaly(model.AnomalyInvalidGST,
					fmt.Sprintf("Invalid GST number %s: %s", gr.GSTIN, gr.Status))
			}
		}
		tally.record(allValid)

		// Vendor identity consistency across the same identifier.
		vm := CheckVendorConsistency(inv, hist.SameGST)
		tally.record(!vm.Mismatch)
		if vm.Mismatch {
			addAnomaly(model.AnomalyGSTVendorMismatch,
				fmt.Sprintf("GST %s previously used by %v, now %q", inv.PrimaryGST(), vm.KnownNames, inv.VendorName))
		}
	}

	// Duplicate fingerprint.
	dup := CheckDuplicates(inv, hist.SameFingerprint)
	tally.record(!dup.IsDuplicate)
	res.DuplicateCheck = append(res.DuplicateCheck, dup.Hits...)
	if dup.IsDuplicate {
		addAnomaly(model.AnomalyDuplicateInvoice,
			fmt.Sprintf("Duplicate invoice: %s", inv.InvoiceNumber))
	}

	// HSN/SAC rate lookup. Skipped when no codes were extracted.
	if len(inv.HSNSACCodes) > 0 {
		allCorrect := true
		for _, code := range inv.HSNSACCodes {
			hr := CheckHSNRate(e.Rates, code, inv.GSTRate)
			correct := hr.Known && hr.RateMatches
			res.HSNValidations = append(res.HSNValidations, model.HSNValidation{
				IsCorrect: correct,
				HSNCode:   hr.Code,
			})
			if !correct {
				allCorrect = false
				if hr.Known {
					addAnomaly(model.AnomalyHSNRateMismatch,
						fmt.Sprintf("HSN %s expects %.1f%% GST, billed %.1f%%", hr.Code, hr.ExpectedRate, inv.GSTRate))
				} else {
					addAnomaly(model.AnomalyHSNRateMismatch,
						fmt.Sprintf("Unknown HSN/SAC code %s", hr.Code))
				}
			}
		}
		tally.record(allCorrect)
	}

	// Line-item arithmetic. Not applicable without line items.
	ar := CheckArithmetic(inv, e.ArithmeticSlackPct)
	res.ArithmeticCheck = model.ArithmeticCheck{OverallAccurate: !ar.Applicable || ar.Accurate}
	if ar.Applicable {
		tally.record(ar.Accurate)
		if !ar.Accurate {
			addAnomaly(model.AnomalyArithmeticError,
				fmt.Sprintf("Line items total %.2f, declared %.2f", ar.ComputedTotal, inv.TotalAmount))
		}
	}

	// Price outliers. Only items with a reference price count.
	res.PriceAnalysis = append(res.PriceAnalysis, CheckPrices(inv, e.Prices, e.PriceVariancePct)...)
	if len(res.PriceAnalysis) > 0 {
		clean := true
		for _, pa := range res.PriceAnalysis {
			if pa.IsOutlier {
				clean = false
				addAnomaly(model.AnomalyPriceOutlier,
					fmt.Sprintf("%s billed at %.2f, variance %s against reference", pa.Item, pa.BilledPrice, DescribeVariance(pa.VariancePercent)))
			}
		}
		tally.record(clean)
	}

	// External model signal.
	flagged := sub.MLPrediction.IsAnomaly && sub.MLPrediction.Confidence >= e.MLConfidenceFloor
	tally.record(!flagged)
	if flagged {
		addAnomaly(model.AnomalyMLFlagged,
			fmt.Sprintf("Model flagged invoice with confidence %.2f", sub.MLPrediction.Confidence))
	}

	res.ChecksPassedCount = tally.passed
	res.TotalChecksCount = tally.total
	res.ComplianceScore = ComplianceScore(tally.passed, tally.total)
	res.ComplianceStatus = ComplianceStatus(res.ComplianceScore)
	res.RiskScore = RiskScore(anomalies, sub.MLPrediction)
	res.RiskLevel = RiskLevel(res.RiskScore)

	res.AnomaliesDetected = []string{}
	for _, a := range anomalies {
		res.AnomaliesDetected = append(res.AnomaliesDetected, a.AnomalyType)
	}

	return res, anomalies
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
