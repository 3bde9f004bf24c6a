package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintel/internal/model"
)

var errInvalidChecksumInput = errors.New("checksum input must be 14 GSTIN characters")

// NormalizeVendorName upper-cases and collapses internal whitespace so
// that spelling variants differing only by case or spacing compare equal.
// Legal suffix variants ("Pvt Ltd" vs "Pvt. Ltd.") are not unified.
func NormalizeVendorName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// NormalizeInvoiceNumber upper-cases and strips all whitespace.
func NormalizeInvoiceNumber(num string) string {
	return strings.Join(strings.Fields(strings.ToUpper(num)), "")
}

// Fingerprint derives the duplicate-detection key for an invoice:
// normalized invoice number, primary tax identifier, amount at two
// decimal places.
func Fingerprint(inv *model.Invoice) string {
	amount := decimal.NewFromFloat(inv.TotalAmount).Round(2).StringFixed(2)
	return NormalizeInvoiceNumber(inv.InvoiceNumber) + "|" +
		strings.ToUpper(strings.TrimSpace(inv.PrimaryGST())) + "|" + amount
}

// DuplicateResult reports prior invoices sharing the fingerprint.
type DuplicateResult struct {
	IsDuplicate bool
	Hits        []model.DuplicateHit
}

// CheckDuplicates compares the invoice fingerprint against prior invoices.
// The invoice itself (same stored id) is excluded so re-validation never
// flags an invoice as its own duplicate.
func CheckDuplicates(inv *model.Invoice, priors []model.Invoice) DuplicateResult {
	fp := Fingerprint(inv)
	var res DuplicateResult
	for i := range priors {
		p := &priors[i]
		if p.ID != "" && p.ID == inv.ID {
			continue
		}
		if Fingerprint(p) == fp {
			res.IsDuplicate = true
			res.Hits = append(res.Hits, model.DuplicateHit{
				InvoiceNumber: p.InvoiceNumber,
				UploadDate:    p.UploadDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}
	return res
}

// VendorMatchResult reports whether a tax identifier has previously
// appeared under a different vendor identity.
type VendorMatchResult struct {
	Mismatch   bool
	KnownNames []string
}

// CheckVendorConsistency flags the invoice when any prior invoice with the
// same tax identifier carries a different normalized vendor name.
func CheckVendorConsistency(inv *model.Invoice, sameGST []model.Invoice) VendorMatchResult {
	current := NormalizeVendorName(inv.VendorName)
	var res VendorMatchResult
	seen := map[string]bool{}
	for i := range sameGST {
		p := &sameGST[i]
		if p.ID != "" && p.ID == inv.ID {
			continue
		}
		name := NormalizeVendorName(p.VendorName)
		if name == "" || name == current || seen[name] {
			continue
		}
		seen[name] = true
		res.Mismatch = true
		res.KnownNames = append(res.KnownNames, p.VendorName)
	}
	return res
}

// ArithmeticResult reports the line-item sum check. Applicable is false
// when the invoice has no line items; the check is then skipped, not failed.
type ArithmeticResult struct {
	Applicable    bool
	Accurate      bool
	ComputedTotal float64
	Difference    float64
}

// CheckArithmetic sums quantity x unit price across line items and
// compares to the declared total. Tolerance is the larger of one currency
// unit and slackPct percent of the declared total.
func CheckArithmetic(inv *model.Invoice, slackPct float64) ArithmeticResult {
	if len(inv.LineItems) == 0 {
		return ArithmeticResult{}
	}

	sum := decimal.Zero
	for _, li := range inv.LineItems {
		qty := decimal.NewFromFloat(li.Quantity)
		price := decimal.NewFromFloat(li.UnitPrice)
		sum = sum.Add(qty.Mul(price))
	}
	declared := decimal.NewFromFloat(inv.TotalAmount)
	diff := sum.Sub(declared).Abs()

	tolerance := decimal.NewFromInt(1)
	if pct := declared.Abs().Mul(decimal.NewFromFloat(slackPct / 100)); pct.GreaterThan(tolerance) {
		tolerance = pct
	}

	computed, _ := sum.Round(2).Float64()
	difference, _ := diff.Round(2).Float64()
	return ArithmeticResult{
		Applicable:    true,
		Accurate:      diff.LessThanOrEqual(tolerance),
		ComputedTotal: computed,
		Difference:    difference,
	}
}

// PriceBook maps a normalized item description or an HSN code to its
// reference unit price. Items with no entry are skipped by the outlier
// check.
type PriceBook map[string]float64

// Lookup resolves a reference price by item description first, HSN code
// second.
func (b PriceBook) Lookup(description, hsnCode string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	if p, ok := b[NormalizeVendorName(description)]; ok {
		return p, true
	}
	if hsnCode != "" {
		if p, ok := b[strings.TrimSpace(hsnCode)]; ok {
			return p, true
		}
	}
	return 0, false
}

// CheckPrices compares each billed unit price against its reference price
// and flags variances beyond variancePct (signed percentage recorded).
// Returns one analysis row per line item that has a reference price.
func CheckPrices(inv *model.Invoice, book PriceBook, variancePct float64) []model.PriceAnalysis {
	var out []model.PriceAnalysis
	for _, li := range inv.LineItems {
		ref, ok := book.Lookup(li.Description, li.HSNCode)
		if !ok || ref <= 0 {
			continue
		}
		variance := (li.UnitPrice - ref) / ref * 100
		variance = roundTo(variance, 2)
		out = append(out, model.PriceAnalysis{
			Item:            li.Description,
			BilledPrice:     li.UnitPrice,
			VariancePercent: variance,
			IsOutlier:       variance > variancePct || variance < -variancePct,
		})
	}
	return out
}

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// DescribeVariance renders a signed variance for anomaly descriptions.
func DescribeVariance(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
