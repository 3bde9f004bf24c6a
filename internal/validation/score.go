package validation

import "fintel/internal/model"

// checkTally accumulates passed/applicable counts. Skipped checks touch
// neither counter so they never inflate or deflate the score.
type checkTally struct {
	passed int
	total  int
}

func (t *checkTally) record(pass bool) {
	t.total++
	if pass {
		t.passed++
	}
}

// ComplianceScore is 100 x passed / applicable, rounded to one decimal.
// With no applicable checks at all the invoice scores 100: nothing that
// could be checked failed.
func ComplianceScore(passed, applicable int) float64 {
	if applicable <= 0 {
		return 100
	}
	return roundTo(100*float64(passed)/float64(applicable), 1)
}

// Round1 rounds to one decimal place, the precision scores are reported at.
func Round1(v float64) float64 {
	return roundTo(v, 1)
}

// ComplianceStatus derives the fixed status label from the score.
func ComplianceStatus(score float64) string {
	switch {
	case score >= 90:
		return model.StatusCompliant
	case score >= 70:
		return model.StatusMinorIssues
	case score >= 50:
		return model.StatusNeedsReview
	default:
		return model.StatusNonCompliant
	}
}

// Severity weights for the risk score.
const (
	riskWeightHigh   = 30
	riskWeightMedium = 15
	riskWeightLow    = 5
	// mlResidualWeight scales the model confidence into residual risk so a
	// flagged invoice carries risk even when it triggers no anomaly.
	mlResidualWeight = 25
)

// RiskScore is the severity-weighted anomaly count plus the model
// residual, capped to [0,100]. It is intentionally independent of the
// compliance score.
func RiskScore(anomalies []model.Anomaly, ml model.MLPrediction) float64 {
	score := 0.0
	for _, a := range anomalies {
		switch a.Severity {
		case model.SeverityHigh:
			score += riskWeightHigh
		case model.SeverityMedium:
			score += riskWeightMedium
		default:
			score += riskWeightLow
		}
	}
	if ml.IsAnomaly {
		score += ml.Confidence * mlResidualWeight
	}
	if score > 100 {
		score = 100
	}
	return roundTo(score, 1)
}

// RiskLevel buckets a risk score into Low / Medium / High.
func RiskLevel(score float64) string {
	switch {
	case score < 30:
		return model.RiskLow
	case score < 70:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}
