package mailer

import (
	"context"
	"testing"
	"time"

	"fintel/internal/config"
	"fintel/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRenderReport(t *testing.T) {
	data := model.ReportData{
		TotalAnomalies: 7,
		Duplicates:     3,
		GstMismatches:  2,
		MissingGst:     2,
		Period:         "Last 24 Hours",
		InvoiceCount:   41,
	}

	subject, body, err := renderReport(data)

	assert.NoError(t, err)
	assert.Equal(t, "Anomaly Report - 7 Issues Detected (Last 24 Hours)", subject)
	assert.Contains(t, body, "41")
	assert.Contains(t, body, "Duplicate Invoices")
	assert.Contains(t, body, "GST Vendor Mismatches")
	assert.Contains(t, body, "Missing GST Numbers")
}

func TestRenderDigest(t *testing.T) {
	t.Run("daily with vendors", func(t *testing.T) {
		data := model.DigestReport{
			Date:              "2024-03-15",
			Period:            model.PeriodDaily,
			InvoicesProcessed: 12,
			AnomaliesDetected: 2,
			TotalAmount:       45000.5,
			TopVendors: []model.VendorRank{
				{Name: "ACME SUPPLIES", Count: 5},
				{Name: "UMBRELLA CORP", Count: 3},
			},
		}

		subject, body, err := renderDigest(data)

		assert.NoError(t, err)
		assert.Equal(t, "Daily Digest - 2024-03-15", subject)
		assert.Contains(t, body, "ACME SUPPLIES")
		assert.Contains(t, body, "45000.50")
		assert.Contains(t, body, "Daily Digest")
	})

	t.Run("weekly without vendors", func(t *testing.T) {
		data := model.DigestReport{
			Date:   "2024-03-15",
			Period: model.PeriodWeekly,
		}

		subject, body, err := renderDigest(data)

		assert.NoError(t, err)
		assert.Equal(t, "Weekly Digest - 2024-03-15", subject)
		assert.Contains(t, body, "Weekly Digest")
		assert.Contains(t, body, "No vendor activity")
	})
}

func TestRenderAlert(t *testing.T) {
	data := model.AlertData{
		AnomalyType:   model.AnomalyDuplicateInvoice,
		InvoiceNumber: "INV-2024-001",
		VendorName:    "ACME SUPPLIES",
		Description:   "Duplicate of invoice uploaded 2024-03-10",
	}

	subject, body, err := renderAlert(data)

	assert.NoError(t, err)
	assert.Equal(t, "URGENT: High Priority Anomaly - DUPLICATE_INVOICE", subject)
	assert.Contains(t, body, "INV-2024-001")
	assert.Contains(t, body, "ACME SUPPLIES")
}

func TestRenderAlert_EscapesHTML(t *testing.T) {
	data := model.AlertData{
		AnomalyType:   model.AnomalyInvalidGST,
		InvoiceNumber: "INV-1",
		VendorName:    "<script>alert(1)</script>",
		Description:   "bad vendor",
	}

	_, body, err := renderAlert(data)

	assert.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestSMTPMailer_VerifyUnreachable(t *testing.T) {
	m := NewSMTP(config.SMTPConfig{
		Host:       "127.0.0.1",
		Port:       1,
		TimeoutSec: 2,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	assert.Error(t, m.Verify(ctx))
}
