package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fintel/internal/gstregistry"
	"fintel/internal/metrics"
	"fintel/internal/model"
	"fintel/internal/repository"
	"fintel/internal/validation"
)

var (
	ErrInvoiceNumberRequired = errors.New("invoice number is required")
	ErrVendorNameRequired    = errors.New("vendor name is required")
)

// ComplianceService is the processing entrypoint: it stores an invoice,
// runs the full validation pipeline and persists the outcome.
type ComplianceService interface {
	// ProcessInvoice validates one submission end to end. Re-processing the
	// same invoice replaces its anomaly set and overwrites its result, so
	// the operation is idempotent at the record level.
	ProcessInvoice(ctx context.Context, sub *model.InvoiceSubmission) (*model.ComplianceResult, error)
}

type complianceService struct {
	invoices  repository.InvoiceRepository
	results   repository.ComplianceRepository
	anomalies repository.AnomalyRepository
	vendors   repository.VendorRepository
	engine    *validation.Engine
	registry  gstregistry.Verifier
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewComplianceService constructs a ComplianceService.
func NewComplianceService(
	invoices repository.InvoiceRepository,
	results repository.ComplianceRepository,
	anomalies repository.AnomalyRepository,
	vendors repository.VendorRepository,
	engine *validation.Engine,
	registry gstregistry.Verifier,
	m *metrics.Metrics,
	log zerolog.Logger,
) ComplianceService {
	return &complianceService{
		invoices:  invoices,
		results:   results,
		anomalies: anomalies,
		vendors:   vendors,
		engine:    engine,
		registry:  registry,
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *complianceService) ProcessInvoice(ctx context.Context, sub *model.InvoiceSubmission) (*model.ComplianceResult, error) {
	if strings.TrimSpace(sub.InvoiceNumber) == "" {
		return nil, ErrInvoiceNumberRequired
	}
	if strings.TrimSpace(sub.VendorName) == "" {
		return nil, ErrVendorNameRequired
	}

	now := s.now()
	if sub.UploadDate.IsZero() {
		sub.UploadDate = now
	}

	fingerprint := validation.Fingerprint(&sub.Invoice)
	stored, err := s.invoices.Create(ctx, &sub.Invoice, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("store invoice: %w", err)
	}
	sub.Invoice.ID = stored.ID

	hist, err := s.fetchHistory(ctx, &sub.Invoice, fingerprint)
	if err != nil {
		return nil, err
	}

	verifications := s.verifyIdentifiers(ctx, &sub.Invoice)

	res, anomalies := s.engine.Evaluate(sub, hist, verifications, now)

	if err := s.anomalies.ReplaceForInvoice(ctx, stored.ID, anomalies); err != nil {
		return nil, fmt.Errorf("store anomalies: %w", err)
	}
	if err := s.results.Upsert(ctx, stored.ID, res); err != nil {
		return nil, fmt.Errorf("store compliance result: %w", err)
	}
	if err := s.recordVendor(ctx, &sub.Invoice); err != nil {
		return nil, fmt.Errorf("update vendor profile: %w", err)
	}

	s.metrics.InvoicesProcessed.Inc()
	for _, a := range anomalies {
		s.metrics.AnomaliesDetected.WithLabelValues(a.AnomalyType).Inc()
	}

	s.log.Info().
		Str("invoice_id", stored.ID).
		Str("invoice_number", sub.InvoiceNumber).
		Float64("score", res.ComplianceScore).
		Str("risk_level", res.RiskLevel).
		Int("anomalies", len(anomalies)).
		Msg("invoice processed")

	return res, nil
}

func (s *complianceService) fetchHistory(ctx context.Context, inv *model.Invoice, fingerprint string) (validation.History, error) {
	var hist validation.History

	same, err := s.invoices.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return hist, fmt.Errorf("fetch fingerprint history: %w", err)
	}
	hist.SameFingerprint = same

	if gst := inv.PrimaryGST(); gst != "" {
		byGST, err := s.invoices.FindByGST(ctx, gst)
		if err != nil {
			return hist, fmt.Errorf("fetch gst history: %w", err)
		}
		hist.SameGST = byGST
	}
	return hist, nil
}

// verifyIdentifiers runs registry lookups for each distinct usable
// identifier. Lookups are advisory; failures surface inside the outcomes.
func (s *complianceService) verifyIdentifiers(ctx context.Context, inv *model.Invoice) []model.GSTVerification {
	verifications := make([]model.GSTVerification, 0)
	seen := make(map[string]bool)
	for _, raw := range inv.GSTNumbers {
		if !model.UsableGST(raw) {
			continue
		}
		g := strings.TrimSpace(raw)
		if seen[strings.ToUpper(g)] {
			continue
		}
		seen[strings.ToUpper(g)] = true
		out := s.registry.Verify(ctx, g)
		if !out.Success {
			s.log.Warn().Str("gst_number", g).Str("error", out.Error).Msg("registry verification unavailable")
		}
		verifications = append(verifications, out)
	}
	return verifications
}

func (s *complianceService) recordVendor(ctx context.Context, inv *model.Invoice) error {
	gst := inv.PrimaryGST()
	if gst == "" {
		return nil
	}
	seen := inv.InvoiceDate
	if seen.IsZero() {
		seen = inv.UploadDate
	}
	return s.vendors.RecordInvoice(ctx, &model.VendorProfile{
		GSTNumber:       gst,
		VendorName:      inv.VendorName,
		TotalAmount:     inv.TotalAmount,
		LastInvoiceDate: seen,
	})
}
