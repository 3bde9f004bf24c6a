package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"fintel/internal/model"
	"fintel/internal/repository"
)

// UpstreamAPI is the read surface the aggregators consume. In a single
// deployment it is this service's own HTTP API.
type UpstreamAPI interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	Anomalies(ctx context.Context) ([]model.Anomaly, error)
	InvoiceHistory(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error)
	Vendors(ctx context.Context) ([]model.VendorProfile, error)
}

// DigestService assembles periodic rollups from upstream data. Every
// upstream fetch degrades to a zero-valued section on failure; a digest is
// always sendable.
type DigestService interface {
	// BuildDigest rolls up the calendar day of now (daily) or the trailing
	// seven days (weekly).
	BuildDigest(ctx context.Context, now time.Time, period string) *model.DigestReport

	// BuildReport assembles the anomaly report payload.
	BuildReport(ctx context.Context) *model.ReportData
}

type digestService struct {
	upstream   UpstreamAPI
	topVendors int
	loc        *time.Location
	log        zerolog.Logger
}

// NewDigestService constructs a DigestService keeping topVendors ranks.
// Daily windows are calendar days in loc; nil means UTC.
func NewDigestService(upstream UpstreamAPI, topVendors int, loc *time.Location, log zerolog.Logger) DigestService {
	if topVendors <= 0 {
		topVendors = 5
	}
	if loc == nil {
		loc = time.UTC
	}
	return &digestService{upstream: upstream, topVendors: topVendors, loc: loc, log: log}
}

func (s *digestService) BuildDigest(ctx context.Context, now time.Time, period string) *model.DigestReport {
	local := now.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	if period == model.PeriodWeekly {
		start = now.AddDate(0, 0, -7)
	}

	digest := &model.DigestReport{
		Date:          local.Format("2006-01-02"),
		Period:        period,
		AnomalyCounts: map[string]int{},
		TopVendors:    []model.VendorRank{},
	}

	anomalies, err := s.upstream.Anomalies(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("anomaly fetch failed, digest section degraded")
		anomalies = nil
	}
	for _, a := range anomalies {
		if a.DetectedAt.Before(start) || a.DetectedAt.After(now) {
			continue
		}
		digest.AnomaliesDetected++
		digest.AnomalyCounts[a.AnomalyType]++
	}

	history, err := s.upstream.InvoiceHistory(ctx, 0)
	if err != nil {
		s.log.Warn().Err(err).Msg("history fetch failed, digest section degraded")
		history = nil
	}
	vendorCounts := map[string]int{}
	for _, e := range history {
		if e.Invoice.UploadDate.Before(start) || e.Invoice.UploadDate.After(now) {
			continue
		}
		digest.InvoicesProcessed++
		digest.TotalAmount += e.Invoice.TotalAmount
		name := e.Invoice.VendorName
		if name == "" {
			name = "Unknown"
		}
		vendorCounts[name]++
	}
	digest.TopVendors = rankVendors(vendorCounts, s.topVendors)

	return digest
}

func (s *digestService) BuildReport(ctx context.Context) *model.ReportData {
	report := &model.ReportData{Period: "Last 30 Days"}

	if stats, err := s.upstream.DashboardStats(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats fetch failed, report section degraded")
	} else {
		report.InvoiceCount = stats.TotalInvoices
	}

	anomalies, err := s.upstream.Anomalies(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("anomaly fetch failed, report section degraded")
		return report
	}
	report.TotalAnomalies = len(anomalies)
	for _, a := range anomalies {
		switch a.AnomalyType {
		case model.AnomalyDuplicateInvoice:
			report.Duplicates++
		case model.AnomalyGSTVendorMismatch:
			report.GstMismatches++
		case model.AnomalyMissingGST:
			report.MissingGst++
		}
	}
	return report
}

// rankVendors orders by count descending, ties by name ascending, and
// keeps the top k.
func rankVendors(counts map[string]int, k int) []model.VendorRank {
	ranks := make([]model.VendorRank, 0, len(counts))
	for name, count := range counts {
		ranks = append(ranks, model.VendorRank{Name: name, Count: count})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Count != ranks[j].Count {
			return ranks[i].Count > ranks[j].Count
		}
		return ranks[i].Name < ranks[j].Name
	})
	if len(ranks) > k {
		ranks = ranks[:k]
	}
	return ranks
}
