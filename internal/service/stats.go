package service

import (
	"context"
	"fmt"

	"fintel/internal/model"
	"fintel/internal/repository"
	"fintel/internal/validation"
)

// StatsService backs the dashboard and listing endpoints.
type StatsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	Anomalies(ctx context.Context, q repository.HistoryQuery) ([]model.Anomaly, error)
	History(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error)
	Vendors(ctx context.Context) ([]model.VendorProfile, error)
}

type statsService struct {
	invoices  repository.InvoiceRepository
	results   repository.ComplianceRepository
	anomalies repository.AnomalyRepository
	vendors   repository.VendorRepository
}

// NewStatsService constructs a StatsService.
func NewStatsService(
	invoices repository.InvoiceRepository,
	results repository.ComplianceRepository,
	anomalies repository.AnomalyRepository,
	vendors repository.VendorRepository,
) StatsService {
	return &statsService{
		invoices:  invoices,
		results:   results,
		anomalies: anomalies,
		vendors:   vendors,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	count, totalAmount, err := s.invoices.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}
	anomalyCount, err := s.anomalies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("anomaly count: %w", err)
	}
	avg, err := s.results.AverageScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	return &model.DashboardStats{
		TotalInvoices:        count,
		TotalAmountProcessed: totalAmount,
		TotalAnomalies:       anomalyCount,
		AverageScore:         validation.Round1(avg),
	}, nil
}

func (s *statsService) Anomalies(ctx context.Context, q repository.HistoryQuery) ([]model.Anomaly, error) {
	return s.anomalies.List(ctx, q)
}

func (s *statsService) History(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error) {
	return s.invoices.ListHistory(ctx, repository.HistoryQuery{Limit: limit})
}

func (s *statsService) Vendors(ctx context.Context) ([]model.VendorProfile, error) {
	return s.vendors.List(ctx)
}
