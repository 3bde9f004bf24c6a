package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintel/internal/model"
	"fintel/internal/repository"
	repomocks "fintel/internal/repository/mocks"
)

func TestStatsService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates and rounds", func(t *testing.T) {
		invoices := new(repomocks.MockInvoiceRepository)
		results := new(repomocks.MockComplianceRepository)
		anomalies := new(repomocks.MockAnomalyRepository)
		svc := NewStatsService(invoices, results, anomalies, new(repomocks.MockVendorRepository))

		invoices.On("Stats", ctx).Return(41, 123456.78, nil)
		anomalies.On("Count", ctx).Return(7, nil)
		results.On("AverageScore", ctx).Return(83.333333, nil)

		stats, err := svc.Dashboard(ctx)

		require.NoError(t, err)
		assert.Equal(t, 41, stats.TotalInvoices)
		assert.Equal(t, 123456.78, stats.TotalAmountProcessed)
		assert.Equal(t, 7, stats.TotalAnomalies)
		assert.Equal(t, 83.3, stats.AverageScore)
	})

	t.Run("propagates repo errors", func(t *testing.T) {
		invoices := new(repomocks.MockInvoiceRepository)
		svc := NewStatsService(invoices, new(repomocks.MockComplianceRepository),
			new(repomocks.MockAnomalyRepository), new(repomocks.MockVendorRepository))

		invoices.On("Stats", ctx).Return(0, 0.0, errors.New("connection reset"))

		_, err := svc.Dashboard(ctx)

		assert.Error(t, err)
	})
}

func TestStatsService_Listings(t *testing.T) {
	ctx := context.Background()
	invoices := new(repomocks.MockInvoiceRepository)
	anomalies := new(repomocks.MockAnomalyRepository)
	vendors := new(repomocks.MockVendorRepository)
	svc := NewStatsService(invoices, new(repomocks.MockComplianceRepository), anomalies, vendors)

	anomalies.On("List", ctx, repository.HistoryQuery{Limit: 10}).
		Return([]model.Anomaly{{AnomalyType: model.AnomalyMissingGST}}, nil)
	invoices.On("ListHistory", ctx, repository.HistoryQuery{Limit: 25}).
		Return([]repository.InvoiceHistoryEntry{{}}, nil)
	vendors.On("List", ctx).Return([]model.VendorProfile{{GSTNumber: "24AAACC1206D1ZM"}}, nil)

	got, err := svc.Anomalies(ctx, repository.HistoryQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	hist, err := svc.History(ctx, 25)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	vs, err := svc.Vendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vs, 1)
}
