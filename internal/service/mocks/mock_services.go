package mocks

import (
	"context"
	"time"

	"fintel/internal/model"
	"fintel/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) ProcessInvoice(ctx context.Context, sub *model.InvoiceSubmission) (*model.ComplianceResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ComplianceResult), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockStatsService) Anomalies(ctx context.Context, q repository.HistoryQuery) ([]model.Anomaly, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Anomaly), args.Error(1)
}

func (m *MockStatsService) History(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.InvoiceHistoryEntry), args.Error(1)
}

func (m *MockStatsService) Vendors(ctx context.Context) ([]model.VendorProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VendorProfile), args.Error(1)
}

type MockDigestService struct {
	mock.Mock
}

func (m *MockDigestService) BuildDigest(ctx context.Context, now time.Time, period string) *model.DigestReport {
	args := m.Called(ctx, now, period)
	return args.Get(0).(*model.DigestReport)
}

func (m *MockDigestService) BuildReport(ctx context.Context) *model.ReportData {
	args := m.Called(ctx)
	return args.Get(0).(*model.ReportData)
}

type MockUpstreamAPI struct {
	mock.Mock
}

func (m *MockUpstreamAPI) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockUpstreamAPI) Anomalies(ctx context.Context) ([]model.Anomaly, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Anomaly), args.Error(1)
}

func (m *MockUpstreamAPI) InvoiceHistory(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.InvoiceHistoryEntry), args.Error(1)
}

func (m *MockUpstreamAPI) Vendors(ctx context.Context) ([]model.VendorProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VendorProfile), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReport(ctx context.Context, to string, data model.ReportData) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationService) SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationService) SendAlert(ctx context.Context, to string, data model.AlertData) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationService) SendImmediateReport(ctx context.Context, emails []string) ([]model.RecipientResult, error) {
	args := m.Called(ctx, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipientResult), args.Error(1)
}

func (m *MockNotificationService) DispatchReport(ctx context.Context) ([]model.RecipientResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipientResult), args.Error(1)
}

func (m *MockNotificationService) DispatchDigest(ctx context.Context, now time.Time, period string) ([]model.RecipientResult, error) {
	args := m.Called(ctx, now, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipientResult), args.Error(1)
}

func (m *MockNotificationService) Test(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
