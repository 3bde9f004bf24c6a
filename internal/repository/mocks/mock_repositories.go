package mocks

import (
	"context"

	"fintel/internal/model"
	"fintel/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *model.Invoice, fingerprint string) (*model.Invoice, error) {
	args := m.Called(ctx, inv, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByFingerprint(ctx context.Context, fingerprint string) ([]model.Invoice, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByGST(ctx context.Context, gstNumber string) ([]model.Invoice, error) {
	args := m.Called(ctx, gstNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListHistory(ctx context.Context, q repository.HistoryQuery) ([]repository.InvoiceHistoryEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.InvoiceHistoryEntry), args.Error(1)
}

func (m *MockInvoiceRepository) Stats(ctx context.Context) (int, float64, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Get(1).(float64), args.Error(2)
}

type MockComplianceRepository struct {
	mock.Mock
}

func (m *MockComplianceRepository) Upsert(ctx context.Context, invoiceID string, res *model.ComplianceResult) error {
	args := m.Called(ctx, invoiceID, res)
	return args.Error(0)
}

func (m *MockComplianceRepository) AverageScore(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockAnomalyRepository struct {
	mock.Mock
}

func (m *MockAnomalyRepository) ReplaceForInvoice(ctx context.Context, invoiceID string, anomalies []model.Anomaly) error {
	args := m.Called(ctx, invoiceID, anomalies)
	return args.Error(0)
}

func (m *MockAnomalyRepository) List(ctx context.Context, q repository.HistoryQuery) ([]model.Anomaly, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Anomaly), args.Error(1)
}

func (m *MockAnomalyRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) RecordInvoice(ctx context.Context, profile *model.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockVendorRepository) List(ctx context.Context) ([]model.VendorProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VendorProfile), args.Error(1)
}
