package mocks

import (
	"context"

	"fintel/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendReport(ctx context.Context, to string, data model.ReportData) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) SendAlert(ctx context.Context, to string, data model.AlertData) (string, error) {
	args := m.Called(ctx, to, data)
	return args.String(0), args.Error(1)
}

func (m *MockMailer) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
