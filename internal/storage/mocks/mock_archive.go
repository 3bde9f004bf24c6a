package mocks

import (
	"context"
	"time"

	"fintel/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) SaveDigest(ctx context.Context, digest *model.DigestReport) (string, error) {
	args := m.Called(ctx, digest)
	return args.String(0), args.Error(1)
}

func (m *MockArchive) SaveReport(ctx context.Context, report *model.ReportData, sentAt time.Time) (string, error) {
	args := m.Called(ctx, report, sentAt)
	return args.String(0), args.Error(1)
}
