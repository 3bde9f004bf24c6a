package mocks

import (
	"context"

	"fintel/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, gstNumber string) model.GSTVerification {
	args := m.Called(ctx, gstNumber)
	return args.Get(0).(model.GSTVerification)
}
