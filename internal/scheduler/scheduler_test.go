package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintel/internal/config"
	"fintel/internal/metrics"
	"fintel/internal/model"
	svcmocks "fintel/internal/service/mocks"
	"github.com/rs/zerolog"
)

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:        true,
		Timezone:       "Asia/Kolkata",
		Recipients:     []string{"team@corp.example"},
		DailyReportAt:  "0 9 * * *",
		DailyDigestAt:  "0 18 * * *",
		WeeklyReportAt: "0 10 * * 1",
	}
}

func newScheduler(t *testing.T, notify *svcmocks.MockNotificationService) *Scheduler {
	t.Helper()
	s, err := New(notify, testConfig(), metrics.NewNop(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "Not/AZone"

	_, err := New(new(svcmocks.MockNotificationService), cfg, metrics.NewNop(), zerolog.Nop())

	assert.Error(t, err)
}

func TestScheduler_Start_BadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.DailyDigestAt = "not a cron spec"
	s, err := New(new(svcmocks.MockNotificationService), cfg, metrics.NewNop(), zerolog.Nop())
	require.NoError(t, err)
	defer s.Stop()

	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_RunDailyReport(t *testing.T) {
	notify := new(svcmocks.MockNotificationService)
	s := newScheduler(t, notify)
	ctx := context.Background()
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

	notify.On("DispatchReport", ctx).
		Return([]model.RecipientResult{{Email: "team@corp.example", Success: true}}, nil)

	s.RunDailyReport(ctx, now)

	notify.AssertExpectations(t)
}

func TestScheduler_RunDailyDigest(t *testing.T) {
	notify := new(svcmocks.MockNotificationService)
	s := newScheduler(t, notify)
	ctx := context.Background()
	now := time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC)

	notify.On("DispatchDigest", ctx, now, model.PeriodDaily).
		Return([]model.RecipientResult{{Email: "team@corp.example", Success: true}}, nil)

	s.RunDailyDigest(ctx, now)

	notify.AssertExpectations(t)
}

func TestScheduler_RunWeeklyReport(t *testing.T) {
	notify := new(svcmocks.MockNotificationService)
	s := newScheduler(t, notify)
	ctx := context.Background()
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	notify.On("DispatchDigest", ctx, now, model.PeriodWeekly).
		Return([]model.RecipientResult{{Email: "team@corp.example", Success: true}}, nil)

	s.RunWeeklyReport(ctx, now)

	notify.AssertExpectations(t)
}

func TestScheduler_DispatchFailureDoesNotPanic(t *testing.T) {
	notify := new(svcmocks.MockNotificationService)
	s := newScheduler(t, notify)
	ctx := context.Background()

	notify.On("DispatchReport", ctx).Return(nil, errors.New("no recipients configured"))

	assert.NotPanics(t, func() {
		s.RunDailyReport(ctx, time.Now().UTC())
	})
}
