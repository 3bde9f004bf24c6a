package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mailmocks "fintel/internal/mailer/mocks"
	"fintel/internal/metrics"
	"fintel/internal/model"
	svcmocks "fintel/internal/service/mocks"
	storagemocks "fintel/internal/storage/mocks"
	"github.com/rs/zerolog"
)

type notifyFixture struct {
	mail    *mailmocks.MockMailer
	digests *svcmocks.MockDigestService
	archive *storagemocks.MockArchive
	svc     *notificationService
}

func newNotifyFixture(t *testing.T, recipients []string) *notifyFixture {
	t.Helper()
	f := &notifyFixture{
		mail:    new(mailmocks.MockMailer),
		digests: new(svcmocks.MockDigestService),
		archive: new(storagemocks.MockArchive),
	}
	svc := NewNotificationService(f.mail, f.digests, f.archive, recipients,
		metrics.NewNop(), zerolog.Nop()).(*notificationService)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC) }
	f.svc = svc
	return f
}

func TestNotificationService_DispatchReport_FailureIsolation(t *testing.T) {
	f := newNotifyFixture(t, []string{"a@corp.example", "b@corp.example", "c@corp.example"})
	ctx := context.Background()
	report := &model.ReportData{TotalAnomalies: 2, Period: "Last 30 Days"}

	f.digests.On("BuildReport", ctx).Return(report)
	f.archive.On("SaveReport", ctx, report, mock.Anything).Return("reports/x.json", nil)
	f.mail.On("SendReport", ctx, "a@corp.example", *report).Return("<id-1@fintel>", nil)
	f.mail.On("SendReport", ctx, "b@corp.example", *report).Return("", errors.New("mailbox unavailable"))
	f.mail.On("SendReport", ctx, "c@corp.example", *report).Return("<id-3@fintel>", nil)

	results, err := f.svc.DispatchReport(ctx)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "mailbox unavailable", results[1].Error)
	assert.True(t, results[2].Success)
	f.mail.AssertExpectations(t)
}

func TestNotificationService_DispatchDigest_Archives(t *testing.T) {
	f := newNotifyFixture(t, []string{"a@corp.example"})
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	digest := &model.DigestReport{Date: "2026-03-15", Period: model.PeriodDaily}

	f.digests.On("BuildDigest", ctx, now, model.PeriodDaily).Return(digest)
	f.archive.On("SaveDigest", ctx, digest).Return("digests/2026-03-15/daily.json", nil)
	f.mail.On("SendDigest", ctx, "a@corp.example", *digest).Return("<id-1@fintel>", nil)

	results, err := f.svc.DispatchDigest(ctx, now, model.PeriodDaily)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	f.archive.AssertExpectations(t)
}

func TestNotificationService_DispatchDigest_ArchiveFailureNonFatal(t *testing.T) {
	f := newNotifyFixture(t, []string{"a@corp.example"})
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	digest := &model.DigestReport{Date: "2026-03-15", Period: model.PeriodDaily}

	f.digests.On("BuildDigest", ctx, now, model.PeriodDaily).Return(digest)
	f.archive.On("SaveDigest", ctx, digest).Return("", errors.New("bucket unavailable"))
	f.mail.On("SendDigest", ctx, "a@corp.example", *digest).Return("<id-1@fintel>", nil)

	results, err := f.svc.DispatchDigest(ctx, now, model.PeriodDaily)

	require.NoError(t, err)
	assert.True(t, results[0].Success)
}

func TestNotificationService_SendImmediateReport(t *testing.T) {
	ctx := context.Background()
	report := &model.ReportData{Period: "Last 30 Days"}

	t.Run("explicit recipients", func(t *testing.T) {
		f := newNotifyFixture(t, []string{"team@corp.example"})
		f.digests.On("BuildReport", ctx).Return(report)
		f.archive.On("SaveReport", ctx, report, mock.Anything).Return("reports/x.json", nil)
		f.mail.On("SendReport", ctx, "ad-hoc@corp.example", *report).Return("<id@fintel>", nil)

		results, err := f.svc.SendImmediateReport(ctx, []string{"ad-hoc@corp.example"})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "ad-hoc@corp.example", results[0].Email)
		f.mail.AssertNotCalled(t, "SendReport", ctx, "team@corp.example", mock.Anything)
	})

	t.Run("defaults to configured team", func(t *testing.T) {
		f := newNotifyFixture(t, []string{"team@corp.example"})
		f.digests.On("BuildReport", ctx).Return(report)
		f.archive.On("SaveReport", ctx, report, mock.Anything).Return("reports/x.json", nil)
		f.mail.On("SendReport", ctx, "team@corp.example", *report).Return("<id@fintel>", nil)

		results, err := f.svc.SendImmediateReport(ctx, nil)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "team@corp.example", results[0].Email)
	})

	t.Run("no recipients anywhere", func(t *testing.T) {
		f := newNotifyFixture(t, nil)

		_, err := f.svc.SendImmediateReport(ctx, nil)

		assert.ErrorIs(t, err, ErrNoRecipients)
	})
}

func TestNotificationService_SendAlert(t *testing.T) {
	f := newNotifyFixture(t, nil)
	ctx := context.Background()
	alert := model.AlertData{AnomalyType: model.AnomalyDuplicateInvoice, InvoiceNumber: "INV-1"}

	f.mail.On("SendAlert", ctx, "ops@corp.example", alert).Return("<id@fintel>", nil)

	id, err := f.svc.SendAlert(ctx, "ops@corp.example", alert)

	assert.NoError(t, err)
	assert.Equal(t, "<id@fintel>", id)
}

func TestNotificationService_Test(t *testing.T) {
	f := newNotifyFixture(t, nil)
	ctx := context.Background()

	f.mail.On("Verify", ctx).Return(errors.New("auth failed"))

	assert.EqualError(t, f.svc.Test(ctx), "auth failed")
}
