package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fintel/internal/mailer"
	"fintel/internal/metrics"
	"fintel/internal/model"
	"fintel/internal/storage"
)

// ErrNoRecipients is returned when a batch dispatch has nobody to send to.
var ErrNoRecipients = errors.New("no recipients configured")

// NotificationService dispatches reports, digests and alerts. Batch sends
// go to each recipient independently and sequentially; one failure never
// aborts the rest of the batch.
type NotificationService interface {
	SendReport(ctx context.Context, to string, data model.ReportData) (string, error)
	SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error)
	SendAlert(ctx context.Context, to string, data model.AlertData) (string, error)

	// SendImmediateReport builds the current report and dispatches it to
	// the given recipients, defaulting to the configured team.
	SendImmediateReport(ctx context.Context, emails []string) ([]model.RecipientResult, error)

	// DispatchReport and DispatchDigest back the scheduled triggers.
	DispatchReport(ctx context.Context) ([]model.RecipientResult, error)
	DispatchDigest(ctx context.Context, now time.Time, period string) ([]model.RecipientResult, error)

	// Test verifies the mail transport configuration.
	Test(ctx context.Context) error
}

type notificationService struct {
	mail       mailer.Mailer
	digests    DigestService
	archive    storage.Archive
	recipients []string
	metrics    *metrics.Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewNotificationService constructs a NotificationService. archive may be
// nil when no object store is configured; dispatched payloads are then not
// archived.
func NewNotificationService(
	mail mailer.Mailer,
	digests DigestService,
	archive storage.Archive,
	recipients []string,
	m *metrics.Metrics,
	log zerolog.Logger,
) NotificationService {
	return &notificationService{
		mail:       mail,
		digests:    digests,
		archive:    archive,
		recipients: recipients,
		metrics:    m,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) SendReport(ctx context.Context, to string, data model.ReportData) (string, error) {
	id, err := s.mail.SendReport(ctx, to, data)
	s.metrics.EmailsSent.WithLabelValues("report", outcome(err)).Inc()
	return id, err
}

func (s *notificationService) SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error) {
	id, err := s.mail.SendDigest(ctx, to, data)
	s.metrics.EmailsSent.WithLabelValues("digest", outcome(err)).Inc()
	return id, err
}

func (s *notificationService) SendAlert(ctx context.Context, to string, data model.AlertData) (string, error) {
	id, err := s.mail.SendAlert(ctx, to, data)
	s.metrics.EmailsSent.WithLabelValues("alert", outcome(err)).Inc()
	return id, err
}

func (s *notificationService) SendImmediateReport(ctx context.Context, emails []string) ([]model.RecipientResult, error) {
	if len(emails) == 0 {
		emails = s.recipients
	}
	if len(emails) == 0 {
		return nil, ErrNoRecipients
	}
	report := s.digests.BuildReport(ctx)
	s.archiveReport(ctx, report)
	return s.fanOutReport(ctx, emails, report), nil
}

func (s *notificationService) DispatchReport(ctx context.Context) ([]model.RecipientResult, error) {
	if len(s.recipients) == 0 {
		return nil, ErrNoRecipients
	}
	report := s.digests.BuildReport(ctx)
	s.archiveReport(ctx, report)
	return s.fanOutReport(ctx, s.recipients, report), nil
}

func (s *notificationService) DispatchDigest(ctx context.Context, now time.Time, period string) ([]model.RecipientResult, error) {
	if len(s.recipients) == 0 {
		return nil, ErrNoRecipients
	}
	digest := s.digests.BuildDigest(ctx, now, period)

	if s.archive != nil {
		if key, err := s.archive.SaveDigest(ctx, digest); err != nil {
			s.log.Warn().Err(err).Msg("digest archive failed")
		} else {
			s.log.Debug().Str("key", key).Msg("digest archived")
		}
	}

	results := make([]model.RecipientResult, 0, len(s.recipients))
	for _, email := range s.recipients {
		_, err := s.SendDigest(ctx, email, *digest)
		results = append(results, recipientResult(email, err))
	}
	return results, nil
}

func (s *notificationService) Test(ctx context.Context) error {
	return s.mail.Verify(ctx)
}

func (s *notificationService) fanOutReport(ctx context.Context, emails []string, report *model.ReportData) []model.RecipientResult {
	results := make([]model.RecipientResult, 0, len(emails))
	for _, email := range emails {
		_, err := s.SendReport(ctx, email, *report)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("report send failed")
		}
		results = append(results, recipientResult(email, err))
	}
	return results
}

func (s *notificationService) archiveReport(ctx context.Context, report *model.ReportData) {
	if s.archive == nil {
		return
	}
	if key, err := s.archive.SaveReport(ctx, report, s.now()); err != nil {
		s.log.Warn().Err(err).Msg("report archive failed")
	} else {
		s.log.Debug().Str("key", key).Msg("report archived")
	}
}

func recipientResult(email string, err error) model.RecipientResult {
	res := model.RecipientResult{Email: email, Success: err == nil}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
