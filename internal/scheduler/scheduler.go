// Package scheduler fires the periodic report and digest dispatches.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"fintel/internal/config"
	"fintel/internal/metrics"
	"fintel/internal/model"
	"fintel/internal/service"
)

// Trigger names used in logs and metrics.
const (
	TriggerDailyReport  = "daily-report"
	TriggerDailyDigest  = "daily-digest"
	TriggerWeeklyReport = "weekly-report"
)

// Scheduler runs the named cron triggers. Jobs run on the cron goroutine;
// a failing job is logged and never stops subsequent firings.
type Scheduler struct {
	notify  service.NotificationService
	cfg     config.SchedulerConfig
	metrics *metrics.Metrics
	log     zerolog.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// New constructs a Scheduler. Start must be called to arm the triggers.
func New(notify service.NotificationService, cfg config.SchedulerConfig, m *metrics.Metrics, log zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}
	return &Scheduler{
		notify:  notify,
		cfg:     cfg,
		metrics: m,
		log:     log,
		cron:    cron.New(cron.WithLocation(loc)),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Start registers the triggers and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	triggers := []struct {
		name string
		spec string
		run  func(context.Context, time.Time)
	}{
		{TriggerDailyReport, s.cfg.DailyReportAt, s.RunDailyReport},
		{TriggerDailyDigest, s.cfg.DailyDigestAt, s.RunDailyDigest},
		{TriggerWeeklyReport, s.cfg.WeeklyReportAt, s.RunWeeklyReport},
	}
	for _, t := range triggers {
		t := t
		if _, err := s.cron.AddFunc(t.spec, func() { t.run(ctx, s.now()) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", t.name, t.spec, err)
		}
		s.log.Info().Str("trigger", t.name).Str("spec", t.spec).Msg("trigger scheduled")
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for any running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunDailyReport dispatches the anomaly report to the configured team.
func (s *Scheduler) RunDailyReport(ctx context.Context, now time.Time) {
	results, err := s.notify.DispatchReport(ctx)
	s.finish(TriggerDailyReport, now, results, err)
}

// RunDailyDigest dispatches the daily digest.
func (s *Scheduler) RunDailyDigest(ctx context.Context, now time.Time) {
	results, err := s.notify.DispatchDigest(ctx, now, model.PeriodDaily)
	s.finish(TriggerDailyDigest, now, results, err)
}

// RunWeeklyReport dispatches the weekly digest rollup.
func (s *Scheduler) RunWeeklyReport(ctx context.Context, now time.Time) {
	results, err := s.notify.DispatchDigest(ctx, now, model.PeriodWeekly)
	s.finish(TriggerWeeklyReport, now, results, err)
}

func (s *Scheduler) finish(trigger string, now time.Time, results []model.RecipientResult, err error) {
	if err != nil {
		s.metrics.SchedulerRuns.WithLabelValues(trigger, "error").Inc()
		s.log.Error().Err(err).Str("trigger", trigger).Msg("scheduled dispatch failed")
		return
	}
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	status := "success"
	if failed > 0 {
		status = "partial"
	}
	s.metrics.SchedulerRuns.WithLabelValues(trigger, status).Inc()
	s.log.Info().
		Str("trigger", trigger).
		Time("fired_at", now).
		Int("recipients", len(results)).
		Int("failed", failed).
		Msg("scheduled dispatch completed")
}
