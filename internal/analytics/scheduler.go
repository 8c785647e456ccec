package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultSchedule runs five minutes after local midnight. Format is
// second minute hour day month weekday.
const DefaultSchedule = "0 5 0 * * *"

// Scheduler runs the nightly rollup
type Scheduler struct {
	cron   *cron.Cron
	rollup *Rollup
	spec   string
	logger log.FieldLogger
}

// NewScheduler creates a scheduler evaluating spec in the rollup's time zone
func NewScheduler(rollup *Rollup, spec string, logger log.FieldLogger) *Scheduler {
	if spec == "" {
		spec = DefaultSchedule
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(rollup.loc)),
		rollup: rollup,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the nightly job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.nightlyJob); err != nil {
		return fmt.Errorf("failed to schedule analytics rollup: %w", err)
	}
	s.cron.Start()
	s.logger.WithField("schedule", s.spec).Info("Analytics rollup scheduled")
	return nil
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Analytics rollup scheduler stopped")
}

// Next returns the next planned run, zero before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// nightlyJob finalises yesterday and opens today's snapshot
func (s *Scheduler) nightlyJob() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	today := s.rollup.now()
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		if _, err := s.rollup.SyncDay(ctx, day); err != nil {
			s.logger.WithError(err).WithField("date", day.In(s.rollup.loc).Format("2006-01-02")).Error("Nightly analytics sync failed")
		}
	}

	s.logger.WithField("duration", time.Since(startTime).String()).Info("Nightly analytics rollup finished")
}
