package monitoring

import (
	"time"

	"github.com/juliebook/juliebook-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// BackupScheduler runs database backups on a cron schedule.
type BackupScheduler struct {
	backupService services.BackupServiceProvider
	schedule      cron.Schedule
	ticker        *time.Ticker
	done          chan bool
	nextRunAt     time.Time
}

// NewBackupScheduler creates a scheduler for the given standard 5-field cron
// expression.
func NewBackupScheduler(backupService services.BackupServiceProvider, cronExpr string) (*BackupScheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &BackupScheduler{
		backupService: backupService,
		schedule:      schedule,
		done:          make(chan bool),
		nextRunAt:     schedule.Next(time.Now()),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *BackupScheduler) Run() {
	log.Info().Time("next_run", s.nextRunAt).Msg("Starting backup scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping backup scheduler.")
			return
		case <-s.ticker.C:
			s.runIfDue()
		}
	}
}

// Stop halts the scheduler.
func (s *BackupScheduler) Stop() {
	s.done <- true
}

func (s *BackupScheduler) runIfDue() {
	now := time.Now()
	if now.Before(s.nextRunAt) {
		return
	}
	s.nextRunAt = s.schedule.Next(now)

	path, err := s.backupService.CreateBackup()
	if err != nil {
		log.Error().Err(err).Msg("Scheduled backup failed")
		return
	}
	log.Info().Str("path", path).Time("next_run", s.nextRunAt).Msg("Scheduled backup completed")
}
