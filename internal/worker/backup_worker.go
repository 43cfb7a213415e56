package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// BackupTimeout bounds one scheduled backup run.
const BackupTimeout = 10 * time.Minute

// BackupUploader is the service the worker drives.
type BackupUploader interface {
	Upload(ctx context.Context) (*service.BackupInfo, error)
}

// BackupWorker uploads a complete backup on a cron schedule.
type BackupWorker struct {
	backups BackupUploader
	spec    string
	log     zerolog.Logger
}

func NewBackupWorker(backups BackupUploader, spec string, log zerolog.Logger) *BackupWorker {
	return &BackupWorker{
		backups: backups,
		spec:    spec,
		log:     log.With().Str("component", "backup_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Scheduler loop
// ----------------------------------------------------------------

// Start runs the schedule until ctx is cancelled. Overlapping runs are skipped.
func (w *BackupWorker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", w.spec, err)
	}

	c.Start()
	w.log.Info().Str("schedule", w.spec).Msg("BackupWorker started")

	<-ctx.Done()
	w.log.Info().Msg("Shutdown requested. Waiting for running backup...")
	<-c.Stop().Done()
	return nil
}

// RunOnce performs a single backup. Errors are logged only.
func (w *BackupWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, BackupTimeout)
	defer cancel()

	start := time.Now()
	info, err := w.backups.Upload(runCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("scheduled backup failed")
		return
	}
	w.log.Info().Str("key", info.Key).Int("bytes", info.Size).Dur("took", time.Since(start)).Msg("scheduled backup complete")
}
