package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUploader struct {
	runs atomic.Int32
	err  error
}

func (u *countingUploader) Upload(context.Context) (*service.BackupInfo, error) {
	u.runs.Add(1)
	if u.err != nil {
		return nil, u.err
	}
	return &service.BackupInfo{Key: "backups/x.zip"}, nil
}

func TestBackupWorkerRejectsBadSchedule(t *testing.T) {
	w := NewBackupWorker(&countingUploader{}, "not a cron", zerolog.Nop())
	err := w.Start(context.Background())
	assert.ErrorContains(t, err, "invalid backup schedule")
}

func TestBackupWorkerRunOnce(t *testing.T) {
	up := &countingUploader{}
	w := NewBackupWorker(up, "@daily", zerolog.Nop())

	w.RunOnce(context.Background())
	assert.Equal(t, int32(1), up.runs.Load())

	up.err = errors.New("s3 down")
	w.RunOnce(context.Background())
	assert.Equal(t, int32(2), up.runs.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.RunOnce(ctx)
	assert.Equal(t, int32(2), up.runs.Load())
}

func TestBackupWorkerStopsOnCancel(t *testing.T) {
	w := NewBackupWorker(&countingUploader{}, "@hourly", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
