package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrBackupUploadDisabled is returned when no S3 bucket is configured.
var ErrBackupUploadDisabled = errors.New("backup upload is not configured")

// SnapshotSource reads every table for a backup.
type SnapshotSource interface {
	Load(ctx context.Context) (*transfer.Snapshot, error)
}

// ObjectUploader is the subset of the S3 client used for backups.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// BackupInfo describes an uploaded backup archive.
type BackupInfo struct {
	Bucket    string         `json:"bucket"`
	Key       string         `json:"key"`
	Size      int            `json:"size"`
	Records   map[string]int `json:"records"`
	CreatedAt time.Time      `json:"createdAt"`
}

// BackupService builds complete backup archives and uploads them to S3.
type BackupService struct {
	source   SnapshotSource
	uploader ObjectUploader
	bucket   string
	prefix   string
	rdb      *redis.Client
	log      zerolog.Logger
	now      func() time.Time
}

// NewS3Client loads the default AWS credential chain for region.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewBackupService creates a new BackupService. A nil uploader disables uploads;
// a nil Redis client disables last-backup tracking.
func NewBackupService(source SnapshotSource, uploader ObjectUploader, cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *BackupService {
	return &BackupService{
		source:   source,
		uploader: uploader,
		bucket:   cfg.BackupS3Bucket,
		prefix:   cfg.BackupS3Prefix,
		rdb:      rdb,
		log:      log.With().Str("component", "backup_service").Logger(),
		now:      time.Now,
	}
}

// Build reads the store and encodes a complete backup archive.
func (s *BackupService) Build(ctx context.Context) (*transfer.Snapshot, string, []byte, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, "", nil, fmt.Errorf("load snapshot: %w", err)
	}
	now := s.now()
	data, err := transfer.EncodeBackup(snap, now)
	if err != nil {
		return nil, "", nil, fmt.Errorf("encode backup: %w", err)
	}
	return snap, transfer.BackupFileName(now), data, nil
}

// UploadEnabled reports whether Upload can run.
func (s *BackupService) UploadEnabled() bool {
	return s.uploader != nil && s.bucket != ""
}

// ObjectKey is the S3 key of a backup taken at t: prefix/YYYY/MM/attendance_backup_<ts>.zip.
func (s *BackupService) ObjectKey(t time.Time) string {
	t = t.UTC()
	name := fmt.Sprintf("attendance_backup_%s.zip", t.Format("20060102_150405"))
	return path.Join(s.prefix, t.Format("2006"), t.Format("01"), name)
}

// Upload builds a backup and stores it in S3.
func (s *BackupService) Upload(ctx context.Context) (*BackupInfo, error) {
	if !s.UploadEnabled() {
		return nil, ErrBackupUploadDisabled
	}
	snap, _, data, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := s.ObjectKey(now)
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}

	info := &BackupInfo{Bucket: s.bucket, Key: key, Size: len(data), Records: snap.Counts(), CreatedAt: now.UTC()}
	s.remember(ctx, info)
	s.log.Info().Str("key", key).Int("bytes", len(data)).Int("records", snap.Total()).Msg("backup uploaded")
	return info, nil
}

func (s *BackupService) remember(ctx context.Context, info *BackupInfo) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.LastBackupKey(), raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("failed to record last backup")
	}
}

// LastBackup returns the most recent uploaded backup, or nil when unknown.
func (s *BackupService) LastBackup(ctx context.Context) *BackupInfo {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.LastBackupKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("failed to read last backup")
		}
		return nil
	}
	var info BackupInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil
	}
	return &info
}
