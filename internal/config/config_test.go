package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "")
	t.Setenv("BACKUP_S3_PREFIX", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "backups", cfg.BackupS3Prefix)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxRestoreBytes)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "0")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("BACKUP_S3_PREFIX", "/nightly/")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, time.Duration(0), cfg.ReportCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "nightly", cfg.BackupS3Prefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "-5")

	assert.Equal(t, 16, getEnvInt("MAX_DB_CONNS", 16))
	assert.Equal(t, time.Minute, getEnvDuration("REPORT_CACHE_TTL_SECONDS", time.Minute))
}

func TestBackupToS3Enabled(t *testing.T) {
	cfg := &Config{BackupS3Bucket: "bucket"}
	assert.False(t, cfg.BackupToS3Enabled())

	cfg.AWSRegion = "ap-south-1"
	assert.True(t, cfg.BackupToS3Enabled())
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "report:v3:attendance:abc", CacheKey.AttendanceReportKey(3, "abc"))
	assert.Equal(t, "attendance:class:12", CacheKey.AttendanceChannel(12))
}
