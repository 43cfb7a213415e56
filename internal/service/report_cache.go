package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ReportCache stores computed reports in Redis under a data version that every
// write bumps, so stale entries are never read and simply expire.
// A nil client disables caching and event publishing.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewReportCache creates a new ReportCache.
func NewReportCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ReportCache {
	return &ReportCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "report_cache").Logger(),
	}
}

func (c *ReportCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Version returns the current data version.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, config.CacheKey.ReportVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump invalidates every cached report. Failures are logged only.
func (c *ReportCache) Bump(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, config.CacheKey.ReportVersionKey()).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to bump report version")
	}
}

// Get decodes a cached value into dst. It reports whether a value was found.
func (c *ReportCache) Get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() || c.ttl <= 0 {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

// Set stores v for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, v any) {
	if !c.enabled() || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to encode report for cache")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}

// PublishAttendance fans an event out to the class channel and the global channel.
func (c *ReportCache) PublishAttendance(ctx context.Context, ev model.AttendanceEvent) {
	if !c.enabled() {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.Publish(ctx, config.CacheKey.AttendanceChannel(ev.ClassID), payload)
	pipe.Publish(ctx, config.CacheKey.AttendanceAllChannel(), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Int("class_id", ev.ClassID).Msg("failed to publish attendance event")
	}
}
