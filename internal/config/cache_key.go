package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ReportVersionKey returns the counter bumped on every write that can change a report.
func (r *CacheKeyStruct) ReportVersionKey() string {
	return "report:version"
}

// AttendanceReportKey returns the cache key for a computed report at a given data version.
// digest identifies the filter and sort order.
func (r *CacheKeyStruct) AttendanceReportKey(version int64, digest string) string {
	return fmt.Sprintf("report:v%d:attendance:%s", version, digest)
}

// AttendanceChannel returns the Redis PubSub channel carrying live events for one class.
func (r *CacheKeyStruct) AttendanceChannel(classID int) string {
	return fmt.Sprintf("attendance:class:%d", classID)
}

// AttendanceAllChannel returns the Redis PubSub channel carrying every live attendance event.
func (r *CacheKeyStruct) AttendanceAllChannel() string {
	return "attendance:all"
}

// LastBackupKey returns the key holding metadata of the most recent scheduled backup.
func (r *CacheKeyStruct) LastBackupKey() string {
	return "backup:last"
}

var CacheKey = NewCacheKeyStruct()
