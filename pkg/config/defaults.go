package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "studyroom"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultSessionName = "studyroom-session"

	// DefaultAdminStudentID preserves the sentinel the legacy deployment used,
	// so existing admin accounts keep working when no override is configured.
	DefaultAdminStudentID = "관리자1234"

	DefaultDailyQuotaMinutes   = 240
	DefaultDefaultRoomCount    = 6
	DefaultDefaultRoomCapacity = 4
	DefaultSlotLockTTL         = 10 * time.Second

	DefaultKafkaTopic = "studyroom.events"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
