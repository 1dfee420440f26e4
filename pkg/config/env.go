package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSessionSecret = "SESSION_SECRET"
	EnvSessionName   = "SESSION_NAME"

	EnvAdminStudentID = "ADMIN_STUDENT_ID"

	EnvDailyQuotaMinutes   = "DAILY_QUOTA_MINUTES"
	EnvDefaultRoomCount    = "DEFAULT_ROOM_COUNT"
	EnvDefaultRoomCapacity = "DEFAULT_ROOM_CAPACITY"
	EnvSlotLockTTL         = "SLOT_LOCK_TTL"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
