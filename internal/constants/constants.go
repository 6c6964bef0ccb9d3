package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	APIMaxConnsPerHost     = 100
	APIReadTimeout         = 10 * time.Second
	APIWriteTimeout        = 10 * time.Second
	APIMaxIdleConnDuration = 1 * time.Minute
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	SessionCookieName    = "kirkit_session"
	SessionSweepInterval = 1 * time.Minute
)

const (
	SnapshotDateLayout = "2006-01-02"
	SnapshotListLimit  = 30
)

const (
	ShutdownTimeout = 5 * time.Second
)
