package domain

import "time"

// Compiled defaults. Timer-facing values can be overridden via configuration.
const (
	// Timer behavior
	TickInterval    = 1 * time.Second // display refresh cadence while running
	SnapshotMaxAge  = 24 * time.Hour  // snapshots older than this are never restored
	MaxTaskIDLength = 128             // max length for externally supplied task IDs

	// Snapshot storage
	DefaultSnapshotKey = "timer_snapshot" // the single shared key-value slot

	// Timeout contracts for store operations
	RedisTimeout    = 2 * time.Second // max time for Redis operations
	DynamoDBTimeout = 5 * time.Second // max time for DynamoDB operations

	// Graceful shutdown budgets
	GracefulShutdownTimeout = 30 * time.Second       // total drain budget
	ShutdownDrainDelay      = 500 * time.Millisecond // let LBs see the 503 first
	ShutdownHTTPTimeout     = 10 * time.Second       // HTTP server drain
	ShutdownOTELTimeout     = 5 * time.Second        // OTEL flush
)
