// Package adapter contains implementations of interfaces defined in app:
// the Redis, DynamoDB, and in-memory snapshot stores and the writer-backed
// display sink.
package adapter

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("tracker/adapter")
