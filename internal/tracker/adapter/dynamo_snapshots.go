package adapter

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okolari/tracktimer/internal/dynamo"
	"github.com/okolari/tracktimer/internal/tracker/app"
)

// Compile-time check: DynamoSnapshotStore satisfies app.SnapshotStore.
var _ app.SnapshotStore = (*DynamoSnapshotStore)(nil)

// snapshotDynamoDB is a narrow, consumer-defined interface for the DynamoDB
// operations the snapshot store requires. The *dynamodb.Client satisfies it.
type snapshotDynamoDB interface {
	GetItem(ctx context.Context, params *dynamo.GetItemInput, optFns ...func(*dynamo.Options)) (*dynamo.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamo.PutItemInput, optFns ...func(*dynamo.Options)) (*dynamo.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamo.DeleteItemInput, optFns ...func(*dynamo.Options)) (*dynamo.DeleteItemOutput, error)
}

// snapshotItem is the DynamoDB item shape for the snapshots table.
type snapshotItem struct {
	SnapshotKey      string `dynamodbav:"snapshot_key"`
	StartTimeEpochMs int64  `dynamodbav:"start_time_epoch_ms"`
	ElapsedMs        int64  `dynamodbav:"elapsed_ms"`
	Running          bool   `dynamodbav:"running"`
	TaskID           string `dynamodbav:"task_id"`
	SavedAtMs        int64  `dynamodbav:"saved_at_ms"`
	TTL              int64  `dynamodbav:"ttl"`
}

// DynamoSnapshotStore persists the timer snapshot as a single item keyed by
// snapshot key. Saves are unconditional overwrites (last-write-wins, same
// contract as the Redis store) and stamp a TTL attribute one restore window
// past the save instant so DynamoDB reaps stale items.
type DynamoSnapshotStore struct {
	db        snapshotDynamoDB
	tableName string
	key       string
	maxAge    time.Duration
}

// NewDynamoSnapshotStore creates a store writing to the given table under
// the given snapshot key.
func NewDynamoSnapshotStore(db snapshotDynamoDB, tableName, key string, maxAge time.Duration) *DynamoSnapshotStore {
	return &DynamoSnapshotStore{
		db:        db,
		tableName: tableName,
		key:       key,
		maxAge:    maxAge,
	}
}

// Load retrieves the snapshot with a strongly consistent read.
// Returns (nil, nil) when no item exists.
func (s *DynamoSnapshotStore) Load(ctx context.Context) (*app.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "dynamo.snapshots.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "dynamodb"),
		attribute.String("db.operation", "GetItem"),
	)

	out, err := s.db.GetItem(ctx, &dynamo.GetItemInput{
		TableName:      &s.tableName,
		Key:            s.keyAttributes(),
		ConsistentRead: dynamo.Bool(true),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load snapshot %q: %w", s.key, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item snapshotItem
	if err := dynamo.UnmarshalMap(out.Item, &item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode snapshot %q: %w", s.key, err)
	}

	return &app.Snapshot{
		StartTimeEpochMs: item.StartTimeEpochMs,
		ElapsedMs:        item.ElapsedMs,
		Running:          item.Running,
		TaskID:           item.TaskID,
		SavedAtMs:        item.SavedAtMs,
	}, nil
}

// Save overwrites the snapshot item.
func (s *DynamoSnapshotStore) Save(ctx context.Context, snap app.Snapshot) error {
	ctx, span := tracer.Start(ctx, "dynamo.snapshots.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "dynamodb"),
		attribute.String("db.operation", "PutItem"),
	)

	item := snapshotItem{
		SnapshotKey:      s.key,
		StartTimeEpochMs: snap.StartTimeEpochMs,
		ElapsedMs:        snap.ElapsedMs,
		Running:          snap.Running,
		TaskID:           snap.TaskID,
		SavedAtMs:        snap.SavedAtMs,
		TTL:              (snap.SavedAtMs + s.maxAge.Milliseconds()) / 1000,
	}

	av, err := dynamo.MarshalMap(item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("encode snapshot %q: %w", s.key, err)
	}

	if _, err := s.db.PutItem(ctx, &dynamo.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save snapshot %q: %w", s.key, err)
	}

	return nil
}

// Clear deletes the snapshot item. Deleting an absent item is not an error.
func (s *DynamoSnapshotStore) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "dynamo.snapshots.clear")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "dynamodb"),
		attribute.String("db.operation", "DeleteItem"),
	)

	if _, err := s.db.DeleteItem(ctx, &dynamo.DeleteItemInput{
		TableName: &s.tableName,
		Key:       s.keyAttributes(),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("clear snapshot %q: %w", s.key, err)
	}

	return nil
}

func (s *DynamoSnapshotStore) keyAttributes() map[string]dynamo.AttributeValue {
	return map[string]dynamo.AttributeValue{
		"snapshot_key": &dynamo.AttributeValueMemberS{Value: s.key},
	}
}
