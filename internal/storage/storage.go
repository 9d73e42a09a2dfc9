package storage

import (
	"context"

	"weightedQuote/internal/model"
)

// AccountSink defines a sink for raw account records.
type AccountSink interface {
	PutAccountBatch(records []model.AccountRecord) error
}

// SnapshotSink defines a sink for decoded pool snapshots.
type SnapshotSink interface {
	PutSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error
}
