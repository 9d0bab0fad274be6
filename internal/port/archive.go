package port

import (
	"context"

	"gstledger/internal/domain"
)

// ReturnArchive keeps the JSON copy of every submitted return outside the
// database. Keys are opaque to callers and stored with the submission.
type ReturnArchive interface {
	// Put writes the snapshot for a filed period and returns its key.
	Put(ctx context.Context, period domain.ReturnPeriod, arn string, snapshot []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// Remove drops an archive whose submission row was never committed.
	Remove(ctx context.Context, key string) error
	// URL returns a time-limited download link for the archive.
	URL(ctx context.Context, key string) (string, error)
}
