package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	Put(ctx context.Context, in Record) error
	Get(ctx context.Context, key string) (Record, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, filter RecordListFilter) ([]Record, error)
	// Apply runs every put and delete of the batch in one transaction.
	Apply(ctx context.Context, batch Batch) error
}
