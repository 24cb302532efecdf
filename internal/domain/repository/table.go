package repository

import (
	"context"

	"github.com/polkiloo/tablepay/internal/domain/model"
)

// TableRepository guards occupy/release of physical tables.
type TableRepository interface {
	Create(ctx context.Context, name string) (*model.Table, error)
	GetByID(ctx context.Context, id int64) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	// Delete removes a table; fails with ErrConflict while an active order
	// still references it.
	Delete(ctx context.Context, id int64) error
	// Occupy sets OCCUPIED unconditionally; the caller has already
	// established that an active dine-in order holds the table.
	Occupy(ctx context.Context, id int64) error
	// Release sets AVAILABLE only after re-checking that no active order
	// still references the table.
	Release(ctx context.Context, id int64) error
	// Override applies a constrained admin status change.
	Override(ctx context.Context, id int64, status model.TableStatus) error
}
