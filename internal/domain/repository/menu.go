package repository

import (
	"context"

	"github.com/polkiloo/tablepay/internal/domain/model"
)

// MenuRepository reads catalog entries for checkout price snapshots.
type MenuRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Menu, error)
	List(ctx context.Context) ([]model.Menu, error)
}
