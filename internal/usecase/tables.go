package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// TableUseCase covers operator management of physical tables. Occupy and
// release are never exposed here: they are side effects of order
// transitions, owned by the reconciliation engine.
type TableUseCase struct {
	tables repository.TableRepository
}

// NewTableUseCase constructs TableUseCase.
func NewTableUseCase(tables repository.TableRepository) *TableUseCase {
	return &TableUseCase{tables: tables}
}

// Create registers a new table.
func (u *TableUseCase) Create(ctx context.Context, name string) (*model.Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: table name required", domainErrors.ErrValidation)
	}
	return u.tables.Create(ctx, name)
}

// List returns all tables.
func (u *TableUseCase) List(ctx context.Context) ([]model.Table, error) {
	return u.tables.List(ctx)
}

// Delete removes a table unless an active order still references it.
func (u *TableUseCase) Delete(ctx context.Context, id int64) error {
	return u.tables.Delete(ctx, id)
}

// Override applies a constrained admin status change. OCCUPIED is derived
// state and cannot be set by hand.
func (u *TableUseCase) Override(ctx context.Context, id int64, status model.TableStatus) error {
	if !model.ValidOverride(status) {
		return fmt.Errorf("%w: status %q cannot be set manually", domainErrors.ErrValidation, status)
	}
	return u.tables.Override(ctx, id, status)
}
