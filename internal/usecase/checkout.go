package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// CheckoutItem references a catalog entry by id; the unit price is
// snapshotted server-side at creation time.
type CheckoutItem struct {
	MenuID   int64
	Quantity int
}

// CheckoutInput carries the fields of a new order request.
type CheckoutInput struct {
	CustomerName  string
	Notes         string
	PaymentMethod model.PaymentMethod
	OrderType     model.OrderType
	TableID       *int64
	TableNumber   int
	Items         []CheckoutItem
}

// CheckoutUseCase registers new orders and, for transfer payments, opens a
// payment session at the gateway.
type CheckoutUseCase struct {
	orders repository.OrderRepository
	menus  repository.MenuRepository
	tables repository.TableRepository
	gw     PaymentGateway
	logger *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, menus repository.MenuRepository, tables repository.TableRepository, gw PaymentGateway, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, menus: menus, tables: tables, gw: gw, logger: logger}
}

// Create validates the input, snapshots menu prices, registers the order
// with status PENDING, and for TRANSFER orders creates the gateway
// transaction. When the gateway call fails the order is still returned:
// it exists locally and the payment can be retried.
func (u *CheckoutUseCase) Create(ctx context.Context, in CheckoutInput) (*model.Order, *model.PaymentSession, error) {
	if err := u.validate(ctx, in); err != nil {
		return nil, nil, err
	}

	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.MenuID)
	}
	catalog, err := u.menus.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	var total float64
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		menu, ok := catalog[it.MenuID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown menu %d", domainErrors.ErrValidation, it.MenuID)
		}
		if !menu.Available {
			return nil, nil, fmt.Errorf("%w: menu %q is not available", domainErrors.ErrValidation, menu.Name)
		}
		items = append(items, model.OrderItem{
			MenuID:   menu.ID,
			Name:     menu.Name,
			Quantity: it.Quantity,
			Price:    menu.Price,
		})
		total += menu.Price * float64(it.Quantity)
	}

	order, err := u.orders.Create(ctx, repository.OrderDraft{
		OrderCode:     newOrderCode(),
		CustomerName:  in.CustomerName,
		Notes:         in.Notes,
		TotalPrice:    total,
		PaymentMethod: in.PaymentMethod,
		OrderType:     in.OrderType,
		TableID:       in.TableID,
		TableNumber:   in.TableNumber,
		Items:         items,
	})
	if err != nil {
		return nil, nil, err
	}

	if in.PaymentMethod != model.PaymentMethodTransfer {
		return order, nil, nil
	}

	session, err := u.gw.CreateTransaction(ctx, gateway.CreateTransactionRequest{
		OrderCode:    order.OrderCode,
		GrossAmount:  order.TotalPrice,
		CustomerName: order.CustomerName,
		Items:        order.Items,
	})
	if err != nil {
		u.logger.Error("create gateway transaction failed",
			slog.String("order_code", order.OrderCode), slog.String("error", err.Error()))
		return order, nil, fmt.Errorf("create gateway transaction: %w", err)
	}
	return order, session, nil
}

// GetByCode returns the order with its items.
func (u *CheckoutUseCase) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	return u.orders.GetByCode(ctx, code)
}

// ListAfter returns orders past the given watermark together with the new
// watermark, so clients can detect new orders without server-side state.
func (u *CheckoutUseCase) ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.orders.ListAfter(ctx, afterID, limit)
}

func (u *CheckoutUseCase) validate(ctx context.Context, in CheckoutInput) error {
	if in.CustomerName == "" {
		return fmt.Errorf("%w: customer name required", domainErrors.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", domainErrors.ErrValidation)
		}
	}
	switch in.PaymentMethod {
	case model.PaymentMethodCash, model.PaymentMethodTransfer:
	default:
		return fmt.Errorf("%w: unknown payment method %q", domainErrors.ErrValidation, in.PaymentMethod)
	}
	switch in.OrderType {
	case model.OrderTypeDineIn:
		if in.TableID == nil {
			return fmt.Errorf("%w: dine-in order requires a table", domainErrors.ErrValidation)
		}
		if _, err := u.tables.GetByID(ctx, *in.TableID); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return fmt.Errorf("%w: table %d does not exist", domainErrors.ErrValidation, *in.TableID)
			}
			return err
		}
	case model.OrderTypeTakeAway:
	default:
		return fmt.Errorf("%w: unknown order type %q", domainErrors.ErrValidation, in.OrderType)
	}
	return nil
}

func newOrderCode() string {
	return "ORD-" + uuid.NewString()
}
