package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
)

// writeError maps a domain error onto an HTTP status with a JSON body.
func writeError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), dto.ErrorResponse{Error: err.Error()})
}

func errorStatus(err error) int {
	var unavailable gateway.UnavailableError
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderItemResponse{
			MenuID:   it.MenuID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return dto.OrderResponse{
		ID:             order.ID,
		OrderCode:      order.OrderCode,
		CustomerName:   order.CustomerName,
		Notes:          order.Notes,
		TotalPrice:     order.TotalPrice,
		Status:         string(order.Status),
		PaymentMethod:  string(order.PaymentMethod),
		PaymentType:    order.PaymentType,
		TransactionID:  order.TransactionID,
		SettlementTime: order.SettlementTime,
		TableID:        order.TableID,
		TableNumber:    order.TableNumber,
		OrderType:      string(order.OrderType),
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
