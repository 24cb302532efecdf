package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
	"github.com/polkiloo/tablepay/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]usecase.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CheckoutItem{MenuID: it.MenuID, Quantity: it.Quantity})
	}

	order, session, err := h.facade.Checkout(c.Request.Context(), usecase.CheckoutInput{
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		OrderType:     model.OrderType(req.OrderType),
		TableID:       req.TableID,
		TableNumber:   req.TableNumber,
		Items:         items,
	})
	if err != nil {
		if order != nil {
			// The order exists locally; the gateway session failed and can
			// be retried through a status check later.
			c.JSON(http.StatusBadGateway, dto.CheckoutResponse{Order: toOrderResponse(*order)})
			return
		}
		writeError(c, err)
		return
	}

	response := dto.CheckoutResponse{Order: toOrderResponse(*order)}
	if session != nil {
		response.Payment = &dto.PaymentSessionResponse{
			Token:       session.Token,
			RedirectURL: session.RedirectURL,
		}
	}
	c.JSON(http.StatusCreated, response)
}

// Detail handles GET /api/orders/:code.
func (h *OrderHandler) Detail(c *gin.Context) {
	order, err := h.facade.OrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	afterID, _ := strconv.ParseInt(c.Query("after_id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, watermark, err := h.facade.OrdersAfter(c.Request.Context(), afterID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.OrderListResponse{
		Orders:    make([]dto.OrderResponse, 0, len(orders)),
		Watermark: watermark,
	}
	for _, o := range orders {
		response.Orders = append(response.Orders, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}
