package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
)

// CashHandler manages operator endpoints for cash settlement.
type CashHandler struct {
	facade CashFacade
}

// NewCashHandler constructs CashHandler.
func NewCashHandler(facade CashFacade) *CashHandler {
	return &CashHandler{facade: facade}
}

// Confirm handles POST /api/payments/cash/confirm.
func (h *CashHandler) Confirm(c *gin.Context) {
	h.action(c, func(ctx context.Context, code, _ string) (*repository.TransitionResult, error) {
		return h.facade.ConfirmCash(ctx, code)
	})
}

// Reject handles POST /api/payments/cash/reject.
func (h *CashHandler) Reject(c *gin.Context) {
	h.action(c, h.facade.RejectCash)
}

func (h *CashHandler) action(c *gin.Context, fn func(ctx context.Context, code, reason string) (*repository.TransitionResult, error)) {
	var req dto.CashActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := fn(c.Request.Context(), req.OrderCode, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CashActionResponse{
		Success:   true,
		OrderCode: req.OrderCode,
		Status:    string(result.To),
	})
}
