package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/server/http/dto"
)

// ExpiryHandler manages operator endpoints for cash expiry.
type ExpiryHandler struct {
	facade ExpiryFacade
}

// NewExpiryHandler constructs ExpiryHandler.
func NewExpiryHandler(facade ExpiryFacade) *ExpiryHandler {
	return &ExpiryHandler{facade: facade}
}

// Sweep handles POST /api/payments/expiry/sweep.
func (h *ExpiryHandler) Sweep(c *gin.Context) {
	report, err := h.facade.SweepExpired(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.ExpirySweepResponse{
		Processed: report.Processed,
		Results:   make([]dto.ExpiryEntryResponse, 0, len(report.Results)),
	}
	for _, entry := range report.Results {
		response.Results = append(response.Results, dto.ExpiryEntryResponse{
			OrderCode: entry.OrderCode,
			Expired:   entry.Expired,
			Error:     entry.Err,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Status handles GET /api/payments/expiry/:code.
func (h *ExpiryHandler) Status(c *gin.Context) {
	status, err := h.facade.ExpiryStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.ExpiryStatusResponse{
		OrderCode: status.OrderCode,
		Status:    string(status.Status),
		Expired:   status.Expired,
	}
	if status.TimeRemaining != nil {
		seconds := status.TimeRemaining.Seconds()
		response.TimeRemainingSeconds = &seconds
	}
	c.JSON(http.StatusOK, response)
}
