package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
)

// PaymentHandler manages gateway-facing payment endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Notification handles POST /api/payments/notification. The gateway
// retries on any non-200, so the response is 200 regardless of how the
// event was handled; anomalies are recorded server-side instead.
func (h *PaymentHandler) Notification(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, dto.NotificationResponse{Status: "ok"})
		return
	}

	var req dto.NotificationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusOK, dto.NotificationResponse{Status: "ok"})
		return
	}

	ev := &model.GatewayEvent{
		OrderCode:         req.OrderID,
		TransactionStatus: req.TransactionStatus,
		FraudStatus:       req.FraudStatus,
		StatusCode:        req.StatusCode,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		TransactionID:     req.TransactionID,
		PaymentType:       req.PaymentType,
		SettlementTime:    gateway.ParseSettlementTime(req.SettlementTime),
		Raw:               raw,
	}

	_, _ = h.facade.IngestNotification(c.Request.Context(), ev)
	c.JSON(http.StatusOK, dto.NotificationResponse{Status: "ok"})
}

// Status handles GET /api/payments/status/:code.
func (h *PaymentHandler) Status(c *gin.Context) {
	result, err := h.facade.CheckOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusCheckResponse{
		OrderCode:     result.OrderCode,
		DBStatus:      string(result.DBStatus),
		GatewayStatus: result.GatewayStatus,
		MappedStatus:  string(result.MappedStatus),
		SyncResult:    result.Result,
	})
}

// BatchSync handles POST /api/payments/sync.
func (h *PaymentHandler) BatchSync(c *gin.Context) {
	report, err := h.facade.SyncPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.BatchSyncResponse{
		Processed: report.Processed,
		Results:   make([]dto.BatchSyncEntry, 0, len(report.Results)),
	}
	for _, entry := range report.Results {
		response.Results = append(response.Results, dto.BatchSyncEntry{
			OrderCode: entry.OrderCode,
			Synced:    entry.Synced,
			From:      string(entry.From),
			To:        string(entry.To),
			Error:     entry.Err,
		})
	}
	c.JSON(http.StatusOK, response)
}
