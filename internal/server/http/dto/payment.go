package dto

// NotificationRequest mirrors the gateway's push payload.
type NotificationRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	SettlementTime    string `json:"settlement_time"`
}

// NotificationResponse is the unconditional webhook acknowledgment.
type NotificationResponse struct {
	Status string `json:"status"`
}

// StatusCheckResponse reports one order's status against the gateway.
type StatusCheckResponse struct {
	OrderCode     string `json:"order_code"`
	DBStatus      string `json:"db_status"`
	GatewayStatus string `json:"gateway_status,omitempty"`
	MappedStatus  string `json:"mapped_status"`
	SyncResult    string `json:"sync_result"`
}

// BatchSyncEntry is one order's result in a batch sync response.
type BatchSyncEntry struct {
	OrderCode string `json:"order_code"`
	Synced    bool   `json:"synced"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchSyncResponse summarizes a batch sync run.
type BatchSyncResponse struct {
	Processed int              `json:"processed"`
	Results   []BatchSyncEntry `json:"results"`
}

// CashActionRequest identifies the order for a manual cash action.
type CashActionRequest struct {
	OrderCode string `json:"order_code" binding:"required"`
	Reason    string `json:"reason"`
}

// CashActionResponse reports the order status after a cash action.
type CashActionResponse struct {
	Success   bool   `json:"success"`
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}

// ExpiryEntryResponse is one order's result in an expiry sweep response.
type ExpiryEntryResponse struct {
	OrderCode string `json:"order_code"`
	Expired   bool   `json:"expired"`
	Error     string `json:"error,omitempty"`
}

// ExpirySweepResponse summarizes an expiry sweep run.
type ExpirySweepResponse struct {
	Processed int                   `json:"processed"`
	Results   []ExpiryEntryResponse `json:"results"`
}

// ExpiryStatusResponse reports one order's expiry state.
type ExpiryStatusResponse struct {
	OrderCode            string   `json:"order_code"`
	Status               string   `json:"status"`
	TimeRemainingSeconds *float64 `json:"time_remaining_seconds,omitempty"`
	Expired              bool     `json:"expired"`
}

// ErrorResponse carries a descriptive message for 4xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
