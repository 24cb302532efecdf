package gateway

import "github.com/polkiloo/tablepay/internal/domain/model"

// Translate maps a gateway transaction status and fraud status to the
// canonical order status. A fraud status of deny or challenge forces FAILED
// regardless of the transaction status. The second return value is false
// for unrecognized statuses, which default to PENDING; callers must log
// that as an anomaly rather than drop it.
func Translate(transactionStatus, fraudStatus string) (model.OrderStatus, bool) {
	switch fraudStatus {
	case "deny", "challenge":
		return model.OrderStatusFailed, true
	}

	switch transactionStatus {
	case "capture", "settlement":
		return model.OrderStatusSuccess, true
	case "pending":
		return model.OrderStatusPending, true
	case "expire":
		return model.OrderStatusExpired, true
	case "deny", "cancel":
		return model.OrderStatusFailed, true
	case "refund", "partial_refund":
		return model.OrderStatusRefunded, true
	default:
		return model.OrderStatusPending, false
	}
}
