package model

import "fmt"

// TransitionOutcome classifies the result of applying a candidate status.
type TransitionOutcome string

const (
	TransitionUnchanged TransitionOutcome = "unchanged"
	TransitionApplied   TransitionOutcome = "applied"
	TransitionRejected  TransitionOutcome = "rejected"
)

// Decision is the verdict of the pure transition rules for one observed event.
type Decision struct {
	Outcome TransitionOutcome
	From    OrderStatus
	To      OrderStatus
	Reason  string
}

// IsTerminal reports whether no further transitions are allowed out of the
// status, except the single SUCCESS to REFUNDED exception.
func IsTerminal(s OrderStatus) bool {
	switch s {
	case OrderStatusSuccess, OrderStatusFailed, OrderStatusExpired, OrderStatusRefunded:
		return true
	}
	return false
}

// EvaluateTransition applies the reconciliation rules to a current and a
// candidate status. It never touches storage; callers serialize execution
// per order and apply the returned decision atomically.
func EvaluateTransition(current, candidate OrderStatus) Decision {
	if candidate == current {
		return Decision{Outcome: TransitionUnchanged, From: current, To: current}
	}

	if IsTerminal(current) {
		if current == OrderStatusSuccess && candidate == OrderStatusRefunded {
			return Decision{Outcome: TransitionApplied, From: current, To: candidate}
		}
		return Decision{
			Outcome: TransitionRejected,
			From:    current,
			To:      candidate,
			Reason:  fmt.Sprintf("order already in terminal status %s", current),
		}
	}

	return Decision{Outcome: TransitionApplied, From: current, To: candidate}
}
