package model

import "time"

// PaymentLog is an append-only audit record of one observed reconciliation
// event. Rows are never mutated or deleted.
type PaymentLog struct {
	ID            int64
	OrderID       int64
	GatewayStatus string
	Source        string
	Payload       []byte
	CreatedAt     time.Time
}

// PaymentSession is the result of registering a transaction at the gateway.
type PaymentSession struct {
	Token       string
	RedirectURL string
}

// GatewayEvent carries the fields of one gateway status observation, either
// pushed via webhook or pulled by a status poll. Raw keeps the payload
// verbatim for the audit trail.
type GatewayEvent struct {
	OrderCode         string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	TransactionID     string
	PaymentType       string
	SettlementTime    *time.Time
	Raw               []byte
}
