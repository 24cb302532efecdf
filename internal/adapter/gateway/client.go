package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/tablepay/internal/domain/model"
)

// ErrOrderNotRegistered indicates the gateway has no record of the
// transaction yet, which is expected for orders just created locally.
var ErrOrderNotRegistered = errors.New("order not registered at gateway")

// UnavailableError represents a remote or network fault at the gateway.
type UnavailableError struct {
	Status string
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("gateway unavailable: %s", e.Status)
}

// TooManyRequestsError represents a rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// settlementTimeLayout is the timestamp format used in gateway payloads.
const settlementTimeLayout = "2006-01-02 15:04:05"

// Client exposes operations against the external payment gateway.
type Client interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.PaymentSession, error)
	FetchStatus(ctx context.Context, orderCode string) (*model.GatewayEvent, error)
}

// CreateTransactionRequest carries the fields needed to register a payment.
type CreateTransactionRequest struct {
	OrderCode    string
	GrossAmount  float64
	CustomerName string
	Items        []model.OrderItem
}

// HTTPClient implements Client against the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	serverKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type transactionDetails struct {
	OrderID     string  `json:"order_id"`
	GrossAmount float64 `json:"gross_amount"`
}

type customerDetails struct {
	FirstName string `json:"first_name"`
}

type itemDetail struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type createRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	ItemDetails        []itemDetail       `json:"item_details,omitempty"`
}

type createResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// statusResponse mirrors the JSON payload of a gateway status lookup.
type statusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	SettlementTime    string `json:"settlement_time"`
}

// NewHTTPClient creates a gateway client with an explicit request timeout.
func NewHTTPClient(baseURL, serverKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL:   parsed,
		serverKey: serverKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateTransaction registers the order at the gateway and returns the
// payment token and redirect URL for the customer.
func (c *HTTPClient) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.PaymentSession, error) {
	if req.OrderCode == "" || req.GrossAmount <= 0 {
		return nil, fmt.Errorf("invalid transaction request for order %q", req.OrderCode)
	}

	items := make([]itemDetail, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, itemDetail{
			ID:       strconv.FormatInt(it.MenuID, 10),
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	body, err := json.Marshal(createRequest{
		TransactionDetails: transactionDetails{OrderID: req.OrderCode, GrossAmount: req.GrossAmount},
		CustomerDetails:    customerDetails{FirstName: req.CustomerName},
		ItemDetails:        items,
	})
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/snap/v1/transactions")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.serverKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, UnavailableError{Status: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var data createResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, err
		}
		return &model.PaymentSession{Token: data.Token, RedirectURL: data.RedirectURL}, nil
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway rejected transaction: %s", string(payload))
	default:
		payload, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway create transaction failed",
			slog.Int("status", resp.StatusCode), slog.String("body", string(payload)))
		return nil, UnavailableError{Status: resp.Status}
	}
}

// FetchStatus queries the gateway for the current transaction status.
func (c *HTTPClient) FetchStatus(ctx context.Context, orderCode string) (*model.GatewayEvent, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v2/", orderCode, "/status")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.serverKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, UnavailableError{Status: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data statusResponse
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return eventFromStatus(data, raw), nil
	case http.StatusNotFound:
		return nil, ErrOrderNotRegistered
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway status request failed",
			slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, UnavailableError{Status: resp.Status}
	}
}

func eventFromStatus(data statusResponse, raw []byte) *model.GatewayEvent {
	ev := &model.GatewayEvent{
		OrderCode:         data.OrderID,
		TransactionStatus: data.TransactionStatus,
		FraudStatus:       data.FraudStatus,
		StatusCode:        data.StatusCode,
		GrossAmount:       data.GrossAmount,
		SignatureKey:      data.SignatureKey,
		TransactionID:     data.TransactionID,
		PaymentType:       data.PaymentType,
		Raw:               raw,
	}
	ev.SettlementTime = ParseSettlementTime(data.SettlementTime)
	return ev
}

// ParseSettlementTime parses a gateway timestamp, returning nil when the
// field is absent or malformed.
func ParseSettlementTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(settlementTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
