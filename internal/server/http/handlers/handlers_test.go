package handlers

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tablepay/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
	"github.com/polkiloo/tablepay/internal/server/http/dto"
	"github.com/polkiloo/tablepay/internal/test"
	"github.com/polkiloo/tablepay/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutHandlerCreatesOrder(t *testing.T) {
	facade := &test.PosFacadeStub{
		CheckoutFn: func(_ context.Context, in usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error) {
			if in.CustomerName != "Budi" || len(in.Items) != 1 {
				t.Errorf("unexpected input: %+v", in)
			}
			order := &model.Order{ID: 1, OrderCode: "ORD-1", Status: model.OrderStatusPending, TotalPrice: 25000}
			return order, &model.PaymentSession{Token: "tok", RedirectURL: "https://pay.example/tok"}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(facade).Checkout)

	rec := performJSON(t, engine, http.MethodPost, "/api/orders", dto.CheckoutRequest{
		CustomerName:  "Budi",
		PaymentMethod: "TRANSFER",
		OrderType:     "TAKE_AWAY",
		Items:         []dto.CheckoutItemRequest{{MenuID: 1, Quantity: 1}},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Order.OrderCode != "ORD-1" || resp.Payment == nil || resp.Payment.Token != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCheckoutHandlerValidation(t *testing.T) {
	facade := &test.PosFacadeStub{
		CheckoutFn: func(context.Context, usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error) {
			return nil, nil, domainErrors.ErrValidation
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(facade).Checkout)

	rec := performJSON(t, engine, http.MethodPost, "/api/orders", dto.CheckoutRequest{
		CustomerName:  "Budi",
		PaymentMethod: "CRYPTO",
		OrderType:     "TAKE_AWAY",
		Items:         []dto.CheckoutItemRequest{{MenuID: 1, Quantity: 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = performJSON(t, engine, http.MethodPost, "/api/orders", map[string]any{"notes": "no required fields"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bind failure: expected 400, got %d", rec.Code)
	}
}

func TestCheckoutHandlerGatewayFailureKeepsOrder(t *testing.T) {
	facade := &test.PosFacadeStub{
		CheckoutFn: func(context.Context, usecase.CheckoutInput) (*model.Order, *model.PaymentSession, error) {
			order := &model.Order{ID: 1, OrderCode: "ORD-1", Status: model.OrderStatusPending}
			return order, nil, gateway.UnavailableError{Status: "503"}
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(facade).Checkout)

	rec := performJSON(t, engine, http.MethodPost, "/api/orders", dto.CheckoutRequest{
		CustomerName:  "Budi",
		PaymentMethod: "TRANSFER",
		OrderType:     "TAKE_AWAY",
		Items:         []dto.CheckoutItemRequest{{MenuID: 1, Quantity: 1}},
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp dto.CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Order.OrderCode != "ORD-1" {
		t.Fatal("the locally created order must still be returned")
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	facade := &test.PosFacadeStub{
		OrderByCodeFn: func(context.Context, string) (*model.Order, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	engine := gin.New()
	engine.GET("/api/orders/:code", NewOrderHandler(facade).Detail)

	rec := performJSON(t, engine, http.MethodGet, "/api/orders/ORD-404", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderListReturnsWatermark(t *testing.T) {
	facade := &test.PosFacadeStub{
		OrdersAfterFn: func(_ context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
			if afterID != 10 {
				t.Errorf("expected after_id 10, got %d", afterID)
			}
			return []model.Order{{ID: 11, OrderCode: "ORD-11"}, {ID: 12, OrderCode: "ORD-12"}}, 12, nil
		},
	}
	engine := gin.New()
	engine.GET("/api/orders", NewOrderHandler(facade).List)

	rec := performJSON(t, engine, http.MethodGet, "/api/orders?after_id=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.OrderListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Watermark != 12 || len(resp.Orders) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestNotificationHandlerAlwaysAcknowledges(t *testing.T) {
	cases := []struct {
		name string
		fn   func(context.Context, *model.GatewayEvent) (*repository.TransitionResult, error)
	}{
		{"applied", nil},
		{"bad signature", func(context.Context, *model.GatewayEvent) (*repository.TransitionResult, error) {
			return nil, domainErrors.ErrAuthenticity
		}},
		{"unknown order", func(context.Context, *model.GatewayEvent) (*repository.TransitionResult, error) {
			return nil, domainErrors.ErrNotFound
		}},
		{"rejected transition", func(context.Context, *model.GatewayEvent) (*repository.TransitionResult, error) {
			return &repository.TransitionResult{Outcome: model.TransitionRejected}, nil
		}},
	}

	for _, tc := range cases {
		facade := &test.PosFacadeStub{IngestFn: tc.fn}
		engine := gin.New()
		engine.POST("/api/payments/notification", NewPaymentHandler(facade).Notification)

		rec := performJSON(t, engine, http.MethodPost, "/api/payments/notification", map[string]string{
			"order_id":           "ORD-1",
			"transaction_status": "settlement",
			"status_code":        "200",
			"gross_amount":       "25000.00",
			"signature_key":      "sig",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("%s: webhook must return 200, got %d", tc.name, rec.Code)
		}
	}
}

func TestNotificationHandlerAcknowledgesGarbage(t *testing.T) {
	facade := &test.PosFacadeStub{}
	engine := gin.New()
	engine.POST("/api/payments/notification", NewPaymentHandler(facade).Notification)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/notification", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("malformed body must still return 200, got %d", rec.Code)
	}
	if len(facade.Ingested) != 0 {
		t.Fatal("malformed body must not reach the use case")
	}
}

func TestNotificationHandlerPreservesRawPayload(t *testing.T) {
	facade := &test.PosFacadeStub{}
	engine := gin.New()
	engine.POST("/api/payments/notification", NewPaymentHandler(facade).Notification)

	sum := sha512.Sum512([]byte("ORD-1" + "200" + "25000.00" + "key"))
	payload := map[string]string{
		"order_id":           "ORD-1",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "25000.00",
		"signature_key":      hex.EncodeToString(sum[:]),
		"settlement_time":    "2026-08-28 10:15:00",
	}
	rec := performJSON(t, engine, http.MethodPost, "/api/payments/notification", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(facade.Ingested) != 1 {
		t.Fatalf("expected one ingested event, got %d", len(facade.Ingested))
	}

	ev := facade.Ingested[0]
	if len(ev.Raw) == 0 {
		t.Fatal("raw payload must be preserved verbatim")
	}
	var roundtrip map[string]string
	if err := json.Unmarshal(ev.Raw, &roundtrip); err != nil {
		t.Fatalf("raw payload must stay valid JSON: %v", err)
	}
	if ev.SettlementTime == nil {
		t.Fatal("settlement time must be parsed")
	}
	want := time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC)
	if !ev.SettlementTime.Equal(want) {
		t.Fatalf("unexpected settlement time %v", ev.SettlementTime)
	}
}

func TestStatusHandler(t *testing.T) {
	facade := &test.PosFacadeStub{
		CheckOrderFn: func(_ context.Context, code string) (*usecase.SyncResult, error) {
			return &usecase.SyncResult{
				OrderCode:     code,
				DBStatus:      model.OrderStatusPending,
				GatewayStatus: "settlement",
				MappedStatus:  model.OrderStatusSuccess,
				Result:        "synced: PENDING → SUCCESS",
			}, nil
		},
	}
	engine := gin.New()
	engine.GET("/api/payments/status/:code", NewPaymentHandler(facade).Status)

	rec := performJSON(t, engine, http.MethodGet, "/api/payments/status/ORD-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.StatusCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DBStatus != "PENDING" || resp.MappedStatus != "SUCCESS" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestStatusHandlerGatewayDown(t *testing.T) {
	facade := &test.PosFacadeStub{
		CheckOrderFn: func(context.Context, string) (*usecase.SyncResult, error) {
			return nil, gateway.UnavailableError{Status: "503"}
		},
	}
	engine := gin.New()
	engine.GET("/api/payments/status/:code", NewPaymentHandler(facade).Status)

	rec := performJSON(t, engine, http.MethodGet, "/api/payments/status/ORD-1", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestCashHandlerConfirm(t *testing.T) {
	facade := &test.PosFacadeStub{
		ConfirmFn: func(_ context.Context, code string) (*repository.TransitionResult, error) {
			if code != "ORD-1" {
				t.Errorf("unexpected code %q", code)
			}
			return &repository.TransitionResult{Outcome: model.TransitionApplied, To: model.OrderStatusSuccess}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/payments/cash/confirm", NewCashHandler(facade).Confirm)

	rec := performJSON(t, engine, http.MethodPost, "/api/payments/cash/confirm", dto.CashActionRequest{OrderCode: "ORD-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.CashActionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Status != "SUCCESS" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCashHandlerConflict(t *testing.T) {
	facade := &test.PosFacadeStub{
		ConfirmFn: func(context.Context, string) (*repository.TransitionResult, error) {
			return nil, &domainErrors.StateConflictError{OrderCode: "ORD-1", CurrentStatus: "EXPIRED"}
		},
	}
	engine := gin.New()
	engine.POST("/api/payments/cash/confirm", NewCashHandler(facade).Confirm)

	rec := performJSON(t, engine, http.MethodPost, "/api/payments/cash/confirm", dto.CashActionRequest{OrderCode: "ORD-1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("conflict response must explain the current status")
	}
}

func TestCashHandlerRejectForwardsReason(t *testing.T) {
	var gotReason string
	facade := &test.PosFacadeStub{
		RejectFn: func(_ context.Context, code, reason string) (*repository.TransitionResult, error) {
			gotReason = reason
			return &repository.TransitionResult{Outcome: model.TransitionApplied, To: model.OrderStatusFailed}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/payments/cash/reject", NewCashHandler(facade).Reject)

	rec := performJSON(t, engine, http.MethodPost, "/api/payments/cash/reject", dto.CashActionRequest{OrderCode: "ORD-1", Reason: "walked out"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotReason != "walked out" {
		t.Fatalf("reason not forwarded: %q", gotReason)
	}
}

func TestCashHandlerMissingOrderCode(t *testing.T) {
	facade := &test.PosFacadeStub{}
	engine := gin.New()
	engine.POST("/api/payments/cash/confirm", NewCashHandler(facade).Confirm)

	rec := performJSON(t, engine, http.MethodPost, "/api/payments/cash/confirm", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpiryHandlerStatus(t *testing.T) {
	remaining := 90 * time.Second
	facade := &test.PosFacadeStub{
		ExpiryStatusFn: func(_ context.Context, code string) (*usecase.ExpiryStatus, error) {
			return &usecase.ExpiryStatus{OrderCode: code, Status: model.OrderStatusPending, TimeRemaining: &remaining}, nil
		},
	}
	engine := gin.New()
	engine.GET("/api/payments/expiry/:code", NewExpiryHandler(facade).Status)

	rec := performJSON(t, engine, http.MethodGet, "/api/payments/expiry/ORD-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.ExpiryStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TimeRemainingSeconds == nil || *resp.TimeRemainingSeconds != 90 {
		t.Fatalf("unexpected remaining seconds: %+v", resp.TimeRemainingSeconds)
	}
}

func TestExpiryHandlerSweep(t *testing.T) {
	facade := &test.PosFacadeStub{
		SweepExpiredFn: func(context.Context) (*usecase.ExpiryReport, error) {
			return &usecase.ExpiryReport{
				Processed: 2,
				Results: []usecase.ExpiryEntry{
					{OrderCode: "ORD-1", Expired: true},
					{OrderCode: "ORD-2", Err: "storage hiccup"},
				},
			}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/payments/expiry/sweep", NewExpiryHandler(facade).Sweep)

	rec := performJSON(t, engine, http.MethodPost, "/api/payments/expiry/sweep", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.ExpirySweepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Processed != 2 || len(resp.Results) != 2 || resp.Results[1].Error == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTableHandlerOverrideValidation(t *testing.T) {
	facade := &test.PosFacadeStub{
		OverrideFn: func(context.Context, int64, model.TableStatus) error {
			return domainErrors.ErrValidation
		},
	}
	engine := gin.New()
	engine.PATCH("/api/tables/:id/status", NewTableHandler(facade).Override)

	rec := performJSON(t, engine, http.MethodPatch, "/api/tables/1/status", dto.TableOverrideRequest{Status: "OCCUPIED"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = performJSON(t, engine, http.MethodPatch, "/api/tables/abc/status", dto.TableOverrideRequest{Status: "CLEANING"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", rec.Code)
	}
}

func TestTableHandlerDeleteConflict(t *testing.T) {
	facade := &test.PosFacadeStub{
		DeleteTableFn: func(context.Context, int64) error {
			return domainErrors.ErrConflict
		},
	}
	engine := gin.New()
	engine.DELETE("/api/tables/:id", NewTableHandler(facade).Delete)

	rec := performJSON(t, engine, http.MethodDelete, "/api/tables/1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestTableHandlerCreateAndList(t *testing.T) {
	facade := &test.PosFacadeStub{
		TablesFn: func(context.Context) ([]model.Table, error) {
			return []model.Table{{ID: 1, Name: "T1", Status: model.TableStatusOccupied}}, nil
		},
	}
	engine := gin.New()
	handler := NewTableHandler(facade)
	engine.POST("/api/tables", handler.Create)
	engine.GET("/api/tables", handler.List)

	rec := performJSON(t, engine, http.MethodPost, "/api/tables", dto.TableRequest{Name: "T1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = performJSON(t, engine, http.MethodGet, "/api/tables", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tables []dto.TableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tables); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tables) != 1 || tables[0].Status != "OCCUPIED" {
		t.Fatalf("unexpected response: %+v", tables)
	}
}
