package midtrans

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecomstore/backend/pkg/config"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
)

func newTestClient(t *testing.T, apiURL, snapURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.Disabled})
	c, err := NewClient(context.Background(), config.MidtransConfig{ServerKey: "SB-server-key"}, logg, WithBaseURLs(apiURL, snapURL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	logg := logger.New(logger.Options{Level: zerolog.Disabled})
	if _, err := NewClient(context.Background(), config.MidtransConfig{}, logg); err == nil {
		t.Fatalf("expected error for missing server key")
	}
	if _, err := NewClient(context.Background(), config.MidtransConfig{ServerKey: "k"}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestCreateTransaction(t *testing.T) {
	var captured snapTransactionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/snap/v1/transactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Fatalf("missing basic auth header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Transaction{Token: "tok-1", RedirectURL: "https://pay.example/tok-1"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	tx, err := c.CreateTransaction(context.Background(), TransactionParams{
		OrderNumber: "EC-10000001",
		GrossAmount: 120,
		Customer:    Customer{FullName: "Ada Lovelace Byron", Email: "ada@example.com", City: "London", PostalCode: "12345"},
		Callbacks:   &Callbacks{Finish: "https://store.example/payment/success"},
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if tx.Token != "tok-1" {
		t.Fatalf("unexpected token %q", tx.Token)
	}
	if captured.TransactionDetails.OrderID != "EC-10000001" || captured.TransactionDetails.GrossAmount != 120 {
		t.Fatalf("unexpected transaction details %+v", captured.TransactionDetails)
	}
	if captured.CustomerDetails.FirstName != "Ada" || captured.CustomerDetails.LastName != "Lovelace Byron" {
		t.Fatalf("unexpected name split %+v", captured.CustomerDetails)
	}
	if !captured.CreditCard.Secure {
		t.Fatalf("credit_card.secure should be set")
	}
}

func TestFetchTransactionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/EC-10000001/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(TransactionStatus{
			OrderID:           "EC-10000001",
			TransactionStatus: "settlement",
			StatusCode:        "200",
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	status, err := c.FetchTransactionStatus(context.Background(), "EC-10000001")
	if err != nil {
		t.Fatalf("FetchTransactionStatus failed: %v", err)
	}
	if status.TransactionStatus != "settlement" {
		t.Fatalf("unexpected transaction status %q", status.TransactionStatus)
	}
}

func TestFetchTransactionStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":"404","status_message":"Transaction doesn't exist."}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL)
	_, err := c.FetchTransactionStatus(context.Background(), "EC-unknown")
	if err == nil {
		t.Fatalf("expected error for unknown transaction")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestDomainCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := domainCodeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	c := newTestClient(t, "http://unused", "http://unused")
	sum := sha512.Sum512([]byte("EC-1" + "200" + "120.00" + "SB-server-key"))
	signature := hex.EncodeToString(sum[:])

	if !c.VerifySignature("EC-1", "200", "120.00", signature) {
		t.Fatalf("valid signature rejected")
	}
	if c.VerifySignature("EC-1", "200", "120.00", "deadbeef") {
		t.Fatalf("invalid signature accepted")
	}
	if c.VerifySignature("EC-1", "200", "120.00", "") {
		t.Fatalf("empty signature accepted")
	}
}

func TestRedact(t *testing.T) {
	c := &Client{}
	if out := c.redact("signature_key", "abc"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if v := c.redact("order_number", "EC-1"); v != "EC-1" {
		t.Fatalf("unexpected redaction for safe key")
	}
}
