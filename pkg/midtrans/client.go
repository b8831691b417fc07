package midtrans

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecomstore/backend/pkg/config"
	pkgerrors "github.com/ecomstore/backend/pkg/errors"
	"github.com/ecomstore/backend/pkg/logger"
)

const (
	sandboxAPIBaseURL    = "https://api.sandbox.midtrans.com"
	productionAPIBaseURL = "https://api.midtrans.com"

	sandboxSnapBaseURL    = "https://app.sandbox.midtrans.com"
	productionSnapBaseURL = "https://app.midtrans.com"

	defaultHTTPTimeout = 15 * time.Second
)

var (
	errServerKeyRequired = errors.New("midtrans server key is required")
	errLoggerRequired    = errors.New("midtrans logger is required")
)

// Client exposes the gateway primitives with centralized auth, logging, and
// error mapping. Midtrans ships no Go SDK, so this wraps its REST surface
// directly.
type Client struct {
	httpClient  *http.Client
	serverKey   string
	apiBaseURL  string
	snapBaseURL string
	logger      *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURLs overrides the gateway endpoints. Used by tests.
func WithBaseURLs(apiBaseURL, snapBaseURL string) Option {
	return func(c *Client) {
		if apiBaseURL != "" {
			c.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
		}
		if snapBaseURL != "" {
			c.snapBaseURL = strings.TrimRight(snapBaseURL, "/")
		}
	}
}

// NewClient initializes the gateway wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.MidtransConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		serverKey:   serverKey,
		apiBaseURL:  sandboxAPIBaseURL,
		snapBaseURL: sandboxSnapBaseURL,
		logger:      logg,
	}
	if cfg.Production {
		c.apiBaseURL = productionAPIBaseURL
		c.snapBaseURL = productionSnapBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(ctx, "midtrans client initialized")
	return c, nil
}

// CreateTransaction opens a hosted-payment session for an order.
func (c *Client) CreateTransaction(ctx context.Context, params TransactionParams) (*Transaction, error) {
	c.log(ctx, "request", "create_transaction", map[string]any{
		"order_number": params.OrderNumber,
		"gross_amount": params.GrossAmount,
	})

	var out Transaction
	endpoint := c.snapBaseURL + "/snap/v1/transactions"
	if err := c.do(ctx, http.MethodPost, endpoint, params.toSnapRequest(), &out); err != nil {
		c.log(ctx, "error", "create_transaction", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_transaction", map[string]any{
		"order_number": params.OrderNumber,
		"token":        out.Token,
	})
	return &out, nil
}

// FetchTransactionStatus returns the gateway's authoritative view of the
// transaction keyed by the store's order number.
func (c *Client) FetchTransactionStatus(ctx context.Context, orderNumber string) (*TransactionStatus, error) {
	c.log(ctx, "request", "fetch_transaction_status", map[string]any{"order_number": orderNumber})

	var out TransactionStatus
	endpoint := fmt.Sprintf("%s/v2/%s/status", c.apiBaseURL, url.PathEscape(orderNumber))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		c.log(ctx, "error", "fetch_transaction_status", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "fetch_transaction_status", map[string]any{
		"order_number":       orderNumber,
		"transaction_status": out.TransactionStatus,
		"fraud_status":       out.FraudStatus,
	})
	return &out, nil
}

// VerifySignature checks a notification's signature_key, which Midtrans
// computes as sha512(order_id + status_code + gross_amount + server_key).
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	if c == nil || signatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signatureKey))) == 1
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode midtrans request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build midtrans request")
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "midtrans request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read midtrans response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode midtrans response")
		}
	}
	return nil
}

func (c *Client) mapError(status int, payload []byte) error {
	message := "midtrans request failed"
	var body struct {
		ErrorMessages []string `json:"error_messages"`
		StatusMessage string   `json:"status_message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		switch {
		case len(body.ErrorMessages) > 0:
			message = strings.Join(body.ErrorMessages, "; ")
		case body.StatusMessage != "":
			message = body.StatusMessage
		}
	}
	return pkgerrors.New(domainCodeForStatus(status), fmt.Sprintf("midtrans: %s (status %d)", message, status))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("midtrans %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("midtrans %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "key", "secret", "email"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
