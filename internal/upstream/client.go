package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/grocerlane/gateway/pkg/config"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
)

// userIDHeader carries the acting user for authenticated account operations.
const userIDHeader = "X-User-Id"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the remote catalog/order/auth API over HTTP.
type Client struct {
	baseURL string
	http    httpDoer
}

// NewClient builds the HTTP backend from the upstream configuration.
func NewClient(cfg config.UpstreamConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", 0, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), 0, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/products", 0, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, product Product) (*Product, error) {
	var updated Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), 0, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), 0, nil, nil)
}

func (c *Client) BulkCreateProducts(ctx context.Context, inputs []ProductInput) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodPost, "/products/bulk", 0, inputs, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) IncrementQuantity(ctx context.Context, id int64, amount int) (*Product, error) {
	return c.adjustQuantity(ctx, id, "increment-quantity", amount)
}

func (c *Client) DecrementQuantity(ctx context.Context, id int64, amount int) (*Product, error) {
	return c.adjustQuantity(ctx, id, "decrement-quantity", amount)
}

func (c *Client) adjustQuantity(ctx context.Context, id int64, op string, amount int) (*Product, error) {
	body := map[string]int{"amount": amount}
	var product Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d/%s", id, op), 0, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) PlaceOrder(ctx context.Context, input OrderInput) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", 0, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) OrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), 0, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", 0, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/auth/login", 0, creds, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/auth/register", 0, input, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Logout(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", userID, nil, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/auth/profile", userID, update, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID int64, change PasswordChange) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/auth/change-password", userID, change, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Deactivate(ctx context.Context, userID int64) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/auth/deactivate", userID, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Restore(ctx context.Context, userID int64, password string) (*Account, error) {
	body := map[string]string{"password": password}
	var account Account
	if err := c.do(ctx, http.MethodPut, "/auth/restore", userID, body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) do(ctx context.Context, method, path string, userID int64, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(userIDHeader, strconv.FormatInt(userID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("calling upstream %s %s", method, path))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding upstream response")
	}
	return nil
}

// upstreamError matches the error envelope the remote API returns.
type upstreamError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(raw))
	var envelope upstreamError
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			message = envelope.Error
		} else if envelope.Message != "" {
			message = envelope.Message
		}
	}
	if message == "" {
		message = resp.Status
	}

	return pkgerrors.New(codeForStatus(resp.StatusCode), message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeDependency
	}
}
