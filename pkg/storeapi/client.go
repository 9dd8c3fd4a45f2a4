package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/frecha/iotech-storefront/internal/app/model"
)

// Client talks to the remote Frecha store backend: orders, auth,
// catalog and tracking. It holds no storefront state; every method is
// one HTTP call with no implicit retry.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new store backend client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SubmitOrder posts the order payload and classifies the response.
// Exactly one call per invocation; retries are the caller's decision.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) (*model.OrderConfirmation, error) {
	headers := map[string]string{}
	if req.IdempotencyKey != "" {
		headers["Idempotency-Key"] = req.IdempotencyKey
	}

	status, body, err := c.doRequest(ctx, http.MethodPost, "orders/", req, headers)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnexpectedResponse, status, truncate(body))
	}

	switch {
	case resp.Success == nil:
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnexpectedResponse, status, truncate(body))
	case !*resp.Success:
		msg := resp.Message
		if msg == "" {
			msg = "order was not accepted"
		}
		return nil, fmt.Errorf("%w: %s", ErrOrderRejected, msg)
	}

	conf := &model.OrderConfirmation{
		OrderID:        resp.OrderID.String(),
		OrderNumber:    resp.OrderNumber,
		TrackingNumber: resp.TrackingNumber,
	}
	if conf.OrderID == "" && conf.OrderNumber == "" {
		return nil, fmt.Errorf("%w: success without order identifier", ErrUnexpectedResponse)
	}
	return conf, nil
}

// Login exchanges credentials for a user object and auth token.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	payload := map[string]string{"username": username, "password": password}

	status, body, err := c.doRequest(ctx, http.MethodPost, "auth/login/", payload, nil)
	if err != nil {
		return nil, "", err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest {
		return nil, "", fmt.Errorf("%w: %s", ErrAuthFailed, errorMessage(body))
	}
	if status != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.User == nil {
		return nil, "", fmt.Errorf("%w: body: %s", ErrUnexpectedResponse, truncate(body))
	}
	return userFromPayload(resp.User), resp.Token, nil
}

// Signup creates an account and authenticates it in one call.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, string, error) {
	status, body, err := c.doRequest(ctx, http.MethodPost, "auth/signup/", req, nil)
	if err != nil {
		return nil, "", err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		// fall through to decode
	case http.StatusConflict:
		return nil, "", fmt.Errorf("%w: %s", ErrEmailTaken, errorMessage(body))
	case http.StatusBadRequest:
		return nil, "", fmt.Errorf("%w: %s", ErrAuthFailed, errorMessage(body))
	default:
		return nil, "", fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.User == nil {
		return nil, "", fmt.Errorf("%w: body: %s", ErrUnexpectedResponse, truncate(body))
	}
	return userFromPayload(resp.User), resp.Token, nil
}

// Logout invalidates the upstream token. A 401 means the token is
// already dead upstream and counts as success.
func (c *Client) Logout(ctx context.Context, token string) error {
	headers := bearer(token)
	status, _, err := c.doRequest(ctx, http.MethodPost, "auth/logout/", nil, headers)
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusNoContent || status == http.StatusUnauthorized {
		return nil
	}
	return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
}

// Me fetches the account behind the token.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, "auth/me/", nil, bearer(token))
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.User == nil {
		// some deployments return the bare user object
		var u userPayload
		if err2 := json.Unmarshal(body, &u); err2 == nil && u.ID != 0 {
			return userFromPayload(&u), nil
		}
		return nil, fmt.Errorf("%w: body: %s", ErrUnexpectedResponse, truncate(body))
	}
	return userFromPayload(resp.User), nil
}

// Providers lists the service providers.
func (c *Client) Providers(ctx context.Context) ([]model.Provider, error) {
	return getList[model.Provider](ctx, c, "public/providers/")
}

// Bundles lists the data bundles offered by one provider.
func (c *Client) Bundles(ctx context.Context, providerID uint) ([]model.Bundle, error) {
	path := fmt.Sprintf("public/bundles/?provider_id=%d", providerID)
	return getList[model.Bundle](ctx, c, path)
}

// Routers lists the router products.
func (c *Client) Routers(ctx context.Context) ([]model.RouterProduct, error) {
	return getList[model.RouterProduct](ctx, c, "public/routers/")
}

// Electronics lists the electronics products.
func (c *Client) Electronics(ctx context.Context) ([]model.Electronic, error) {
	return getList[model.Electronic](ctx, c, "public/electronics/")
}

// Track looks up an order's status timeline by tracking number.
func (c *Client) Track(ctx context.Context, trackingNumber string) (*model.TrackingInfo, error) {
	path := "tracking/" + url.PathEscape(trackingNumber) + "/"
	status, body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrTrackingNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	var resp trackingResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.TrackingNumber == "" {
		return nil, fmt.Errorf("%w: body: %s", ErrUnexpectedResponse, truncate(body))
	}

	info := &model.TrackingInfo{
		TrackingNumber: resp.TrackingNumber,
		Status:         resp.OrderStatus,
		StatusDisplay:  resp.StatusDisplay,
		CustomerName:   resp.CustomerName,
		ProductDetails: resp.ProductDetails,
		OrderDate:      resp.OrderDate,
		SupportEmail:   resp.SupportEmail,
	}
	for _, u := range resp.StatusUpdates {
		info.Updates = append(info.Updates, model.StatusUpdate{
			Status:    u.Status,
			Timestamp: u.Timestamp,
			Notes:     u.Notes,
		})
	}
	return info, nil
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	// the backend wraps lists as {"message":..., "data":[...]} but some
	// endpoints answer with a bare array
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	return nil, fmt.Errorf("%w: body: %s", ErrUnexpectedResponse, truncate(body))
}

// doRequest performs one HTTP call and returns the status and raw body.
// Transport failures come back as ErrNetworkError.
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}, headers map[string]string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	endpoint := fmt.Sprintf("%s/%s", c.config.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	return resp.StatusCode, body, nil
}

func bearer(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func userFromPayload(p *userPayload) *model.User {
	return &model.User{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Phone:    p.Phone,
	}
}

func errorMessage(body []byte) string {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Message != "" {
			return resp.Message
		}
		if resp.Error != "" {
			return resp.Error
		}
	}
	return "request refused"
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
