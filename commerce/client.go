package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client implements Store against a remote commerce API exposing the same
// surface as Server, so the bot can run against an external service instead
// of the bundled mock.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOptions configure the HTTP store client.
type ClientOptions struct {
	HTTPClient *http.Client
}

// NewClient constructs a client for the API at baseURL.
func NewClient(baseURL string, optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
	}
}

// Order implements Store. The order is assembled from the status, tracking
// and details endpoints so the client works against backends that only
// expose the per-aspect routes.
func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var details detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/orders/%s/details", id), &details); err != nil {
		return nil, err
	}

	order := &Order{
		ID:        details.OrderID,
		Status:    details.Status,
		Items:     details.Items,
		Delivered: details.Delivered,
	}

	var tracking trackingResponse
	if err := c.get(ctx, fmt.Sprintf("/orders/%s/tracking", id), &tracking); err != nil {
		return nil, err
	}
	if tracking.TrackingNumber != "" {
		order.TrackingNumber = tracking.TrackingNumber
		order.Carrier = tracking.Carrier
		order.TrackingStatus = tracking.Status
	}

	return order, nil
}

// CreateReturn implements Store.
func (c *Client) CreateReturn(ctx context.Context, orderID, sku string, reason *string) (*Return, error) {
	body, err := json.Marshal(returnRequest{OrderID: orderID, SKU: sku, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("encode return request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/returns", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build return request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commerce api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var ret returnResponse
	if err := json.NewDecoder(resp.Body).Decode(&ret); err != nil {
		return nil, fmt.Errorf("decode return response: %w", err)
	}
	return &Return{
		ID:      ret.ReturnID,
		OrderID: orderID,
		SKU:     sku,
		Reason:  reason,
		Status:  ret.Status,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-200 response into the matching sentinel error so
// callers can treat remote and in-memory stores uniformly.
func (c *Client) decodeError(resp *http.Response) error {
	var apiErr errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &apiErr)
	detail := apiErr.Detail
	if detail == "" {
		detail = strings.TrimSpace(string(data))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && strings.Contains(detail, "not found in order"):
		return fmt.Errorf("%s: %w", detail, ErrItemNotFound)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, ErrOrderNotFound)
	case strings.Contains(detail, "cannot return"):
		return ErrNotDelivered
	default:
		return fmt.Errorf("commerce api error (%d): %s", resp.StatusCode, detail)
	}
}
