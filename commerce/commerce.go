// Package commerce models the store backend the capability tools talk to:
// orders, tracking and return creation. It ships an in-memory implementation
// seeded with sample data plus an HTTP server/client pair so the bot can run
// against the bundled mock or an external service interchangeably.
package commerce

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by Store implementations. Tools translate these
// into their typed error codes at the boundary.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotDelivered  = errors.New("order not yet delivered, cannot return items")
	ErrItemNotFound  = errors.New("not found in order")
)

// Item is one line item of an order.
type Item struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Order is the backend's view of a customer order.
type Order struct {
	ID             string `json:"order_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingStatus string `json:"tracking_status,omitempty"`
	Items          []Item `json:"items"`
	Delivered      bool   `json:"delivered"`
}

// Item returns the line item with the given SKU, or nil.
func (o *Order) Item(sku string) *Item {
	for i := range o.Items {
		if o.Items[i].SKU == sku {
			return &o.Items[i]
		}
	}
	return nil
}

// Return is a created return request.
type Return struct {
	ID      string  `json:"return_id"`
	OrderID string  `json:"order_id"`
	SKU     string  `json:"sku"`
	Reason  *string `json:"reason,omitempty"`
	Status  string  `json:"status"`
}

// Store is the commerce backend contract consumed by the capability tools.
type Store interface {
	// Order fetches one order by id. Unknown ids yield ErrOrderNotFound.
	Order(ctx context.Context, id string) (*Order, error)

	// CreateReturn submits a return for one item of a delivered order.
	// Undelivered orders yield ErrNotDelivered; unknown SKUs yield an
	// ErrItemNotFound-wrapped error. Submission is not idempotent: repeated
	// identical calls create distinct returns.
	CreateReturn(ctx context.Context, orderID, sku string, reason *string) (*Return, error)
}

// itemNotFoundError builds the ErrItemNotFound-wrapped error with the
// user-facing phrasing shared by the in-memory store and the HTTP server.
func itemNotFoundError(sku, orderID string) error {
	return fmt.Errorf("item SKU %s %w %s", sku, ErrItemNotFound, orderID)
}
