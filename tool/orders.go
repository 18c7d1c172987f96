package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/haroonj/Ai-Bot/commerce"
)

// storeError converts commerce sentinel errors into typed tool errors.
func storeError(toolName, orderID string, err error) error {
	switch {
	case errors.Is(err, commerce.ErrOrderNotFound):
		return NewError(toolName, CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	case errors.Is(err, commerce.ErrNotDelivered):
		return NewError(toolName, CodeNotEligible, fmt.Sprintf("order %s is not yet delivered, cannot return items", orderID))
	case errors.Is(err, commerce.ErrItemNotFound):
		return NewError(toolName, CodeNotFound, err.Error())
	default:
		return NewError(toolName, CodeExecution, err.Error())
	}
}

// OrderStatusTool reports the fulfillment status of an order.
type OrderStatusTool struct {
	store commerce.Store
}

// NewOrderStatusTool creates an OrderStatusTool backed by the given store.
func NewOrderStatusTool(store commerce.Store) *OrderStatusTool {
	return &OrderStatusTool{store: store}
}

func (t *OrderStatusTool) Name() string { return NameOrderStatus }

func (t *OrderStatusTool) Description() string {
	return "Get the current fulfillment status of a customer's order, for example Shipped, Processing or Delivered."
}

func (t *OrderStatusTool) Parameters() map[string]any { return orderArgsSchema() }

func (t *OrderStatusTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	orderID := stringArg(args, "order_id")
	order, err := t.store.Order(ctx, orderID)
	if err != nil {
		return nil, storeError(t.Name(), orderID, err)
	}
	return map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	}, nil
}

// TrackingInfoTool reports shipment tracking details for an order.
type TrackingInfoTool struct {
	store commerce.Store
}

// NewTrackingInfoTool creates a TrackingInfoTool backed by the given store.
func NewTrackingInfoTool(store commerce.Store) *TrackingInfoTool {
	return &TrackingInfoTool{store: store}
}

func (t *TrackingInfoTool) Name() string { return NameTrackingInfo }

func (t *TrackingInfoTool) Description() string {
	return "Get the shipment tracking number, carrier and tracking status for a customer's order."
}

func (t *TrackingInfoTool) Parameters() map[string]any { return orderArgsSchema() }

func (t *TrackingInfoTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	orderID := stringArg(args, "order_id")
	order, err := t.store.Order(ctx, orderID)
	if err != nil {
		return nil, storeError(t.Name(), orderID, err)
	}
	result := map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	}
	if order.TrackingNumber == "" {
		result["message"] = "Tracking not available yet"
		return result, nil
	}
	result["tracking_number"] = order.TrackingNumber
	result["carrier"] = order.Carrier
	if order.TrackingStatus != "" {
		result["tracking_status"] = order.TrackingStatus
	}
	return result, nil
}

// OrderDetailsTool reports the full order record including line items. It
// performs no eligibility checks of its own; callers decide what the data
// means.
type OrderDetailsTool struct {
	store commerce.Store
}

// NewOrderDetailsTool creates an OrderDetailsTool backed by the given store.
func NewOrderDetailsTool(store commerce.Store) *OrderDetailsTool {
	return &OrderDetailsTool{store: store}
}

func (t *OrderDetailsTool) Name() string { return NameOrderDetails }

func (t *OrderDetailsTool) Description() string {
	return "Get the full details of a customer's order, including its status, delivery state and line items with SKUs, names and prices."
}

func (t *OrderDetailsTool) Parameters() map[string]any { return orderArgsSchema() }

func (t *OrderDetailsTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	orderID := stringArg(args, "order_id")
	order, err := t.store.Order(ctx, orderID)
	if err != nil {
		return nil, storeError(t.Name(), orderID, err)
	}
	items := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"sku":   item.SKU,
			"name":  item.Name,
			"price": item.Price,
		})
	}
	return map[string]any{
		"order_id":  order.ID,
		"status":    order.Status,
		"delivered": order.Delivered,
		"items":     items,
	}, nil
}

// InitiateReturnTool submits a return request for one item of a delivered
// order. Submission is not idempotent.
type InitiateReturnTool struct {
	store commerce.Store
}

// NewInitiateReturnTool creates an InitiateReturnTool backed by the given
// store.
func NewInitiateReturnTool(store commerce.Store) *InitiateReturnTool {
	return &InitiateReturnTool{store: store}
}

func (t *InitiateReturnTool) Name() string { return NameInitiateReturn }

func (t *InitiateReturnTool) Description() string {
	return "Submit a return request for a single item of a delivered order, identified by the order id and the item SKU. An optional reason can be attached."
}

func (t *InitiateReturnTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"order_id": map[string]any{
				"type":        "string",
				"description": "The unique identifier for the customer's order.",
			},
			"sku": map[string]any{
				"type":        "string",
				"description": "The SKU of the item to return.",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Optional free-text reason for the return.",
			},
		},
		"required": []string{"order_id", "sku"},
	}
}

func (t *InitiateReturnTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	orderID := stringArg(args, "order_id")
	sku := stringArg(args, "sku")

	var reason *string
	if r := stringArg(args, "reason"); r != "" {
		reason = &r
	}

	ret, err := t.store.CreateReturn(ctx, orderID, sku, reason)
	if err != nil {
		return nil, storeError(t.Name(), orderID, err)
	}
	result := map[string]any{
		"return_id": ret.ID,
		"order_id":  ret.OrderID,
		"sku":       ret.SKU,
		"status":    ret.Status,
	}
	if ret.Reason != nil {
		result["reason"] = *ret.Reason
	}
	return result, nil
}
