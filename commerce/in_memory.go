package commerce

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore is a volatile Store implementation holding orders in a
// process-local map. It is safe for concurrent access and best suited for
// tests or the bundled mock API. Orders are cloned on return to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu        sync.RWMutex
	orders    map[string]*Order
	returns   map[string]*Return
	returnSeq int
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		orders:  make(map[string]*Order),
		returns: make(map[string]*Return),
	}
}

// NewSampleStore constructs an in-memory store seeded with the canonical
// sample orders used by the mock API and the test suites.
func NewSampleStore() *InMemoryStore {
	s := NewInMemoryStore()
	for _, o := range SampleOrders() {
		s.PutOrder(o)
	}
	return s
}

// SampleOrders returns the canonical demo data set: a shipped order with
// tracking, a processing order without tracking, and a delivered order
// eligible for returns.
func SampleOrders() []*Order {
	return []*Order{
		{
			ID:             "123",
			Status:         "Shipped",
			TrackingNumber: "TRACK987",
			Carrier:        "MockExpress",
			TrackingStatus: "In Transit",
			Items: []Item{
				{SKU: "ITEM001", Name: "Wireless Mouse", Price: 25.99},
				{SKU: "ITEM002", Name: "Keyboard", Price: 75.00},
			},
			Delivered: false,
		},
		{
			ID:     "456",
			Status: "Processing",
			Items: []Item{
				{SKU: "ITEM003", Name: "Webcam", Price: 50.00},
			},
			Delivered: false,
		},
		{
			ID:             "789",
			Status:         "Delivered",
			TrackingNumber: "TRACK111",
			Carrier:        "MockPost",
			TrackingStatus: "Delivered",
			Items: []Item{
				{SKU: "ITEM004", Name: "Monitor", Price: 300.00},
				{SKU: "ITEM005", Name: "USB-C Dock", Price: 120.00},
			},
			Delivered: true,
		},
	}
}

// PutOrder stores (or overwrites) an order.
func (s *InMemoryStore) PutOrder(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
}

// Order implements Store.
func (s *InMemoryStore) Order(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order ID '%s': %w", id, ErrOrderNotFound)
	}
	return cloneOrder(o), nil
}

// CreateReturn implements Store. Return ids are sequential RETN%04d values;
// no de-duplication key exists, so retried submissions create duplicates.
func (s *InMemoryStore) CreateReturn(_ context.Context, orderID, sku string, reason *string) (*Return, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order ID '%s': %w", orderID, ErrOrderNotFound)
	}
	if !order.Delivered {
		return nil, ErrNotDelivered
	}
	if order.Item(sku) == nil {
		return nil, itemNotFoundError(sku, orderID)
	}

	s.returnSeq++
	ret := &Return{
		ID:      fmt.Sprintf("RETN%04d", s.returnSeq),
		OrderID: orderID,
		SKU:     sku,
		Reason:  reason,
		Status:  "Return Initiated",
	}
	s.returns[ret.ID] = ret

	out := *ret
	return &out, nil
}

// Return fetches a previously created return by id, or nil.
func (s *InMemoryStore) Return(id string) *Return {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret, ok := s.returns[id]
	if !ok {
		return nil
	}
	out := *ret
	return &out
}

func cloneOrder(o *Order) *Order {
	clone := *o
	clone.Items = make([]Item, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
