package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haroonj/Ai-Bot/commerce"
	"github.com/haroonj/Ai-Bot/knowledge"
)

type staticRetriever struct {
	passages []knowledge.Passage
	err      error
}

func (r *staticRetriever) Search(ctx context.Context, query string, k int) ([]knowledge.Passage, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.passages, nil
}

func newTestRegistry(t *testing.T) (*Registry, commerce.Store) {
	t.Helper()
	store := commerce.NewSampleStore()
	registry := NewRegistry([]Tool{
		NewOrderStatusTool(store),
		NewTrackingInfoTool(store),
		NewOrderDetailsTool(store),
		NewInitiateReturnTool(store),
		NewKnowledgeBaseTool(&staticRetriever{passages: []knowledge.Passage{
			{ID: "p1", Content: "Returns are accepted within 30 days."},
			{ID: "p2", Content: "Refunds are issued to the original payment method."},
		}}),
	})
	return registry, store
}

func TestRegistryDefinitions(t *testing.T) {
	registry, _ := newTestRegistry(t)

	defs := registry.Definitions()
	require.Len(t, defs, 5)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		assert.Equal(t, "function", def.Type)
		names = append(names, def.Function.Name)
	}
	assert.Equal(t, []string{
		NameOrderStatus,
		NameTrackingInfo,
		NameOrderDetails,
		NameInitiateReturn,
		NameKnowledgeBase,
	}, names)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Execute(context.Background(), "does_not_exist", map[string]any{})
	require.Error(t, err)

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeNotFound, toolErr.Code)
	assert.Equal(t, "does_not_exist", toolErr.Tool)
}

func TestRegistryExecuteValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "missing order id", tool: NameOrderStatus, args: map[string]any{}},
		{name: "wrong type", tool: NameOrderStatus, args: map[string]any{"order_id": 123}},
		{name: "missing sku", tool: NameInitiateReturn, args: map[string]any{"order_id": "789"}},
		{name: "missing query", tool: NameKnowledgeBase, args: map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Execute(context.Background(), tt.tool, tt.args)
			require.Error(t, err)

			var toolErr *Error
			require.ErrorAs(t, err, &toolErr)
			assert.Equal(t, CodeValidation, toolErr.Code)
		})
	}
}

func TestOrderStatusTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Execute(context.Background(), NameOrderStatus, map[string]any{"order_id": "123"})
	require.NoError(t, err)
	assert.Equal(t, "123", result["order_id"])
	assert.Equal(t, "Shipped", result["status"])

	_, err = registry.Execute(context.Background(), NameOrderStatus, map[string]any{"order_id": "999"})
	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeNotFound, toolErr.Code)
	assert.Contains(t, toolErr.Message, "999")
}

func TestTrackingInfoTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	t.Run("shipped order has tracking", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), NameTrackingInfo, map[string]any{"order_id": "123"})
		require.NoError(t, err)
		assert.Equal(t, "TRACK987", result["tracking_number"])
		assert.Equal(t, "MockExpress", result["carrier"])
		assert.NotContains(t, result, "message")
	})

	t.Run("processing order has no tracking", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), NameTrackingInfo, map[string]any{"order_id": "456"})
		require.NoError(t, err)
		assert.Equal(t, "Tracking not available yet", result["message"])
		assert.NotContains(t, result, "tracking_number")
	})
}

func TestOrderDetailsTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Execute(context.Background(), NameOrderDetails, map[string]any{"order_id": "789"})
	require.NoError(t, err)
	assert.Equal(t, "789", result["order_id"])
	assert.Equal(t, true, result["delivered"])

	items, ok := result["items"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "ITEM004", items[0]["sku"])
	assert.Equal(t, "ITEM005", items[1]["sku"])
}

func TestInitiateReturnTool(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		wantCode string
	}{
		{
			name: "delivered order succeeds",
			args: map[string]any{"order_id": "789", "sku": "ITEM004", "reason": "arrived damaged"},
		},
		{
			name:     "undelivered order is not eligible",
			args:     map[string]any{"order_id": "123", "sku": "ITEM001"},
			wantCode: CodeNotEligible,
		},
		{
			name:     "unknown order",
			args:     map[string]any{"order_id": "999", "sku": "ITEM001"},
			wantCode: CodeNotFound,
		},
		{
			name:     "unknown sku",
			args:     map[string]any{"order_id": "789", "sku": "ITEM999"},
			wantCode: CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, _ := newTestRegistry(t)

			result, err := registry.Execute(context.Background(), NameInitiateReturn, tt.args)
			if tt.wantCode != "" {
				var toolErr *Error
				require.ErrorAs(t, err, &toolErr)
				assert.Equal(t, tt.wantCode, toolErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "RETN0001", result["return_id"])
			assert.Equal(t, "789", result["order_id"])
			assert.Equal(t, "ITEM004", result["sku"])
			assert.Equal(t, "arrived damaged", result["reason"])
		})
	}
}

func TestKnowledgeBaseTool(t *testing.T) {
	t.Run("joins passages", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		result, err := registry.Execute(context.Background(), NameKnowledgeBase, map[string]any{"query": "return policy"})
		require.NoError(t, err)
		assert.Equal(t, "Returns are accepted within 30 days.\n\nRefunds are issued to the original payment method.", result["context"])
	})

	t.Run("nil retriever fails with execution error", func(t *testing.T) {
		kb := NewKnowledgeBaseTool(nil)

		_, err := kb.Call(context.Background(), map[string]any{"query": "anything"})
		var toolErr *Error
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, CodeExecution, toolErr.Code)
		assert.Contains(t, toolErr.Message, "unavailable")
	})

	t.Run("retriever failure", func(t *testing.T) {
		kb := NewKnowledgeBaseTool(&staticRetriever{err: errors.New("index offline")})

		_, err := kb.Call(context.Background(), map[string]any{"query": "anything"})
		var toolErr *Error
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, CodeExecution, toolErr.Code)
	})
}
