package commerce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Order(t *testing.T) {
	store := NewSampleStore()

	order, err := store.Order(context.Background(), "789")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", order.Status)
	assert.True(t, order.Delivered)
	assert.Len(t, order.Items, 2)
	assert.NotNil(t, order.Item("ITEM004"))
	assert.Nil(t, order.Item("ITEM999"))

	_, err = store.Order(context.Background(), "000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestInMemoryStore_OrderCloned(t *testing.T) {
	store := NewSampleStore()

	first, err := store.Order(context.Background(), "123")
	require.NoError(t, err)
	first.Status = "mutated"
	first.Items[0].Name = "mutated"

	second, err := store.Order(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", second.Status)
	assert.Equal(t, "Wireless Mouse", second.Items[0].Name)
}

func TestInMemoryStore_CreateReturn(t *testing.T) {
	store := NewSampleStore()
	reason := "dead pixels"

	ret, err := store.CreateReturn(context.Background(), "789", "ITEM004", &reason)
	require.NoError(t, err)
	assert.Equal(t, "RETN0001", ret.ID)
	assert.Equal(t, "Return Initiated", ret.Status)
	require.NotNil(t, store.Return("RETN0001"))

	// No reason is a valid submission.
	ret, err = store.CreateReturn(context.Background(), "789", "ITEM005", nil)
	require.NoError(t, err)
	assert.Equal(t, "RETN0002", ret.ID)
	assert.Nil(t, ret.Reason)
}

func TestInMemoryStore_CreateReturnNotIdempotent(t *testing.T) {
	store := NewSampleStore()

	first, err := store.CreateReturn(context.Background(), "789", "ITEM004", nil)
	require.NoError(t, err)
	second, err := store.CreateReturn(context.Background(), "789", "ITEM004", nil)
	require.NoError(t, err)

	// Identical submissions mint distinct returns; there is no dedupe key.
	assert.NotEqual(t, first.ID, second.ID)
}

func TestInMemoryStore_CreateReturnErrors(t *testing.T) {
	store := NewSampleStore()

	_, err := store.CreateReturn(context.Background(), "000", "ITEM004", nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = store.CreateReturn(context.Background(), "123", "ITEM001", nil)
	assert.ErrorIs(t, err, ErrNotDelivered)

	_, err = store.CreateReturn(context.Background(), "789", "ITEM999", nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
