package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(NewSampleStore()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Status(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/orders/789/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "789", body.OrderID)
	assert.Equal(t, "Delivered", body.Status)
}

func TestServer_StatusNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/orders/000/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Detail, "not found")
}

func TestServer_TrackingUnavailable(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/orders/456/tracking")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body trackingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.TrackingNumber)
	assert.Equal(t, "Tracking not available yet", body.Status)
}

func TestServer_CreateReturn(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/returns", "application/json",
		strings.NewReader(`{"order_id":"789","sku":"ITEM004","reason":"too small"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body returnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "RETN0001", body.ReturnID)
	assert.Equal(t, "Return Initiated", body.Status)
}

func TestServer_CreateReturnRejections(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"not delivered", `{"order_id":"123","sku":"ITEM001"}`, http.StatusBadRequest},
		{"unknown sku", `{"order_id":"789","sku":"ITEM999"}`, http.StatusNotFound},
		{"unknown order", `{"order_id":"000","sku":"ITEM004"}`, http.StatusNotFound},
		{"missing fields", `{"order_id":"789"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/returns", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestClient_AgainstServer(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.URL)

	order, err := client.Order(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", order.Status)
	assert.Equal(t, "TRACK987", order.TrackingNumber)
	assert.Equal(t, "MockExpress", order.Carrier)
	assert.Equal(t, "In Transit", order.TrackingStatus)
	assert.Len(t, order.Items, 2)

	// Order without tracking keeps the tracking fields empty.
	order, err = client.Order(context.Background(), "456")
	require.NoError(t, err)
	assert.Empty(t, order.TrackingNumber)

	_, err = client.Order(context.Background(), "000")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	ret, err := client.CreateReturn(context.Background(), "789", "ITEM004", nil)
	require.NoError(t, err)
	assert.Equal(t, "RETN0001", ret.ID)

	_, err = client.CreateReturn(context.Background(), "123", "ITEM001", nil)
	assert.ErrorIs(t, err, ErrNotDelivered)

	_, err = client.CreateReturn(context.Background(), "789", "ITEM999", nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
