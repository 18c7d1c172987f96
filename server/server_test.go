package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aibot "github.com/haroonj/Ai-Bot"
	"github.com/haroonj/Ai-Bot/internal/testutil"
	"github.com/haroonj/Ai-Bot/tool"
)

func newTestServer(t *testing.T, m *testutil.ScriptedModel) *httptest.Server {
	t.Helper()
	bot, err := aibot.New(m)
	require.NoError(t, err)
	ts := httptest.NewServer(New(bot).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postChat(t *testing.T, ts *httptest.Server, body any) (*http.Response, chatResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded chatResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t, testutil.NewScriptedModel())

	resp, decoded := postChat(t, ts, chatRequest{Query: "hi"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decoded.Reply, "Hello!")
	assert.NotEmpty(t, decoded.ConversationID)
}

func TestChatEndpointCarriesConversation(t *testing.T) {
	m := testutil.NewScriptedModel().
		PushToolCall(tool.NameOrderDetails, map[string]string{"order_id": "789"})
	ts := newTestServer(t, m)

	_, first := postChat(t, ts, chatRequest{Query: "return something from 789"})
	assert.Contains(t, first.Reply, "Which item would you like to return?")

	_, second := postChat(t, ts, chatRequest{
		Query:          "ITEM004",
		ConversationID: first.ConversationID,
	})
	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Contains(t, second.Reply, "why you're returning")
}

func TestChatEndpointRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, testutil.NewScriptedModel())

	resp, _ := postChat(t, ts, chatRequest{Query: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, testutil.NewScriptedModel())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	bot, err := aibot.New(testutil.NewScriptedModel())
	require.NoError(t, err)
	ts := httptest.NewServer(New(bot, WithDefaultMetrics()).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	ts := newTestServer(t, testutil.NewScriptedModel())

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
