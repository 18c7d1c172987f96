package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusRecorder(registry)

	recorder.ObserveTurn("status_lookup", true, 120*time.Millisecond)
	recorder.ObserveTurn("status_lookup", true, 80*time.Millisecond)
	recorder.ObserveTurn("unsupported", false, 10*time.Millisecond)
	recorder.ObserveModelCall("openai", "gpt-4o-mini", 250, 40, true, 900*time.Millisecond)
	recorder.ObserveToolCall("get_order_status", true, 3*time.Millisecond)
	recorder.ObserveToolCall("get_order_status", false, 2*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(recorder.turnsTotal.WithLabelValues("status_lookup", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.turnsTotal.WithLabelValues("unsupported", "false")))
	assert.Equal(t, float64(250), testutil.ToFloat64(recorder.promptTokens.WithLabelValues("openai", "gpt-4o-mini")))
	assert.Equal(t, float64(40), testutil.ToFloat64(recorder.outputTokens.WithLabelValues("openai", "gpt-4o-mini")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.toolCalls.WithLabelValues("get_order_status", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.toolCalls.WithLabelValues("get_order_status", "false")))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopRecorder(t *testing.T) {
	var recorder Recorder = NoopRecorder{}

	recorder.ObserveTurn("greeting", true, time.Millisecond)
	recorder.ObserveModelCall("ollama", "llama3.2", 0, 0, false, time.Second)
	recorder.ObserveToolCall("knowledge_base_lookup", true, time.Millisecond)
}
