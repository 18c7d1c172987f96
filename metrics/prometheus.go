package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements Recorder on top of a Prometheus registerer.
type PrometheusRecorder struct {
	turnsTotal    *prometheus.CounterVec
	turnDuration  *prometheus.HistogramVec
	modelCalls    *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
	promptTokens  *prometheus.CounterVec
	outputTokens  *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a PrometheusRecorder registering all metrics
// with the given registerer, usually prometheus.DefaultRegisterer.
func NewPrometheusRecorder(registerer prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(registerer)
	return &PrometheusRecorder{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aibot_turns_total",
			Help: "Total number of processed conversation turns.",
		}, []string{"intent", "success"}),
		turnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aibot_turn_duration_seconds",
			Help:    "Duration of conversation turns in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"intent"}),
		modelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aibot_model_calls_total",
			Help: "Total number of model invocations.",
		}, []string{"provider", "model", "success"}),
		modelDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aibot_model_call_duration_seconds",
			Help:    "Duration of model invocations in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "model"}),
		promptTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aibot_model_prompt_tokens_total",
			Help: "Total prompt tokens sent to models.",
		}, []string{"provider", "model"}),
		outputTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aibot_model_completion_tokens_total",
			Help: "Total completion tokens received from models.",
		}, []string{"provider", "model"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aibot_tool_calls_total",
			Help: "Total number of tool executions.",
		}, []string{"tool", "success"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aibot_tool_call_duration_seconds",
			Help:    "Duration of tool executions in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"tool"}),
	}
}

func (r *PrometheusRecorder) ObserveTurn(intent string, success bool, duration time.Duration) {
	r.turnsTotal.WithLabelValues(intent, strconv.FormatBool(success)).Inc()
	r.turnDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveModelCall(provider, model string, promptTokens, completionTokens int, success bool, duration time.Duration) {
	r.modelCalls.WithLabelValues(provider, model, strconv.FormatBool(success)).Inc()
	r.modelDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if promptTokens > 0 {
		r.promptTokens.WithLabelValues(provider, model).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		r.outputTokens.WithLabelValues(provider, model).Add(float64(completionTokens))
	}
}

func (r *PrometheusRecorder) ObserveToolCall(tool string, success bool, duration time.Duration) {
	r.toolCalls.WithLabelValues(tool, strconv.FormatBool(success)).Inc()
	r.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}
