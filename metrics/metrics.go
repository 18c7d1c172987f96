// Package metrics defines the instrumentation surface of the bot and a
// Prometheus-backed implementation of it. Components receive a Recorder and
// never touch the Prometheus client directly, so metrics can be disabled by
// injecting the no-op recorder.
package metrics

import "time"

// Recorder receives observations from the engine, the model adapters and the
// tool registry. Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveTurn records one completed conversation turn.
	ObserveTurn(intent string, success bool, duration time.Duration)

	// ObserveModelCall records one model invocation with its token usage.
	ObserveModelCall(provider, model string, promptTokens, completionTokens int, success bool, duration time.Duration)

	// ObserveToolCall records one tool execution.
	ObserveToolCall(tool string, success bool, duration time.Duration)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

func (NoopRecorder) ObserveTurn(string, bool, time.Duration) {}

func (NoopRecorder) ObserveModelCall(string, string, int, int, bool, time.Duration) {}

func (NoopRecorder) ObserveToolCall(string, bool, time.Duration) {}
