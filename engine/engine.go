// Package engine implements the dialogue orchestration core: a table-driven
// finite-state machine that turns one inbound user message plus accumulated
// conversation history into exactly one reply. Stages run in a fixed order
// per turn (classify, then dispatch or the return workflow, then compose)
// and communicate through ConversationState fields rather than return
// values; stage failures become state the composer phrases for the user,
// never errors crossing stage boundaries.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haroonj/Ai-Bot/core"
	"github.com/haroonj/Ai-Bot/internal/util"
	"github.com/haroonj/Ai-Bot/logging"
	"github.com/haroonj/Ai-Bot/metrics"
	"github.com/haroonj/Ai-Bot/model"
	"github.com/haroonj/Ai-Bot/tool"
)

// Stage identifies one processing stage of the turn state machine.
type Stage string

// Stages of the turn graph.
const (
	StageClassify       Stage = "classify"
	StageDispatch       Stage = "dispatch"
	StageReturnWorkflow Stage = "return_workflow"
	StageCompose        Stage = "compose"
	StageEnd            Stage = "end"
)

// transitions is the pure (stage, signal) -> stage table. Every edge of the
// turn graph is enumerated here; nothing routes dynamically.
var transitions = map[Stage]map[core.RouteSignal]Stage{
	StageClassify: {
		core.RouteDispatch:       StageDispatch,
		core.RouteReturnWorkflow: StageReturnWorkflow,
		core.RouteCompose:        StageCompose,
	},
	StageDispatch: {
		core.RouteCompose: StageCompose,
	},
	StageReturnWorkflow: {
		core.RouteCompose: StageCompose,
	},
	StageCompose: {
		core.RouteNone: StageEnd,
	},
}

// nextStage resolves one transition. Unknown (stage, signal) pairs fall back
// to composition so a buggy stage can never strand the turn.
func nextStage(from Stage, signal core.RouteSignal) Stage {
	if to, ok := transitions[from][signal]; ok {
		return to
	}
	if from == StageCompose {
		return StageEnd
	}
	return StageCompose
}

// maxTransitions caps stage hops per turn. The longest legitimate path is
// classify -> workflow -> compose -> end; the cap is a loop guard, not a
// tuning knob.
const maxTransitions = 8

// Options configure an Engine.
type Options struct {
	Logger  logging.Logger
	Metrics metrics.Recorder

	// Instructions is the system prompt for the classification model call.
	Instructions string

	// HistoryTokenBudget bounds the estimated token count of the history
	// sent to the model; oldest messages are dropped first. Zero disables
	// the budget.
	HistoryTokenBudget int

	// MaxHistoryMessages bounds the number of history messages sent to the
	// model. Zero disables the cap.
	MaxHistoryMessages int
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) func(o *Options) {
	return func(o *Options) { o.Metrics = recorder }
}

// WithInstructions overrides the classification system prompt.
func WithInstructions(instructions string) func(o *Options) {
	return func(o *Options) { o.Instructions = instructions }
}

// WithHistoryTokenBudget sets the token budget for model-bound history.
func WithHistoryTokenBudget(budget int) func(o *Options) {
	return func(o *Options) { o.HistoryTokenBudget = budget }
}

// WithMaxHistoryMessages caps the number of history messages sent to the
// model.
func WithMaxHistoryMessages(n int) func(o *Options) {
	return func(o *Options) { o.MaxHistoryMessages = n }
}

// Engine drives one conversation turn through the stage graph. It holds no
// per-conversation state and is safe for concurrent use as long as its
// injected dependencies are.
type Engine struct {
	model   model.Model
	tools   *tool.Registry
	logger  logging.Logger
	metrics metrics.Recorder
	tokens  *util.TokenCounter

	instructions       string
	historyTokenBudget int
	maxHistoryMessages int
}

// New constructs an Engine over a model and a tool registry.
func New(m model.Model, tools *tool.Registry, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		Metrics:      metrics.NoopRecorder{},
		Instructions: classifierInstructions,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		model:              m,
		tools:              tools,
		logger:             opts.Logger,
		metrics:            opts.Metrics,
		tokens:             util.NewTokenCounter(),
		instructions:       opts.Instructions,
		historyTokenBudget: opts.HistoryTokenBudget,
		maxHistoryMessages: opts.MaxHistoryMessages,
	}
}

// Result is the outcome of one processed turn. The caller owns persistence
// of History between turns.
type Result struct {
	Reply         string
	History       []core.Message
	Intent        core.Intent
	AwaitingInput bool
}

// ProcessTurn runs one full turn: the history from previous turns plus the
// fresh user utterance in, one reply and the updated history out. The error
// return covers malformed handoffs only; stage failures end in a composed
// user-facing message instead.
func (e *Engine) ProcessTurn(ctx context.Context, history []core.Message, userText string) (*Result, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, fmt.Errorf("process turn: empty user text")
	}
	if len(history) > 0 && history[len(history)-1].Role == core.RoleUser {
		return nil, fmt.Errorf("process turn: history already ends with a user message")
	}

	start := time.Now()
	st := core.NewConversationState(history, userText)
	rehydrate(st)

	stage := StageClassify
	for hops := 0; stage != StageEnd; hops++ {
		if hops >= maxTransitions {
			e.logger.Error("engine.turn.loop_guard", "stage", string(stage))
			st.SetError("Something went wrong while processing your request. Please try again.")
			e.compose(ctx, st)
			break
		}
		e.logger.Debug("engine.turn.stage", "stage", string(stage))

		switch stage {
		case StageClassify:
			e.classify(ctx, st)
		case StageDispatch:
			e.dispatch(ctx, st)
		case StageReturnWorkflow:
			e.runReturnWorkflow(ctx, st)
		case StageCompose:
			e.compose(ctx, st)
		}
		stage = nextStage(stage, st.ConsumeRoute())
	}

	reply := ""
	if last := st.LastMessage(); last != nil && last.Role == core.RoleAssistant {
		reply = last.Text
	}

	success := st.LastError == ""
	e.metrics.ObserveTurn(string(st.Intent), success, time.Since(start))
	e.logger.Info("engine.turn.completed",
		"intent", string(st.Intent),
		"awaiting_input", st.AwaitingInput,
		"success", success,
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{
		Reply:         reply,
		History:       st.History,
		Intent:        st.Intent,
		AwaitingInput: st.AwaitingInput,
	}, nil
}

// generate performs one model call with metrics and logging around it.
func (e *Engine) generate(ctx context.Context, req model.Request) (*model.Response, error) {
	info := e.model.Info()
	start := time.Now()
	resp, err := e.model.Generate(ctx, req)
	duration := time.Since(start)
	if err != nil {
		e.metrics.ObserveModelCall(info.Provider, info.Name, 0, 0, false, duration)
		e.logger.Error("engine.model.error", "provider", info.Provider, "model", info.Name, "error", err.Error())
		return nil, err
	}
	e.metrics.ObserveModelCall(info.Provider, info.Name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, true, duration)
	return resp, nil
}

// execTool runs one registry execution with metrics around it. It appends no
// history records; callers decide whether a transcript record is owed.
func (e *Engine) execTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	start := time.Now()
	result, err := e.tools.Execute(ctx, name, args)
	e.metrics.ObserveToolCall(name, err == nil, time.Since(start))
	return result, err
}

// modelHistory returns the history window sent to the model: the message
// count cap first, then the token budget, always keeping the trailing user
// message.
func (e *Engine) modelHistory(history []core.Message) []core.Message {
	msgs := history
	if e.maxHistoryMessages > 0 && len(msgs) > e.maxHistoryMessages {
		msgs = msgs[len(msgs)-e.maxHistoryMessages:]
	}
	if e.historyTokenBudget <= 0 {
		return msgs
	}
	total := 0
	counts := make([]int, len(msgs))
	for i, m := range msgs {
		counts[i] = e.tokens.Count(m.Text)
		total += counts[i]
	}
	drop := 0
	for drop < len(msgs)-1 && total > e.historyTokenBudget {
		total -= counts[drop]
		drop++
	}
	return msgs[drop:]
}
