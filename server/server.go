// Package server exposes the bot over HTTP: a chat endpoint, a health
// probe and an optional Prometheus metrics endpoint.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	aibot "github.com/haroonj/Ai-Bot"
	"github.com/haroonj/Ai-Bot/logging"
)

// Options configure a Server.
type Options struct {
	Logger logging.Logger

	// MetricsHandler, when set, is mounted at GET /metrics. Usually
	// promhttp.Handler().
	MetricsHandler http.Handler
}

// WithLogger sets the request logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithMetricsHandler mounts a metrics handler at GET /metrics.
func WithMetricsHandler(h http.Handler) func(o *Options) {
	return func(o *Options) { o.MetricsHandler = h }
}

// WithDefaultMetrics mounts the default Prometheus handler at GET /metrics.
func WithDefaultMetrics() func(o *Options) {
	return func(o *Options) { o.MetricsHandler = promhttp.Handler() }
}

// Server serves the chat API for one Bot.
type Server struct {
	bot     *aibot.Bot
	logger  logging.Logger
	metrics http.Handler
}

// New constructs a Server around a Bot.
func New(bot *aibot.Bot, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{bot: bot, logger: opts.Logger, metrics: opts.MetricsHandler}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return mux
}

type chatRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must not be empty"})
		return
	}

	reply, conversationID, err := s.bot.Chat(r.Context(), req.ConversationID, req.Query)
	if err != nil {
		s.logger.Error("server.chat.error", "conversation_id", req.ConversationID, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to process the message"})
		return
	}

	s.logger.Info("server.chat.completed",
		"conversation_id", conversationID,
		"duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, ConversationID: conversationID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
