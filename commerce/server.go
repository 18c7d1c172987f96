package commerce

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haroonj/Ai-Bot/logging"
)

// statusResponse mirrors the wire shape of GET /orders/{id}/status.
type statusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// trackingResponse mirrors the wire shape of GET /orders/{id}/tracking.
// Status carries "Tracking not available yet" when no number exists.
type trackingResponse struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Status         string `json:"status,omitempty"`
}

// detailsResponse mirrors the wire shape of GET /orders/{id}/details.
type detailsResponse struct {
	OrderID   string `json:"order_id"`
	Items     []Item `json:"items"`
	Status    string `json:"status"`
	Delivered bool   `json:"delivered"`
}

// returnRequest mirrors the wire shape of POST /returns.
type returnRequest struct {
	OrderID string  `json:"order_id"`
	SKU     string  `json:"sku"`
	Reason  *string `json:"reason,omitempty"`
}

// returnResponse mirrors the wire shape of the POST /returns reply.
type returnResponse struct {
	ReturnID string `json:"return_id,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server exposes a Store over HTTP with the mock commerce API surface.
type Server struct {
	store  Store
	logger logging.Logger
}

// ServerOptions configure the commerce API server.
type ServerOptions struct {
	Logger logging.Logger
}

// NewServer wraps a store with the HTTP API.
func NewServer(store Store, optFns ...func(o *ServerOptions)) *Server {
	opts := ServerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{store: store, logger: opts.Logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /orders/{id}/tracking", s.handleTracking)
	mux.HandleFunc("GET /orders/{id}/details", s.handleDetails)
	mux.HandleFunc("POST /returns", s.handleCreateReturn)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	order, err := s.store.Order(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{OrderID: order.ID, Status: order.Status})
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	order, err := s.store.Order(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if order.TrackingNumber == "" {
		writeJSON(w, http.StatusOK, trackingResponse{OrderID: order.ID, Status: "Tracking not available yet"})
		return
	}
	writeJSON(w, http.StatusOK, trackingResponse{
		OrderID:        order.ID,
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
		Status:         order.TrackingStatus,
	})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	order, err := s.store.Order(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsResponse{
		OrderID:   order.ID,
		Items:     order.Items,
		Status:    order.Status,
		Delivered: order.Delivered,
	})
}

func (s *Server) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if req.OrderID == "" || req.SKU == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "order_id and sku are required"})
		return
	}

	ret, err := s.store.CreateReturn(r.Context(), req.OrderID, req.SKU, req.Reason)
	if err != nil {
		s.logger.Warn("commerce.return.failed", "order_id", req.OrderID, "sku", req.SKU, "error", err.Error())
		s.writeStoreError(w, err)
		return
	}

	s.logger.Info("commerce.return.created", "return_id", ret.ID, "order_id", ret.OrderID, "sku", ret.SKU)
	writeJSON(w, http.StatusOK, returnResponse{
		ReturnID: ret.ID,
		Status:   ret.Status,
		Message:  "Return initiated successfully.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeStoreError maps store sentinel errors onto HTTP status codes while
// keeping the error text as the response detail.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrItemNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
