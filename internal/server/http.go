package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/store"
)

const maxBodySize = 4096

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID string `json:"id"`
	game.View
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type createRequest struct {
	Name string `json:"name"`
}

type betRequest struct {
	Amount json.RawMessage `json:"amount"`
}

// raw returns the bet as the player typed it. Amounts may be sent as JSON
// numbers or strings.
func (b betRequest) raw() string {
	var text string
	if err := json.Unmarshal(b.Amount, &text); err == nil {
		return text
	}
	return string(b.Amount)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleStartOver)
			r.Post("/hand", s.handleCommand(game.CommandNewHand))
			r.Post("/bet", s.handleBet)
			r.Post("/player/hit", s.handleCommand(game.CommandHit))
			r.Post("/player/stay", s.handleCommand(game.CommandStay))
			r.Post("/dealer/hit", s.handleCommand(game.CommandDealerHit))
		})
	})
	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestId", middleware.GetReqID(r.Context()))
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, view, err := s.service.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, View: view})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

func (s *Server) handleStartOver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.service.StartOver(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

func (s *Server) handleBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.apply(w, r, game.Command{Kind: game.CommandBet, Amount: req.raw()})
}

func (s *Server) handleCommand(kind game.CommandKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apply(w, r, game.Command{Kind: kind})
	}
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, cmd game.Command) {
	id := chi.URLParam(r, "id")
	view, err := s.service.Apply(r.Context(), id, cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

// decodeBody reads a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Error: "request body must be a JSON object"})
		return false
	}
	return true
}

// errorStatus maps engine and store errors onto an HTTP status and a stable
// error code.
func errorStatus(err error) (int, string) {
	switch {
	case game.IsFault(err):
		return http.StatusInternalServerError, "internal_error"
	case game.IsValidation(err):
		return http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, game.ErrOutOfFunds):
		return http.StatusConflict, "out_of_funds"
	case errors.Is(err, game.ErrIllegalAction):
		return http.StatusConflict, "illegal_action"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors, the client has gone
}
