package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/combination"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/mention"
	"github.com/aretw0/blend/pkg/ports"
	"github.com/aretw0/blend/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the combination API.
type Server struct {
	Combinations *combination.Service
	Sessions     *session.Manager
	Registry     ports.Registry

	// Streams receives session updates. Optional.
	Streams *StreamManager

	// Gatherer backs GET /metrics. Optional.
	Gatherer prometheus.Gatherer

	// PingInterval spaces keep-alive pings on session streams. Zero uses 15s.
	PingInterval time.Duration

	SuggestLimit int
	Version      string
	Logger       *slog.Logger
}

const defaultPingInterval = 15 * time.Second

// NewHandler builds the router for s. Requests are validated against the
// embedded OpenAPI document, served at /openapi.yaml.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	router, err := specRouter()
	if err != nil {
		panic(fmt.Sprintf("blend: embedded openapi document: %v", err))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(validateRequests(router, s.Logger))

	r.Get("/openapi.yaml", serveSpec)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/registry", s.GetRegistry)
	r.Get("/suggest", s.GetSuggestions)
	r.Post("/formula/parse", s.ParseFormula)
	r.Post("/formula/serialize", s.SerializeFormula)

	r.Route("/combinations", func(r chi.Router) {
		r.Get("/", s.ListCombinations)
		r.Post("/", s.CreateCombination)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCombination)
			r.Patch("/", s.UpdateCombination)
			r.Delete("/", s.DeleteCombination)
			r.Post("/duplicate", s.DuplicateCombination)

			r.Post("/terms", s.AddTerm)
			r.Put("/terms", s.ReplaceTerms)
			r.Put("/terms/{inputID}", s.SetCoefficient)
			r.Delete("/terms/{inputID}", s.RemoveTerm)

			r.Get("/session", s.GetSession)
			r.Post("/session", s.EnterSession)
			r.Delete("/session", s.ExitSession)
			r.Post("/session/events", s.DispatchEvent)
			r.Get("/session/stream", s.StreamSession)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	version := strings.TrimSpace(s.Version)
	if version == "" {
		version = "dev"
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "blend-http",
		"version": version,
	})
}

// GetRegistry handles GET /registry.
func (s *Server) GetRegistry(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Registry.Identifiers(r.Context())
	if err != nil {
		s.fail(w, "Registry failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSuggestions handles GET /suggest?q=&limit=.
func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	params, err := bindSuggestParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := s.SuggestLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	var query string
	if params.Q != nil {
		query = *params.Q
	}

	ids, err := s.Registry.Identifiers(r.Context())
	if err != nil {
		s.fail(w, "Registry failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, mention.Suggest(ids, query, limit))
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseFormula handles POST /formula/parse.
func (s *Server) ParseFormula(w http.ResponseWriter, r *http.Request) {
	var body parseRequest
	if !s.decode(w, r, &body) {
		return
	}
	ids, err := s.Registry.Identifiers(r.Context())
	if err != nil {
		s.fail(w, "Registry failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, formula.Parse(body.Text, ids))
}

type termsRequest struct {
	Terms []domain.Term `json:"terms"`
}

// SerializeFormula handles POST /formula/serialize.
func (s *Server) SerializeFormula(w http.ResponseWriter, r *http.Request) {
	var body termsRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": formula.Serialize(body.Terms)})
}

// ListCombinations handles GET /combinations.
func (s *Server) ListCombinations(w http.ResponseWriter, r *http.Request) {
	list, err := s.Combinations.List(r.Context())
	if err != nil {
		s.fail(w, "List failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateCombination handles POST /combinations. The body is optional.
func (s *Server) CreateCombination(w http.ResponseWriter, r *http.Request) {
	var body updateRequest
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}

	c, err := s.Combinations.Add(r.Context())
	if err != nil {
		s.fail(w, "Create failed", err)
		return
	}
	c, err = s.applyUpdate(r, c, body)
	if err != nil {
		s.fail(w, "Create failed", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

// GetCombination handles GET /combinations/{id}.
func (s *Server) GetCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	c, err := s.Combinations.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "Get failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// UpdateCombination handles PATCH /combinations/{id}.
func (s *Server) UpdateCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var body updateRequest
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.Combinations.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "Update failed", err)
		return
	}
	c, err = s.applyUpdate(r, c, body)
	if err != nil {
		s.fail(w, "Update failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) applyUpdate(r *http.Request, c *domain.Combination, body updateRequest) (*domain.Combination, error) {
	var err error
	if body.Name != nil {
		if c, err = s.Combinations.SetName(r.Context(), c.ID, *body.Name); err != nil {
			return nil, err
		}
	}
	if body.Description != nil {
		if c, err = s.Combinations.SetDescription(r.Context(), c.ID, *body.Description); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DeleteCombination handles DELETE /combinations/{id}. An open edit session
// of the combination is discarded.
func (s *Server) DeleteCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.Combinations.Delete(r.Context(), id); err != nil {
		s.fail(w, "Delete failed", err)
		return
	}
	if s.Sessions.Discard(id) {
		s.Logger.Debug("Discarded edit session of deleted combination", "combination_id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateCombination handles POST /combinations/{id}/duplicate.
func (s *Server) DuplicateCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	c, err := s.Combinations.Duplicate(r.Context(), id)
	if err != nil {
		s.fail(w, "Duplicate failed", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

type addTermRequest struct {
	InputID string `json:"input_id"`
	Name    string `json:"name"`
}

type addTermResponse struct {
	Combination *domain.Combination `json:"combination"`
	Added       bool                `json:"added"`
}

// AddTerm handles POST /combinations/{id}/terms. The input is looked up
// by input_id or, failing that, by name.
func (s *Server) AddTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var body addTermRequest
	if !s.decode(w, r, &body) {
		return
	}
	ids, err := s.Registry.Identifiers(r.Context())
	if err != nil {
		s.fail(w, "Registry failed", err)
		return
	}
	ident, found := lookupInput(ids, body)
	if !found {
		http.Error(w, "Unknown input", http.StatusUnprocessableEntity)
		return
	}

	c, added, err := s.Combinations.AddTerm(r.Context(), id, ident)
	if err != nil {
		s.fail(w, "Add term failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, addTermResponse{Combination: c, Added: added})
}

func lookupInput(ids []domain.Identifier, body addTermRequest) (domain.Identifier, bool) {
	if body.InputID != "" {
		for _, id := range ids {
			if id.ID == body.InputID {
				return id, true
			}
		}
		return domain.Identifier{}, false
	}
	return formula.Resolve(body.Name, ids)
}

// ReplaceTerms handles PUT /combinations/{id}/terms.
func (s *Server) ReplaceTerms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var body termsRequest
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.Combinations.ReplaceTerms(r.Context(), id, body.Terms)
	if err != nil {
		s.fail(w, "Replace terms failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

type coefficientRequest struct {
	Coefficient *float64 `json:"coefficient"`
}

// SetCoefficient handles PUT /combinations/{id}/terms/{inputID}.
func (s *Server) SetCoefficient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	inputID, ok := pathParam(w, r, "inputID")
	if !ok {
		return
	}
	var body coefficientRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Coefficient == nil {
		http.Error(w, "Missing coefficient", http.StatusBadRequest)
		return
	}
	c, err := s.Combinations.SetCoefficient(r.Context(), id, inputID, *body.Coefficient)
	if err != nil {
		s.fail(w, "Set coefficient failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// RemoveTerm handles DELETE /combinations/{id}/terms/{inputID}.
func (s *Server) RemoveTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	inputID, ok := pathParam(w, r, "inputID")
	if !ok {
		return
	}
	c, err := s.Combinations.RemoveTerm(r.Context(), id, inputID)
	if err != nil {
		s.fail(w, "Remove term failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// GetSession handles GET /combinations/{id}/session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Sessions.View(id))
}

// EnterSession handles POST /combinations/{id}/session.
func (s *Server) EnterSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	v, err := s.Sessions.Enter(r.Context(), id)
	if err != nil {
		s.fail(w, "Enter failed", err)
		return
	}
	s.publish(id, v)
	s.writeJSON(w, http.StatusOK, v)
}

// ExitSession handles DELETE /combinations/{id}/session.
func (s *Server) ExitSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	res, err := s.Sessions.Exit(r.Context(), id)
	if err != nil {
		s.fail(w, "Exit failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// DispatchEvent handles POST /combinations/{id}/session/events.
func (s *Server) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var ev session.Event
	if !s.decode(w, r, &ev) {
		return
	}
	v, err := s.Sessions.Dispatch(r.Context(), id, ev)
	if err != nil {
		s.fail(w, "Dispatch failed", err)
		return
	}
	s.publish(id, v)
	s.writeJSON(w, http.StatusOK, v)
}

// StreamSession handles GET /combinations/{id}/session/stream (SSE).
// A ping is sent on connect and then every PingInterval.
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	if s.Streams == nil {
		http.Error(w, "Streaming disabled", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	interval := s.PingInterval
	if interval <= 0 {
		interval = defaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.Logger.Debug("SSE client subscribed", "combination_id", id)
	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected", "combination_id", id)
			return
		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: keep-alive\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) publish(id string, v session.View) {
	if s.Streams != nil {
		s.Streams.Publish(id, "view", v)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCombinationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCoefficient):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoEditSession):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error(msg, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}
