package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mindgraph/internal/apperr"
	"mindgraph/internal/generator"
	"mindgraph/internal/graph"
	"mindgraph/internal/pipeline"
)

type healthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Embeddings bool      `json:"embeddings"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "OK", Timestamp: s.now().UTC()}
	if s.ready != nil {
		resp.Embeddings = s.ready.Ready()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("failed to encode health response", "error", err)
	}
}

// generateRequest keeps text as raw JSON so a non-string value is reported as invalid input.
type generateRequest struct {
	Text  json.RawMessage `json:"text"`
	Title string          `json:"title"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			s.respondError(w, r, apperr.InvalidInput("request body is required"))
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, err)
			return
		}
		s.respondError(w, r, apperr.InvalidInput("invalid JSON body"))
		return
	}

	var text string
	if len(body.Text) > 0 && string(body.Text) != "null" {
		if err := json.Unmarshal(body.Text, &text); err != nil {
			s.respondError(w, r, apperr.InvalidInput("text must be a string"))
			return
		}
	}

	rec, err := s.runner.Generate(r.Context(), pipeline.Request{Text: text, Title: body.Title})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) listMindmaps(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, apperr.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	list, err := s.store.ListMindmaps(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) getMindmap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetMindmap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteMindmap(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMindmap(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportMindmap(w http.ResponseWriter, r *http.Request) {
	format, err := generator.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.store.GetMindmap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out, err := generator.Export(&rec.Mindmap, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		s.log.Warn("export write failed", "id", rec.ID, "error", err)
	}
}

func (s *Server) focusMindmap(w http.ResponseWriter, r *http.Request) {
	hops := 1
	if v := r.URL.Query().Get("hops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, apperr.InvalidInput("hops must be a non-negative integer"))
			return
		}
		hops = n
	}

	rec, err := s.store.GetMindmap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	focus, ok := graph.FocusOn(&rec.Mindmap, nodeID, hops)
	if !ok {
		s.respondError(w, r, apperr.NotFound("node "+nodeID))
		return
	}
	s.respondJSON(w, http.StatusOK, focus)
}
