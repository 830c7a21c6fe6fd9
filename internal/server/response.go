package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindgraph/internal/apperr"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// respondError writes the failure envelope. Errors that are not *apperr.Error are
// reported as internal and their text is only logged.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = apperr.InvalidInput("request body too large")
	}
	ae := apperr.As(err)

	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "kind", ae.Kind, "error", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "kind", ae.Kind, "message", ae.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := envelope{Error: &errorBody{Code: ae.Kind, Message: ae.Message}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode error response", "error", err)
	}
}
