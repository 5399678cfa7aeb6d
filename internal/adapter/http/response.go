package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrRunActive):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrParameter):
		status = http.StatusBadRequest
		msg = err.Error()
	default:
		slog.Error("internal error", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: msg})
}
