package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string, details interface{}, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		Details:   details,
		RequestID: r.Header.Get(middleware.RequestIDHeader),
	}
}

// rawDetails keeps an absent payload out of the response instead of
// rendering it as null.
func rawDetails(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *services.ValidationError
		configErr     *services.ConfigurationError
		upstreamErr   *services.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		var details interface{}
		if len(validationErr.Fields) > 0 {
			details = validationErr.Fields
		}
		writeJSON(w, http.StatusBadRequest, errorResp(validationErr.Message, details, r))
	case errors.As(err, &configErr):
		writeJSON(w, http.StatusInternalServerError, errorResp(configErr.Message, nil, r))
	case errors.As(err, &upstreamErr):
		writeJSON(w, http.StatusInternalServerError, errorResp(upstreamErr.Message, rawDetails(upstreamErr.Details), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error", nil, r))
	}
}

// MethodNotAllowed is the JSON 405 used by the router.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResp("Method not allowed", nil, r))
}

// NotFound is the JSON 404 used by the router.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResp("Not found", nil, r))
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
