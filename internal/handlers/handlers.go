package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/metrics"
	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/scope"
	"github.com/edusphere/backend/internal/store"
)

// Handler carries the service through every endpoint.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeScopeError maps scoping failures onto the HTTP taxonomy: missing
// actor and unknown role are the caller's fault, forbidden is explicit,
// everything else is a store failure.
func writeScopeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scope.ErrMissingActor), errors.Is(err, scope.ErrUnknownRole):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scope.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error.Printf("Scoped fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
	}
}

// writeStoreMutationError maps mutation failures: absent target is 404.
func writeStoreMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	logger.Error.Printf("Mutation failed: %v", err)
	writeError(w, http.StatusInternalServerError, "store failure")
}

// actorFromQuery builds the actor from the role-specific owner key.
// A missing id is a bad request, never a silent empty result.
func (h *Handler) actorFromQuery(w http.ResponseWriter, r *http.Request, param string, role string) (scope.Actor, bool) {
	id := r.URL.Query().Get(param)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: "+param)
		return scope.Actor{}, false
	}

	actor := scope.Actor{ID: id, Role: roleFromLabel(role)}
	if !actor.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return scope.Actor{}, false
	}
	if err := h.service.AuthorizeActor(r, actor); err != nil {
		logger.Debug.Printf("Actor authorization failed: %v", err)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return scope.Actor{}, false
	}
	return actor, true
}

func roleFromLabel(label string) models.Role {
	return models.Role(label)
}

// orEmpty keeps list responses as [] instead of null when nothing
// matched the scope.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Observe wraps a handler with the request-duration histogram, labeled
// by the route pattern rather than the raw path.
func Observe(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.APIRequestDuration.WithLabelValues(
			pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
