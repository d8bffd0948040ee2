package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/desertthunder/trackrate/internal/store"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// APIHandler serves the store operations as JSON endpoints.
type APIHandler struct {
	svc    store.Service
	logger *log.Logger
}

// NewAPIHandler creates an APIHandler over svc.
func NewAPIHandler(svc store.Service, logger *log.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: logger}
}

// Register adds every API route to r. login wraps POST /login, typically with a rate limiter.
func (h *APIHandler) Register(r Router, login Middleware) {
	loginHandler := http.Handler(http.HandlerFunc(h.login))
	if login != nil {
		loginHandler = login(loginHandler)
	}

	r.Handle(http.MethodPost, "/login", loginHandler)
	r.Handle(http.MethodGet, "/tracks", http.HandlerFunc(h.listTracks))
	r.Handle(http.MethodGet, "/tracks/search", http.HandlerFunc(h.findTracks))
	r.Handle(http.MethodPut, "/tracks/{id}", http.HandlerFunc(h.updateTrack))
	r.Handle(http.MethodGet, "/users", http.HandlerFunc(h.listUsers))
	r.Handle(http.MethodPost, "/users", http.HandlerFunc(h.addUser))
	r.Handle(http.MethodPut, "/users/{login}", http.HandlerFunc(h.updateUser))
	r.Handle(http.MethodGet, "/reviews", http.HandlerFunc(h.listReviews))
	r.Handle(http.MethodPost, "/reviews", http.HandlerFunc(h.addReview))
	r.Handle(http.MethodPut, "/reviews/{id}", http.HandlerFunc(h.updateReview))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.svc.CheckLogin(r.Context(), req.Login, req.Password)
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid login or password")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *APIHandler) listTracks(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.svc.ListTracks)
}

func (h *APIHandler) findTracks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeList(h, w, r, func(ctx context.Context) ([]models.TrackSummary, error) {
		return h.svc.FindTracks(ctx, q)
	})
}

func (h *APIHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.svc.ListUsers)
}

func (h *APIHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.svc.ListReviews)
}

func (h *APIHandler) updateTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update models.TrackUpdate
	if !decode(w, r, &update) {
		return
	}
	update.ID = id

	if err := h.svc.UpdateTrack(r.Context(), update); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) addUser(w http.ResponseWriter, r *http.Request) {
	var account models.NewAccount
	if !decode(w, r, &account) {
		return
	}

	if err := h.svc.AddUser(r.Context(), account); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"login": account.Login})
}

func (h *APIHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var update models.AccountUpdate
	if !decode(w, r, &update) {
		return
	}
	update.Login = chi.URLParam(r, "login")

	if err := h.svc.UpdateUser(r.Context(), update); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var review models.NewReview
	if !decode(w, r, &review) {
		return
	}

	id, err := h.svc.AddReview(r.Context(), review)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"reviewid": id})
}

func (h *APIHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update models.ReviewUpdate
	if !decode(w, r, &update) {
		return
	}
	update.ID = id

	if err := h.svc.UpdateReview(r.Context(), update); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail writes the status for err's kind. Unclassified errors are hidden behind a generic message.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error("unhandled error", "error", err, "request_id", RequestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeError(w, code, msg)
}

// StatusFor maps an error kind from package shared to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, shared.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeList writes the rows from list, with an empty listing as [].
func writeList[T any](h *APIHandler, w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	rows, err := list(r.Context())
	if errors.Is(err, shared.ErrNotFound) {
		writeJSON(w, http.StatusOK, []T{})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// writeJSON writes JSON with status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a standardized JSON error
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
