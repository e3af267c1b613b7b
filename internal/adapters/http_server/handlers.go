package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"company_reviews/internal/app"
	"company_reviews/internal/domain"
)

const defaultLimit = 50

type Handlers struct{ Q *app.QueryService }

type reviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

type countResponse struct {
	ReviewsCount int `json:"reviewsCount"`
}

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/reviews", h.getReviews)
	s.mux.Get("/reviews/count", h.getReviewsCount)
}

// mapError converts a service error into a status and a client-safe message.
// Only InvalidArgument text reaches the client.
func mapError(err error, fallback string) (int, string) {
	var ia *domain.InvalidArgumentError
	if errors.As(err, &ia) {
		return http.StatusBadRequest, ia.Error()
	}
	return http.StatusInternalServerError, fallback
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := mapError(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg(fallback)
	}
	writeJSON(w, status, errorBody{StatusCode: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// queryInt returns def when the key is absent; ok is false when the value is
// present but not an integer.
func queryInt(r *http.Request, key string, def int) (n int, raw string, ok bool) {
	raw = strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, raw, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, raw, false
	}
	return n, raw, true
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	// limit is checked before page, here and in the service
	limit, raw, ok := queryInt(r, "limit", defaultLimit)
	if !ok {
		writeError(w, r, domain.InvalidLimit(raw), "")
		return
	}
	page, raw, ok := queryInt(r, "page", 1)
	if !ok {
		writeError(w, r, domain.InvalidPage(raw), "")
		return
	}

	out, err := h.Q.GetPage(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err, "Error fetching reviews")
		return
	}

	etag, body, err := calcETagAndBody(reviewsResponse{Reviews: out.Items})
	if err != nil {
		writeError(w, r, err, "Error fetching reviews")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getReviews body")
	}
}

func (h *Handlers) getReviewsCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Q.Count(r.Context())
	if err != nil {
		writeError(w, r, err, "Error fetching reviews count")
		return
	}
	writeJSON(w, http.StatusOK, countResponse{ReviewsCount: n})
}
