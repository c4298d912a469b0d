package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/report"
)

type Handlers struct {
	q      *app.QueryService
	store  *app.Store
	reload *rate.Limiter
}

// NewHandlers limits POST /v1/reload to reloadRPS (burst 1); zero or less
// leaves it unlimited.
func NewHandlers(q *app.QueryService, s *app.Store, reloadRPS float64) *Handlers {
	lim := rate.NewLimiter(rate.Inf, 1)
	if reloadRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(reloadRPS), 1)
	}
	return &Handlers{q: q, store: s, reload: lim}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.dashboard)
	s.mux.Get("/export.xlsx", h.export)
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/info", h.info)
		r.Get("/summary", h.summary)
		r.Get("/ratings", h.ratings)
		r.Get("/sources/{source}/reviews", h.sourceReviews)
		r.Get("/aspects", h.aspects)
		r.Get("/scores", h.scores)
		r.Get("/trends", h.trends)
		r.Post("/reload", h.reloadNow)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", "no snapshot has been built yet")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidPeriod):
		writeProblem(w, http.StatusBadRequest, "Invalid period", "period must be month or quarter")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag and answers 304 when the client has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) info(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.Info(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) ratings(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.RatingsBySource(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) sourceReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.ReviewsBySource(r.Context(), chi.URLParam(r, "source"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) aspects(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.Aspects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) scores(w http.ResponseWriter, r *http.Request) {
	out, err := h.q.Scores(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) trends(w http.ResponseWriter, r *http.Request) {
	p, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.q.Trend(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) reloadNow(w http.ResponseWriter, r *http.Request) {
	if !h.reload.Allow() {
		w.Header().Set("Retry-After", "5")
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "reload was triggered recently")
		return
	}
	snap := h.store.Reload(r.Context())
	writeJSON(w, r, snap.Info())
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.q.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if snap.Empty() {
		err = report.RenderNoData(&buf, snap.Info())
	} else {
		err = report.RenderHTML(&buf, report.NewView(snap))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write dashboard")
	}
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.q.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	if snap.Empty() {
		writeProblem(w, http.StatusNotFound, "No Data", domain.ErrNoData.Error())
		return
	}
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, report.NewView(snap)); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="reviews.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write workbook")
	}
}
