package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/app"
	"charter_sync/internal/domain"
	"charter_sync/internal/normalize"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handlers struct {
	Q *app.QueryService
	S *app.SyncService

	// syncing guards against overlapping triggered runs.
	syncing atomic.Bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/yachts", h.listYachts)
	s.mux.Get("/v1/yachts/{id}", h.getYacht)
	s.mux.Get("/v1/reservations/{id}", h.getReservation)
	s.mux.Get("/v1/stats/yachts", h.yachtStats)
	s.mux.Get("/v1/free-cabins/criteria", h.freeCabinCriteria)
	s.mux.Get("/v1/free-cabins/packages", h.freeCabinPackages)

	s.mux.Post("/v1/sync", h.syncAll)
	s.mux.Post("/v1/sync/{domain}", h.syncDomain)
	s.mux.Get("/v1/sync/runs/latest", h.latestRun)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrUpstreamStatus):
		log.Warn().Err(err).Str("resource", what).Msg("upstream failure")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "charter provider unavailable")
	default:
		log.Error().Err(err).Str("resource", what).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON answers with v, or 304 when the client already holds it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
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

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// params reads optional query parameters and remembers the first bad one.
type params struct {
	r   *http.Request
	bad string
}

func (p *params) id(name string) *int64 {
	v := p.r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		p.fail(name)
		return nil
	}
	return &n
}

func (p *params) num(name string, def, lo, hi int) int {
	v := p.r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		p.fail(name)
		return def
	}
	return n
}

// date accepts DD.MM.YYYY as well as ISO dates.
func (p *params) date(name string) *time.Time {
	v := p.r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	t := normalize.ParseProviderDate(v)
	if t == nil {
		p.fail(name)
	}
	return t
}

func (p *params) fail(name string) {
	if p.bad == "" {
		p.bad = name
	}
}

func (h *Handlers) listYachts(w http.ResponseWriter, r *http.Request) {
	p := &params{r: r}
	q := domain.YachtsQuery{
		CompanyID:      p.id("companyId"),
		BaseID:         p.id("baseId"),
		CategoryID:     p.id("categoryId"),
		LocationFromID: p.id("locationFrom"),
		LocationToID:   p.id("locationTo"),
		PeriodFrom:     p.date("periodFrom"),
		PeriodTo:       p.date("periodTo"),
		Limit:          p.num("limit", defaultLimit, 1, maxLimit),
		Offset:         p.num("offset", 0, 0, 1<<30),
	}
	if v := r.URL.Query().Get("minCabins"); v != "" {
		n := p.num("minCabins", 0, 0, 100)
		q.MinCabins = &n
	}
	if p.bad != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid parameter", p.bad+" is malformed")
		return
	}
	if q.PeriodFrom != nil && q.PeriodTo != nil && q.PeriodFrom.After(*q.PeriodTo) {
		writeProblem(w, http.StatusBadRequest, "Invalid period", "periodFrom is after periodTo")
		return
	}

	page, err := h.Q.ListYachts(r.Context(), q)
	if err != nil {
		writeError(w, err, "yachts")
		return
	}
	writeJSON(w, r, page)
}

func (h *Handlers) getYacht(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	y, err := h.Q.GetYacht(r.Context(), id)
	if err != nil {
		writeError(w, err, "yacht")
		return
	}
	writeJSON(w, r, y)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	res, err := h.Q.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err, "reservation")
		return
	}
	writeJSON(w, r, res)
}

func (h *Handlers) yachtStats(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "charterCompanyId"
	}
	groups, err := h.Q.YachtStats(r.Context(), by)
	if err != nil {
		writeError(w, err, "stats")
		return
	}
	writeJSON(w, r, map[string]any{"by": by, "groups": groups})
}

func (h *Handlers) freeCabinCriteria(w http.ResponseWriter, r *http.Request) {
	c, err := h.S.FreeCabinCriteria(r.Context())
	if err != nil {
		writeError(w, err, "free cabin criteria")
		return
	}
	writeJSON(w, r, c)
}

func (h *Handlers) freeCabinPackages(w http.ResponseWriter, r *http.Request) {
	p := &params{r: r}
	from, to := p.date("from"), p.date("to")
	q := domain.CabinPackageQuery{
		CountryID:  p.id("countryId"),
		LocationID: p.id("locationId"),
		CompanyID:  p.id("companyId"),
	}
	if p.bad != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid parameter", p.bad+" is malformed")
		return
	}
	if from == nil || to == nil || from.After(*to) {
		writeProblem(w, http.StatusBadRequest, "Invalid period", "from and to are required, from <= to")
		return
	}
	q.From, q.To = *from, *to

	pkgs, err := h.S.SearchFreeCabinPackages(r.Context(), q)
	if err != nil {
		writeError(w, err, "free cabin packages")
		return
	}
	writeJSON(w, r, map[string]any{"items": pkgs, "total": len(pkgs)})
}

// startSync runs fn in the background unless a triggered run is in flight.
func (h *Handlers) startSync(w http.ResponseWriter, r *http.Request, scope string, fn func(context.Context)) {
	if !h.syncing.CompareAndSwap(false, true) {
		writeProblem(w, http.StatusConflict, "Conflict", "a sync run is already in progress")
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		defer h.syncing.Store(false)
		fn(ctx)
	}()
	log.Info().Str("scope", scope).Msg("sync triggered")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "started", "scope": scope})
}

func (h *Handlers) syncAll(w http.ResponseWriter, r *http.Request) {
	h.startSync(w, r, "all", func(ctx context.Context) {
		if _, err := h.S.SyncAll(ctx); err != nil {
			log.Error().Err(err).Msg("triggered sync run failed")
		}
	})
}

func (h *Handlers) syncDomain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	known := false
	for _, d := range h.S.Domains() {
		if d == name {
			known = true
			break
		}
	}
	if !known {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown sync domain "+strconv.Quote(name))
		return
	}
	h.startSync(w, r, name, func(ctx context.Context) {
		if _, err := h.S.SyncDomain(ctx, name); err != nil {
			log.Error().Err(err).Str("domain", name).Msg("triggered domain sync failed")
		}
	})
}

func (h *Handlers) latestRun(w http.ResponseWriter, r *http.Request) {
	rep, err := h.S.LatestRun(r.Context())
	if err != nil {
		writeError(w, err, "sync run")
		return
	}
	writeJSON(w, r, rep)
}
