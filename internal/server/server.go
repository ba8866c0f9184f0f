// Package server exposes the marketplace over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/internal/recorder"
	"github.com/iwvelando/lender-marketplace/internal/scoring"
	"github.com/iwvelando/lender-marketplace/pkg/output"
)

const serviceName = "marketplace"

// Scorer obtains a probability of default. *scoring.Client satisfies it.
type Scorer interface {
	Score(ctx context.Context, f scoring.Features) (scoring.Score, error)
}

// Dependencies are the collaborators the handler serves from. Recorder and
// Scorer are optional; without a Scorer the quote route is not registered.
type Dependencies struct {
	Engine   *marketplace.Engine
	Catalog  *catalog.Store
	Recorder recorder.Recorder
	Scorer   Scorer
}

type handler struct {
	logger   *zap.Logger
	engine   *marketplace.Engine
	catalog  *catalog.Store
	recorder recorder.Recorder
	scorer   Scorer
	opts     Options
}

// NewHandler constructs the HTTP handler that serves the marketplace API.
func NewHandler(logger *zap.Logger, deps Dependencies, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NoopRecorder{}
	}
	opts.normalize()

	h := &handler{
		logger:   logger,
		engine:   deps.Engine,
		catalog:  deps.Catalog,
		recorder: deps.Recorder,
		scorer:   deps.Scorer,
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)
	r.Get("/api/version", h.handleVersion)
	r.Get("/api/lenders", h.handleLenders)
	r.Get("/api/lenders/{id}", h.handleLender)
	r.Post("/offers/search", h.handleSearch)
	if h.scorer != nil {
		r.Post("/offers/quote", h.handleQuote)
	}

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": serviceName,
		"lenders": h.catalog.Snapshot().Len(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.opts.Version,
	})
}

func (h *handler) handleLenders(w http.ResponseWriter, r *http.Request) {
	snapshot := h.catalog.Snapshot()
	if snapshot.Len() == 0 {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "lender catalog unavailable", "server.handleLenders")
		return
	}
	h.writeJSON(w, http.StatusOK, lendersResponse{
		Lenders:  snapshot.Products(),
		Source:   snapshot.Source(),
		LoadedAt: snapshot.LoadedAt().UTC().Format(time.RFC3339),
	})
}

func (h *handler) handleLender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := h.catalog.Snapshot().Lookup(id)
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, "unknown lender "+id, "server.handleLender")
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSearch"
	start := time.Now()

	var body searchRequest
	if !h.decodeBody(w, r, &body, op) {
		return
	}
	if body.App == nil || body.PD == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, msgMissingAppOrPD, op)
		return
	}

	result, ok := h.search(w, marketplace.Request{Application: body.App, PD: *body.PD}, op)
	if !ok {
		return
	}

	h.record(r.Context(), recorder.NewDecision(recorder.SourceSearch, *body.App, *body.PD, result), op)

	h.logger.Info("offers searched",
		zap.String("op", op),
		zap.String("state", body.App.State),
		zap.Int("offers", len(result.Offers)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, output.NewResultView(result))
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"
	start := time.Now()

	var app marketplace.Application
	if !h.decodeBody(w, r, &app, op) {
		return
	}

	features := scoring.NewFeatures(app, marketplace.ComputeMetrics(app))
	score, err := h.scorer.Score(r.Context(), features)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidFeatures) {
			h.respondErrorWithOp(w, http.StatusBadRequest, "application cannot be scored: income must be positive", op)
			return
		}
		h.logger.Error("scoring failed",
			zap.String("op", op),
			zap.Error(err),
		)
		h.respondErrorWithOp(w, http.StatusBadGateway, "scoring service unavailable", op)
		return
	}

	if app.APRRecommended == nil || *app.APRRecommended == 0 {
		apr := score.RecommendedAPRPercent()
		app.APRRecommended = &apr
	}

	result, ok := h.search(w, marketplace.Request{Application: &app, PD: score.PD}, op)
	if !ok {
		return
	}

	decision := recorder.NewDecision(recorder.SourceQuote, app, score.PD, result)
	decision.ModelVersion = score.ModelVersion
	h.record(r.Context(), decision, op)

	h.logger.Info("offers quoted",
		zap.String("op", op),
		zap.String("state", app.State),
		zap.Float64("pd", score.PD),
		zap.String("modelVersion", score.ModelVersion),
		zap.Int("offers", len(result.Offers)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, quoteResponse{
		ResultView:     output.NewResultView(result),
		PD:             score.PD,
		APRRecommended: app.ReferenceAPR(),
		ModelVersion:   score.ModelVersion,
	})
}

// search runs the engine and writes the error response on failure.
func (h *handler) search(w http.ResponseWriter, req marketplace.Request, op string) (marketplace.Result, bool) {
	result, err := h.engine.Search(req)
	switch {
	case err == nil:
		return result, true
	case errors.Is(err, marketplace.ErrInvalidRequest):
		h.respondErrorWithOp(w, http.StatusBadRequest, msgMissingAppOrPD, op)
	case errors.Is(err, marketplace.ErrCatalogUnavailable):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "lender catalog unavailable", op)
	default:
		h.logger.Error("search failed", zap.String("op", op), zap.Error(err))
		h.respondErrorWithOp(w, http.StatusInternalServerError, "search failed", op)
	}
	return marketplace.Result{}, false
}

func (h *handler) record(ctx context.Context, d recorder.Decision, op string) {
	if err := h.recorder.RecordSearch(ctx, d); err != nil {
		h.logger.Warn("failed to record decision",
			zap.String("op", op),
			zap.String("decisionID", d.ID.String()),
			zap.Error(err),
		)
	}
}

// decodeBody reads a size-limited JSON body into dst.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxBytesErr):
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, "request body too large", op)
	case errors.As(err, &typeErr):
		h.respondErrorWithOp(w, http.StatusBadRequest, msgMissingAppOrPD, op)
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid JSON body", op)
	}
	return false
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
