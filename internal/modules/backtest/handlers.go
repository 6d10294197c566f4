package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/modules/history"
	"github.com/aristath/autocall/internal/series"
)

// SeriesSource provides historical price series by symbol.
type SeriesSource interface {
	GetSeries(ctx context.Context, symbol string) (*series.Series, error)
}

// Handlers handles backtest HTTP endpoints
type Handlers struct {
	service *Service
	source  SeriesSource
	log     zerolog.Logger
}

// NewHandlers creates new backtest handlers
func NewHandlers(service *Service, source SeriesSource, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		source:  source,
		log:     log.With().Str("component", "backtest_handlers").Logger(),
	}
}

// RegisterRoutes registers backtest routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/backtest", func(r chi.Router) {
		r.Post("/run", h.HandleRun)
	})
}

// RunRequest is the payload of POST /backtest/run.
type RunRequest struct {
	Symbol          string                 `json:"symbol"`
	LookbackYears   int                    `json:"lookback_years"`
	LaunchFrequency domain.LaunchFrequency `json:"launch_frequency"`
	Contract        domain.ContractSpec    `json:"contract"`
}

// HandleRun backtests the posted contract over historical launches.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Contract.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.LaunchFrequency.Valid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.LookbackYears <= 0 {
		http.Error(w, "Lookback years must be positive", http.StatusBadRequest)
		return
	}

	prices, err := h.source.GetSeries(r.Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, history.ErrNoHistory) {
			http.Error(w, "No price history for symbol", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to load price history")
		http.Error(w, "Failed to load price history", http.StatusInternalServerError)
		return
	}

	runID := uuid.New().String()
	log := h.log.With().Str("run_id", runID).Logger()
	log.Info().
		Str("symbol", req.Symbol).
		Int("lookback_years", req.LookbackYears).
		Str("launch_frequency", string(req.LaunchFrequency)).
		Msg("Backtest requested")

	result, err := h.service.Run(r.Context(), prices, req.LookbackYears, req.LaunchFrequency, req.Contract)
	if err != nil {
		log.Error().Err(err).Msg("Backtest failed")
		http.Error(w, "Backtest failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"result": result,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
