package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/domain"
)

// Default run parameters when the request omits them.
const (
	defaultNPaths       = 10000
	defaultStepsPerYear = 252
)

// Handlers handles pricing HTTP endpoints
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates new pricing handlers
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("component", "pricing_handlers").Logger(),
	}
}

// RegisterRoutes registers pricing routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/pricing", func(r chi.Router) {
		r.Post("/price", h.HandlePrice)
		r.Post("/termsheet", h.HandleTermsheet)
	})
}

// PriceRequest is the payload of POST /pricing/price.
type PriceRequest struct {
	Contract domain.ContractSpec `json:"contract"`
	Market   domain.MarketState  `json:"market"`
	RunParams
}

// HandlePrice runs a Monte Carlo valuation for the posted contract.
func (h *Handlers) HandlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Contract.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Market.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.NPaths == 0 {
		req.NPaths = defaultNPaths
	}
	if req.StepsPerYear == 0 {
		req.StepsPerYear = defaultStepsPerYear
	}

	runID := uuid.New().String()
	log := h.log.With().Str("run_id", runID).Logger()
	log.Info().
		Str("underlying", req.Contract.Underlying).
		Int("n_paths", req.NPaths).
		Msg("Pricing run requested")

	result, err := h.service.Price(r.Context(), req.Contract, req.Market, req.RunParams)
	if err != nil {
		log.Error().Err(err).Msg("Pricing run failed")
		http.Error(w, "Pricing run failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, log, map[string]interface{}{
		"run_id": runID,
		"result": result,
	})
}

// TermsheetRequest is the payload of POST /pricing/termsheet.
type TermsheetRequest struct {
	Contract domain.ContractSpec `json:"contract"`
	Spot     float64             `json:"spot"`
}

// HandleTermsheet derives absolute contract terms for a given spot.
func (h *Handlers) HandleTermsheet(w http.ResponseWriter, r *http.Request) {
	var req TermsheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Contract.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Spot <= 0 {
		http.Error(w, "Spot must be positive", http.StatusBadRequest)
		return
	}

	sheet, err := h.service.BuildTermsheet(req.Contract, req.Spot)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build termsheet")
		http.Error(w, "Failed to build termsheet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.log, sheet)
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
