package history

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers handles history HTTP endpoints
type Handlers struct {
	store *Store
	sync  *SyncService
	log   zerolog.Logger
}

// NewHandlers creates new history handlers
func NewHandlers(store *Store, sync *SyncService, log zerolog.Logger) *Handlers {
	return &Handlers{
		store: store,
		sync:  sync,
		log:   log.With().Str("component", "history_handlers").Logger(),
	}
}

// RegisterRoutes registers history routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/{symbol}", h.HandleGetMeta)
		r.Post("/{symbol}/sync", h.HandleSync)
	})
}

// HandleGetMeta returns the stored date range for a symbol.
func (h *Handlers) HandleGetMeta(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	meta, err := h.store.GetMeta(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			http.Error(w, "No price history for symbol", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get history metadata")
		http.Error(w, "Failed to get history metadata", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(meta); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HandleSync triggers an on-demand provider sync for a symbol.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	saved, err := h.sync.Sync(r.Context(), symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Sync failed")
		http.Error(w, "Sync failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"symbol": symbol,
		"saved":  saved,
	}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
