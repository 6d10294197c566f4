package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers serves liveness and resource usage endpoints.
type SystemHandlers struct {
	log     zerolog.Logger
	started time.Time
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:     log.With().Str("component", "system_handlers").Logger(),
		started: time.Now(),
	}
}

// HandleHealth is the plain liveness check.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleSystemHealth returns CPU, memory and runtime statistics.
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}
	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memUsedPercent := 0.0
	if memStat, err := mem.VirtualMemory(); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		memUsedPercent = memStat.UsedPercent
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           "ok",
		"uptime":           time.Since(h.started).String(),
		"cpu_percent":      cpuAvg,
		"mem_used_percent": memUsedPercent,
		"goroutines":       runtime.NumGoroutine(),
	}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system health response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
