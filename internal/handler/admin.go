package handler

import (
	"net/http"
	"runtime"
	"time"

	"starclicker-rest-api/internal/repository"
	"starclicker-rest-api/pkg/response"
)

// AdminHandler handles operational HTTP requests.
type AdminHandler struct {
	repo      repository.EconomyRepository
	dbType    string // Database type: sqlite, mysql, or postgres
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(repo repository.EconomyRepository, dbType string) *AdminHandler {
	return &AdminHandler{
		repo:      repo,
		dbType:    dbType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"num_goroutine": runtime.NumGoroutine(),
	}

	// Economy stats
	if h.repo != nil {
		economyStats, err := h.repo.Stats(ctx)
		if err != nil {
			stats["economy"] = map[string]interface{}{"error": err.Error()}
		} else {
			stats["economy"] = economyStats
		}
	}

	response.OK(w, stats)
}
