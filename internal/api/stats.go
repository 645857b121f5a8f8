package api

import (
	"net/http"
	"runtime"
	"sync"

	"railsetu/pkg/isl"
	"railsetu/pkg/tracker"
)

// StatsHandler reports provider usage and server diagnostics.
type StatsHandler struct {
	tracker *tracker.Tracker
	dataset *isl.Dataset
	live    *LiveHandler

	mu     sync.Mutex
	maxMem uint64
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(t *tracker.Tracker, dataset *isl.Dataset, live *LiveHandler) *StatsHandler {
	return &StatsHandler{tracker: t, dataset: dataset, live: live}
}

// ProviderStatsDTO is the wire form of per-provider usage counters.
type ProviderStatsDTO struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	APISuccess  int64 `json:"api_success"`
	APIFailures int64 `json:"api_errors"`
	CharsBilled int64 `json:"chars_billed"`
	HitRate     int64 `json:"hit_rate"`
}

// StatsResponse is the stats API payload.
type StatsResponse struct {
	MemoryMB    uint64                      `json:"memory_mb"`
	MemoryMaxMB uint64                      `json:"memory_max_mb"`
	SignWords   int                         `json:"sign_words"`
	LiveClients int                         `json:"live_clients"`
	Providers   map[string]ProviderStatsDTO `json:"providers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	h.mu.Lock()
	if mem.Alloc > h.maxMem {
		h.maxMem = mem.Alloc
	}
	maxMem := h.maxMem
	h.mu.Unlock()

	resp := StatsResponse{
		MemoryMB:    bToMb(mem.Alloc),
		MemoryMaxMB: bToMb(maxMem),
		Providers:   make(map[string]ProviderStatsDTO),
	}
	if h.dataset != nil {
		resp.SignWords = h.dataset.Size()
	}
	if h.live != nil {
		resp.LiveClients = h.live.ClientCount()
	}

	for provider, stats := range h.tracker.Snapshot() {
		totalCache := stats.CacheHits + stats.CacheMisses
		hitRate := int64(0)
		if totalCache > 0 {
			hitRate = (stats.CacheHits * 100) / totalCache
		}
		resp.Providers[provider] = ProviderStatsDTO{
			CacheHits:   stats.CacheHits,
			CacheMisses: stats.CacheMisses,
			APISuccess:  stats.APISuccess,
			APIFailures: stats.APIFailures,
			CharsBilled: stats.CharsBilled,
			HitRate:     hitRate,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
