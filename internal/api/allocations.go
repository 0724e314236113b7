package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"mindshare/internal/domain/snapshot"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// AllocationsHandler serves the latest bps allocation per window. Reads hit
// the Redis cache first and fall back to ClickHouse when the cache is cold.
type AllocationsHandler struct {
	cache snapshot.AllocationCache
	repo  snapshot.Repository
	log   *logger.Logger
}

// NewAllocationsHandler creates a new allocations handler
func NewAllocationsHandler(cache snapshot.AllocationCache, repo snapshot.Repository, log *logger.Logger) *AllocationsHandler {
	return &AllocationsHandler{
		cache: cache,
		repo:  repo,
		log:   log,
	}
}

// HandleGet serves GET /allocations?window=24h
func (h *AllocationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	window := r.URL.Query().Get("window")
	if window == "" {
		window = "24h"
	}

	alloc, err := h.cache.Get(r.Context(), window)
	if errors.Is(err, errors.ErrNotFound) {
		alloc, err = h.loadFromSnapshots(r, window)
	}
	if errors.Is(err, errors.ErrNotFound) {
		http.Error(w, "no allocation for window "+window, http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("Failed to load allocation", "window", window, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alloc)
}

// loadFromSnapshots rebuilds the allocation from the latest snapshot rows
func (h *AllocationsHandler) loadFromSnapshots(r *http.Request, window string) (*snapshot.Allocation, error) {
	rows, err := h.repo.GetLatest(r.Context(), window)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no snapshots for window %s", window)
	}

	alloc := &snapshot.Allocation{
		Window: window,
		AsOf:   rows[0].AsOf,
		Bps:    make(map[uuid.UUID]int64, len(rows)),
	}
	for _, row := range rows {
		alloc.Bps[row.ProjectID] = row.Bps
	}

	return alloc, nil
}
