package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare/internal/domain/snapshot"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

type fakeCache struct {
	allocations map[string]*snapshot.Allocation
}

func (f *fakeCache) Set(ctx context.Context, alloc *snapshot.Allocation, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Get(ctx context.Context, window string) (*snapshot.Allocation, error) {
	alloc, ok := f.allocations[window]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "allocation not cached for window=%s", window)
	}
	return alloc, nil
}

type fakeSnapshotRepo struct {
	rows []snapshot.MindshareSnapshot
}

func (f *fakeSnapshotRepo) InsertBatch(ctx context.Context, rows []snapshot.MindshareSnapshot) error {
	return nil
}

func (f *fakeSnapshotRepo) GetLatest(ctx context.Context, window string) ([]snapshot.MindshareSnapshot, error) {
	return f.rows, nil
}

func (f *fakeSnapshotRepo) GetHistory(ctx context.Context, projectID uuid.UUID, window string, since time.Time) ([]snapshot.MindshareSnapshot, error) {
	return nil, nil
}

func TestAllocationsHandler_ServesFromCache(t *testing.T) {
	projectID := uuid.New()
	cache := &fakeCache{allocations: map[string]*snapshot.Allocation{
		"24h": {
			Window: "24h",
			AsOf:   time.Now().UTC(),
			Bps:    map[uuid.UUID]int64{projectID: 10000},
		},
	}}

	handler := NewAllocationsHandler(cache, &fakeSnapshotRepo{}, logger.Get())

	req := httptest.NewRequest(http.MethodGet, "/allocations?window=24h", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var alloc snapshot.Allocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alloc))
	assert.Equal(t, "24h", alloc.Window)
	assert.Equal(t, int64(10000), alloc.Bps[projectID])
}

func TestAllocationsHandler_FallsBackToSnapshots(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := &fakeSnapshotRepo{rows: []snapshot.MindshareSnapshot{
		{ProjectID: projectA, Window: "7d", AsOf: asOf, Bps: 6000},
		{ProjectID: projectB, Window: "7d", AsOf: asOf, Bps: 4000},
	}}

	handler := NewAllocationsHandler(&fakeCache{}, repo, logger.Get())

	req := httptest.NewRequest(http.MethodGet, "/allocations?window=7d", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var alloc snapshot.Allocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alloc))
	assert.Equal(t, "7d", alloc.Window)
	assert.Equal(t, asOf, alloc.AsOf)
	assert.Equal(t, int64(10000), alloc.TotalBps())
}

func TestAllocationsHandler_NotFound(t *testing.T) {
	handler := NewAllocationsHandler(&fakeCache{}, &fakeSnapshotRepo{}, logger.Get())

	req := httptest.NewRequest(http.MethodGet, "/allocations?window=30d", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAllocationsHandler_DefaultWindow(t *testing.T) {
	cache := &fakeCache{allocations: map[string]*snapshot.Allocation{
		"24h": {Window: "24h", Bps: map[uuid.UUID]int64{}},
	}}

	handler := NewAllocationsHandler(cache, &fakeSnapshotRepo{}, logger.Get())

	req := httptest.NewRequest(http.MethodGet, "/allocations", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAllocationsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewAllocationsHandler(&fakeCache{}, &fakeSnapshotRepo{}, logger.Get())

	req := httptest.NewRequest(http.MethodPost, "/allocations", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
