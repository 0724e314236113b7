package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"mindshare/internal/domain/snapshot"
	"mindshare/internal/metrics"
)

// Compile-time check
var _ snapshot.Repository = (*SnapshotRepository)(nil)

// SnapshotRepository implements snapshot.Repository using ClickHouse
type SnapshotRepository struct {
	conn driver.Conn
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(conn driver.Conn) *SnapshotRepository {
	return &SnapshotRepository{conn: conn}
}

// InsertBatch inserts one normalization pass worth of snapshot rows
func (r *SnapshotRepository) InsertBatch(ctx context.Context, rows []snapshot.MindshareSnapshot) (err error) {
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("clickhouse", "insert_snapshots", time.Since(start), err)
	}()

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO mindshare_snapshots (
			project_id, window, as_of, post_count, unique_authors,
			engagement_total, avg_sentiment, attention_value, bps, created_at
		)`)
	if err != nil {
		return err
	}

	for i := range rows {
		if err := batch.AppendStruct(&rows[i]); err != nil {
			return err
		}
	}

	return batch.Send()
}

// GetLatest returns the most recent snapshot rows for a window, one per
// project, ordered by bps descending
func (r *SnapshotRepository) GetLatest(ctx context.Context, window string) ([]snapshot.MindshareSnapshot, error) {
	var rows []snapshot.MindshareSnapshot

	query := `
		SELECT * FROM mindshare_snapshots
		WHERE window = $1
		  AND as_of = (SELECT max(as_of) FROM mindshare_snapshots WHERE window = $1)
		ORDER BY bps DESC`

	start := time.Now()
	err := r.conn.Select(ctx, &rows, query, window)
	metrics.RecordDBQuery("clickhouse", "select_latest_snapshots", time.Since(start), err)
	return rows, err
}

// GetHistory returns a project's snapshot rows for a window since a time,
// oldest first
func (r *SnapshotRepository) GetHistory(ctx context.Context, projectID uuid.UUID, window string, since time.Time) ([]snapshot.MindshareSnapshot, error) {
	var rows []snapshot.MindshareSnapshot

	query := `
		SELECT * FROM mindshare_snapshots
		WHERE project_id = $1 AND window = $2 AND as_of >= $3
		ORDER BY as_of ASC`

	start := time.Now()
	err := r.conn.Select(ctx, &rows, query, projectID.String(), window, since)
	metrics.RecordDBQuery("clickhouse", "select_snapshot_history", time.Since(start), err)
	return rows, err
}
