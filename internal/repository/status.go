package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// StatusRepository raw plug-status sample store
type StatusRepository struct {
	db *DB
}

// NewStatusRepository creates the status repository.
func NewStatusRepository(db *DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// InsertCycle writes one polling cycle's samples in a single transaction, so
// a partially failed cycle never leaves some stations newer than others.
func (r *StatusRepository) InsertCycle(ctx context.Context, records []models.StatusRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status cycle: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO station_status (station_id, plug_type, plug_status, timestamp)
		VALUES ($1, $2, $3, $4)
	`
	for _, rec := range records {
		if _, err := tx.Exec(ctx, query, rec.StationID, rec.PlugType, rec.Status, rec.RecordedAt); err != nil {
			return fmt.Errorf("insert status for %s: %w", rec.StationID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status cycle: %w", err)
	}
	return nil
}

// ListDescending returns samples for a station within the lookback window,
// newest first. This is the shape LiveStreak and the history view consume.
func (r *StatusRepository) ListDescending(ctx context.Context, stationID string, lookback time.Duration) ([]models.StatusRecord, error) {
	query := `
		SELECT id, station_id, plug_type, plug_status, timestamp
		FROM station_status
		WHERE station_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC
	`
	return r.list(ctx, query, stationID, time.Now().Add(-lookback))
}

// ListAscending returns samples for a station within the lookback window,
// oldest first. Session compression needs chronological order.
func (r *StatusRepository) ListAscending(ctx context.Context, stationID string, lookback time.Duration) ([]models.StatusRecord, error) {
	query := `
		SELECT id, station_id, plug_type, plug_status, timestamp
		FROM station_status
		WHERE station_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
	`
	return r.list(ctx, query, stationID, time.Now().Add(-lookback))
}

// ListAvailable returns only Available samples within the lookback window,
// the heatmap's input.
func (r *StatusRepository) ListAvailable(ctx context.Context, stationID string, lookback time.Duration) ([]models.StatusRecord, error) {
	query := `
		SELECT id, station_id, plug_type, plug_status, timestamp
		FROM station_status
		WHERE station_id = $1 AND plug_status = $2 AND timestamp >= $3
		ORDER BY timestamp ASC
	`
	rows, err := r.db.Pool.Query(ctx, query, stationID, models.StatusAvailable, time.Now().Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("list available samples: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// LatestByCity returns the newest sample per station for every station in a
// city.
func (r *StatusRepository) LatestByCity(ctx context.Context, city string) ([]models.StatusRecord, error) {
	query := `
		WITH latest_status AS (
			SELECT ss.id, ss.station_id, ss.plug_type, ss.plug_status, ss.timestamp,
				ROW_NUMBER() OVER (PARTITION BY ss.station_id ORDER BY ss.timestamp DESC) AS rn
			FROM station_status ss
			INNER JOIN stations s ON s.station_id = ss.station_id
			WHERE LOWER(s.city) = LOWER($1)
		)
		SELECT id, station_id, plug_type, plug_status, timestamp
		FROM latest_status
		WHERE rn = 1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("latest status by city %s: %w", city, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// PruneOlderThan drops samples past the retention horizon.
func (r *StatusRepository) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM station_status WHERE timestamp < $1`, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune station status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *StatusRepository) list(ctx context.Context, query, stationID string, since time.Time) ([]models.StatusRecord, error) {
	rows, err := r.db.Pool.Query(ctx, query, stationID, since)
	if err != nil {
		return nil, fmt.Errorf("list status samples for %s: %w", stationID, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

type scanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows scanner) ([]models.StatusRecord, error) {
	var records []models.StatusRecord
	for rows.Next() {
		var rec models.StatusRecord
		if err := rows.Scan(&rec.ID, &rec.StationID, &rec.PlugType, &rec.Status, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan status record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status records: %w", err)
	}
	return records, nil
}
