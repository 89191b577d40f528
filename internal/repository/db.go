package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close shuts down the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate applies the schema. Every statement is idempotent so the list can
// run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateStations,
		migrationCreateStationStatus,
		migrationAddRegionToStations,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateStations = `
CREATE TABLE IF NOT EXISTS stations (
    id BIGSERIAL PRIMARY KEY,
    station_id VARCHAR(64) NOT NULL UNIQUE,
    name VARCHAR(255),
    address VARCHAR(255),
    city VARCHAR(128),
    max_electric_power DOUBLE PRECISION DEFAULT 0,
    price_per_kwh DOUBLE PRECISION DEFAULT 0,
    price_unit VARCHAR(16) DEFAULT 'kWh',
    multi_port_charging_allowed BOOLEAN DEFAULT false,
    is_active BOOLEAN DEFAULT true,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stations_station_id ON stations(station_id);
CREATE INDEX IF NOT EXISTS idx_stations_city ON stations(city);
`

const migrationCreateStationStatus = `
CREATE TABLE IF NOT EXISTS station_status (
    id BIGSERIAL PRIMARY KEY,
    station_id VARCHAR(64) NOT NULL,
    plug_type VARCHAR(32),
    plug_status VARCHAR(32) NOT NULL,
    timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_station_status_station_id ON station_status(station_id);
CREATE INDEX IF NOT EXISTS idx_station_status_timestamp ON station_status(timestamp);
CREATE INDEX IF NOT EXISTS idx_station_status_station_ts ON station_status(station_id, timestamp DESC);
`

const migrationAddRegionToStations = `
ALTER TABLE stations ADD COLUMN IF NOT EXISTS region VARCHAR(64);
`
