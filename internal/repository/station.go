package repository

import (
	"context"
	"fmt"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// StationRepository charger site store
type StationRepository struct {
	db *DB
}

// NewStationRepository creates the station repository.
func NewStationRepository(db *DB) *StationRepository {
	return &StationRepository{db: db}
}

const stationColumns = `id, station_id, name, address, city, region, max_electric_power,
	price_per_kwh, price_unit, multi_port_charging_allowed, is_active,
	latitude, longitude, created_at, updated_at`

func scanStation(row interface{ Scan(...any) error }) (*models.Station, error) {
	st := &models.Station{}
	err := row.Scan(
		&st.ID,
		&st.StationID,
		&st.Name,
		&st.Address,
		&st.City,
		&st.Region,
		&st.MaxElectricPower,
		&st.PricePerKwh,
		&st.PriceUnit,
		&st.MultiPortChargingAllowed,
		&st.IsActive,
		&st.Latitude,
		&st.Longitude,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Upsert inserts or refreshes a station by its vendor station_id.
func (r *StationRepository) Upsert(ctx context.Context, st *models.Station) error {
	query := `
		INSERT INTO stations (station_id, name, address, city, region, max_electric_power,
			price_per_kwh, price_unit, multi_port_charging_allowed, is_active, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (station_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			region = EXCLUDED.region,
			max_electric_power = EXCLUDED.max_electric_power,
			price_per_kwh = EXCLUDED.price_per_kwh,
			price_unit = EXCLUDED.price_unit,
			multi_port_charging_allowed = EXCLUDED.multi_port_charging_allowed,
			is_active = EXCLUDED.is_active,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		st.StationID,
		st.Name,
		st.Address,
		st.City,
		st.Region,
		st.MaxElectricPower,
		st.PricePerKwh,
		st.PriceUnit,
		st.MultiPortChargingAllowed,
		st.IsActive,
		st.Latitude,
		st.Longitude,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("upsert station: %w", err)
	}
	return nil
}

// GetByStationID fetches one station by its vendor identifier.
func (r *StationRepository) GetByStationID(ctx context.Context, stationID string) (*models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE station_id = $1`
	st, err := scanStation(r.db.Pool.QueryRow(ctx, query, stationID))
	if err != nil {
		return nil, fmt.Errorf("get station %s: %w", stationID, err)
	}
	return st, nil
}

// List returns all stations, fastest chargers first.
func (r *StationRepository) List(ctx context.Context) ([]*models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations ORDER BY max_electric_power DESC, city, name, address`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []*models.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// ListActive returns the stations the poller should track.
func (r *StationRepository) ListActive(ctx context.Context) ([]*models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE is_active = true ORDER BY station_id`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active stations: %w", err)
	}
	defer rows.Close()

	var stations []*models.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// ListForMap returns stations with coordinates, optionally restricted to a
// region.
func (r *StationRepository) ListForMap(ctx context.Context, region string) ([]*models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`
	args := []any{}
	if region != "" {
		query += ` AND LOWER(region) = LOWER($1)`
		args = append(args, region)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stations for map: %w", err)
	}
	defer rows.Close()

	var stations []*models.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, nil
}
