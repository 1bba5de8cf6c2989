package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

const readingColumns = `id, timestamp, temperature, humidity, soil_moisture, light_value, water_pump, humidifier, cooling_fan`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (models.SensorReading, error) {
	var r models.SensorReading
	err := row.Scan(
		&r.ID,
		&r.Timestamp,
		&r.Temperature,
		&r.Humidity,
		&r.SoilMoisture,
		&r.LightValue,
		&r.WaterPump,
		&r.Humidifier,
		&r.CoolingFan,
	)
	return r, err
}

// InsertReading stores a reading and fills in its ID. A zero timestamp is
// replaced with the current server time.
func (dm *DatabaseManager) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}

	query := `
        INSERT INTO sensor_data (
            timestamp, temperature, humidity, soil_moisture, light_value,
            water_pump, humidifier, cooling_fan
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query,
		reading.Timestamp,
		reading.Temperature,
		reading.Humidity,
		reading.SoilMoisture,
		reading.LightValue,
		reading.WaterPump,
		reading.Humidifier,
		reading.CoolingFan,
	)
	if err != nil {
		return storageError("insert reading", err)
	}

	if err := row.Scan(&reading.ID); err != nil {
		return storageError("insert reading", err)
	}

	return nil
}

// GetLatestReading returns the newest reading, or nil when none exist
func (dm *DatabaseManager) GetLatestReading(ctx context.Context) (*models.SensorReading, error) {
	query := `SELECT ` + readingColumns + ` FROM sensor_data ORDER BY timestamp DESC, id DESC LIMIT 1`

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query)
	if err != nil {
		return nil, storageError("get latest reading", err)
	}

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get latest reading", err)
	}

	return &reading, nil
}

// GetReadingsPage returns one page of the reading log, newest first
func (dm *DatabaseManager) GetReadingsPage(ctx context.Context, q models.LogsQuery) (*models.ReadingsPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, `SELECT COUNT(*) FROM sensor_data`)
	if err != nil {
		return nil, storageError("count readings", err)
	}

	var total int
	if err := row.Scan(&total); err != nil {
		return nil, storageError("count readings", err)
	}

	query := `
        SELECT ` + readingColumns + `
        FROM sensor_data
        ORDER BY timestamp DESC, id DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := dm.QueryWithHealthCheck(ctx, query, q.Limit, q.Offset())
	if err != nil {
		return nil, storageError("get readings page", err)
	}
	defer rows.Close()

	page := &models.ReadingsPage{
		Logs:         []models.ReadingView{},
		Page:         q.Page,
		Limit:        q.Limit,
		TotalRecords: total,
		TotalPages:   models.TotalPages(total, q.Limit),
	}

	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, storageError("scan reading", err)
		}
		page.Logs = append(page.Logs, reading.View())
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("get readings page", err)
	}

	return page, nil
}

// GetRecentReadings returns up to n complete readings, newest first
func (dm *DatabaseManager) GetRecentReadings(ctx context.Context, n int) ([]models.SensorReading, error) {
	query := `
        SELECT ` + readingColumns + `
        FROM sensor_data
        WHERE temperature IS NOT NULL
          AND humidity IS NOT NULL
          AND soil_moisture IS NOT NULL
          AND light_value IS NOT NULL
        ORDER BY timestamp DESC, id DESC
        LIMIT $1
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	rows, err := dm.QueryWithHealthCheck(ctx, query, n)
	if err != nil {
		return nil, storageError("get recent readings", err)
	}
	defer rows.Close()

	readings := []models.SensorReading{}
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, storageError("scan reading", err)
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("get recent readings", err)
	}

	return readings, nil
}
