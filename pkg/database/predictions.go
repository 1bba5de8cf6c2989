package database

import (
	"context"
	"time"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// InsertPrediction appends a classifier result and fills in its ID
func (dm *DatabaseManager) InsertPrediction(ctx context.Context, prediction *models.Prediction) error {
	if prediction.Timestamp.IsZero() {
		prediction.Timestamp = time.Now()
	}

	query := `
        INSERT INTO predictions (timestamp, prediction, sensor_data_id)
        VALUES ($1, $2, $3)
        RETURNING id
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query,
		prediction.Timestamp,
		prediction.Label,
		prediction.SensorDataID,
	)
	if err != nil {
		return storageError("insert prediction", err)
	}

	if err := row.Scan(&prediction.ID); err != nil {
		return storageError("insert prediction", err)
	}

	return nil
}

// GetPredictionHistory returns up to limit predictions, newest first
func (dm *DatabaseManager) GetPredictionHistory(ctx context.Context, limit int) ([]models.Prediction, error) {
	query := `
        SELECT id, timestamp, prediction, sensor_data_id
        FROM predictions
        ORDER BY timestamp DESC, id DESC
        LIMIT $1
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	rows, err := dm.QueryWithHealthCheck(ctx, query, limit)
	if err != nil {
		return nil, storageError("get prediction history", err)
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.Timestamp, &p.Label, &p.SensorDataID); err != nil {
			return nil, storageError("scan prediction", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("get prediction history", err)
	}

	return predictions, nil
}
