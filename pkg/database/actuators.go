package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// actuatorColumns maps actuator names to their column; only these names are
// ever interpolated into SQL
var actuatorColumns = map[string]string{
	models.ActuatorWaterPump:  "water_pump",
	models.ActuatorHumidifier: "humidifier",
	models.ActuatorCoolingFan: "cooling_fan",
}

// GetActuatorState reads the singleton row, seeding it all-off if missing
func (dm *DatabaseManager) GetActuatorState(ctx context.Context) (*models.ActuatorState, error) {
	query := `
        SELECT water_pump, humidifier, cooling_fan, last_updated
        FROM actuator_state
        WHERE id = 1
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query)
	if err != nil {
		return nil, storageError("get actuator state", err)
	}

	var state models.ActuatorState
	err = row.Scan(
		&state.WaterPump,
		&state.Humidifier,
		&state.CoolingFan,
		&state.LastUpdated,
	)

	if errors.Is(err, sql.ErrNoRows) {
		seed := `INSERT INTO actuator_state (id) VALUES (1) ON CONFLICT (id) DO NOTHING`
		if _, err := dm.ExecWithHealthCheck(ctx, seed); err != nil {
			return nil, storageError("seed actuator state", err)
		}
		return &models.ActuatorState{LastUpdated: time.Now()}, nil
	}
	if err != nil {
		return nil, storageError("get actuator state", err)
	}

	return &state, nil
}

// SetActuatorState overwrites all three actuators
func (dm *DatabaseManager) SetActuatorState(ctx context.Context, states models.ActuatorStates) (*models.ActuatorState, error) {
	query := `
        INSERT INTO actuator_state (id, water_pump, humidifier, cooling_fan, last_updated)
        VALUES (1, $1, $2, $3, CURRENT_TIMESTAMP)
        ON CONFLICT (id) DO UPDATE
        SET water_pump = EXCLUDED.water_pump,
            humidifier = EXCLUDED.humidifier,
            cooling_fan = EXCLUDED.cooling_fan,
            last_updated = EXCLUDED.last_updated
        RETURNING last_updated
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query,
		states.WaterPump,
		states.Humidifier,
		states.CoolingFan,
	)
	if err != nil {
		return nil, storageError("set actuator state", err)
	}

	state := models.ActuatorState{ActuatorStates: states}
	if err := row.Scan(&state.LastUpdated); err != nil {
		return nil, storageError("set actuator state", err)
	}

	return &state, nil
}

// SetActuator switches a single actuator. Unknown names are rejected before
// any statement runs.
func (dm *DatabaseManager) SetActuator(ctx context.Context, name string, on bool) error {
	column, ok := actuatorColumns[name]
	if !ok {
		return models.NewUnknownActuatorError(name)
	}

	query := fmt.Sprintf(`
        INSERT INTO actuator_state (id, %[1]s, last_updated)
        VALUES (1, $1, CURRENT_TIMESTAMP)
        ON CONFLICT (id) DO UPDATE
        SET %[1]s = EXCLUDED.%[1]s, last_updated = EXCLUDED.last_updated
    `, column)

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	if _, err := dm.ExecWithHealthCheck(ctx, query, on); err != nil {
		return storageError("set actuator "+name, err)
	}

	return nil
}

// ActivateActuators switches on every actuator set in on, leaving the others
// untouched, and returns the resulting triple
func (dm *DatabaseManager) ActivateActuators(ctx context.Context, on models.ActuatorStates) (models.ActuatorStates, error) {
	query := `
        INSERT INTO actuator_state (id, water_pump, humidifier, cooling_fan, last_updated)
        VALUES (1, $1, $2, $3, CURRENT_TIMESTAMP)
        ON CONFLICT (id) DO UPDATE
        SET water_pump = actuator_state.water_pump OR EXCLUDED.water_pump,
            humidifier = actuator_state.humidifier OR EXCLUDED.humidifier,
            cooling_fan = actuator_state.cooling_fan OR EXCLUDED.cooling_fan,
            last_updated = EXCLUDED.last_updated
        RETURNING water_pump, humidifier, cooling_fan
    `

	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()

	row, err := dm.QueryRowWithHealthCheck(ctx, query,
		on.WaterPump,
		on.Humidifier,
		on.CoolingFan,
	)
	if err != nil {
		return models.ActuatorStates{}, storageError("activate actuators", err)
	}

	var states models.ActuatorStates
	if err := row.Scan(&states.WaterPump, &states.Humidifier, &states.CoolingFan); err != nil {
		return models.ActuatorStates{}, storageError("activate actuators", err)
	}

	return states, nil
}
