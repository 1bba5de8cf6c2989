package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

var readingRowColumns = []string{
	"id", "timestamp", "temperature", "humidity", "soil_moisture", "light_value",
	"water_pump", "humidifier", "cooling_fan",
}

func TestInsertReading_Mock(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)

	mock.ExpectQuery("INSERT INTO sensor_data").
		WithArgs(sqlmock.AnyArg(), 22.5, 55.0, 10, 800, true, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	reading := &models.SensorReading{
		Temperature:  22.5,
		Humidity:     55.0,
		SoilMoisture: 10,
		LightValue:   800,
		WaterPump:    true,
	}

	if err := dm.InsertReading(context.Background(), reading); err != nil {
		t.Fatalf("Expected InsertReading to succeed: %v", err)
	}

	if reading.ID != 42 {
		t.Errorf("Expected ID 42, got %d", reading.ID)
	}
	if reading.Timestamp.IsZero() {
		t.Error("Expected server-assigned timestamp")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestInsertReading_StorageError(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)

	mock.ExpectQuery("INSERT INTO sensor_data").
		WillReturnError(errors.New("connection refused"))

	err := dm.InsertReading(context.Background(), &models.SensorReading{})

	var storageErr *models.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
	if storageErr.Op != "insert reading" {
		t.Errorf("Expected op 'insert reading', got %q", storageErr.Op)
	}
}

func TestGetLatestReading_Empty(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)

	mock.ExpectQuery("FROM sensor_data ORDER BY timestamp DESC, id DESC LIMIT 1").
		WillReturnRows(sqlmock.NewRows(readingRowColumns))

	reading, err := dm.GetLatestReading(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reading != nil {
		t.Errorf("Expected nil reading for empty table, got %+v", reading)
	}
}

func TestGetLatestReading_ConnectionFailure(t *testing.T) {
	dm, mock := setupPingMonitoredDatabaseManager(t)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	reading, err := dm.GetLatestReading(context.Background())
	if reading != nil {
		t.Errorf("Expected no reading, got %+v", reading)
	}

	var storageErr *models.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError on failed ping, got %v", err)
	}

	// The failed ping marks the connection unhealthy; later reads must not
	// report an empty table either
	reading, err = dm.GetLatestReading(context.Background())
	if reading != nil || !errors.As(err, &storageErr) {
		t.Errorf("Expected StorageError while unhealthy, got reading=%v err=%v", reading, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestGetLatestReading_PingedEmpty(t *testing.T) {
	dm, mock := setupPingMonitoredDatabaseManager(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT (.+) FROM sensor_data").
		WillReturnRows(sqlmock.NewRows(readingRowColumns))

	reading, err := dm.GetLatestReading(context.Background())
	if err != nil || reading != nil {
		t.Errorf("Expected (nil, nil) for an empty table, got reading=%v err=%v", reading, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestGetLatestReading_Mock(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	mock.ExpectQuery("FROM sensor_data ORDER BY timestamp DESC").
		WillReturnRows(sqlmock.NewRows(readingRowColumns).
			AddRow(7, ts, 36.2, 38.0, 25, 1200, true, true, true))

	reading, err := dm.GetLatestReading(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reading == nil {
		t.Fatal("Expected a reading")
	}

	if reading.ID != 7 || reading.SoilMoisture != 25 || reading.LightValue != 1200 {
		t.Errorf("Unexpected reading: %+v", reading)
	}
	if !reading.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, reading.Timestamp)
	}
	if !reading.Actuators().AnyOn() {
		t.Error("Expected actuator flags to be scanned")
	}
}

func TestGetReadingsPage_InvalidQuery(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)

	testCases := []models.LogsQuery{
		{Page: 0, Limit: 10},
		{Page: 1, Limit: 0},
		{Page: -1, Limit: -1},
	}

	for _, q := range testCases {
		_, err := dm.GetReadingsPage(context.Background(), q)

		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Expected ValidationError for %+v, got %v", q, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Expected no statements to run: %v", err)
	}
}

func TestGetReadingsPage_Offset(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery("LIMIT \\$1 OFFSET \\$2").
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(readingRowColumns).
			AddRow(15, ts, 20.0, 50.0, 40, 2000, false, false, false).
			AddRow(14, ts.Add(-time.Minute), 21.0, 51.0, 41, 2001, false, false, false))

	page, err := dm.GetReadingsPage(context.Background(), models.LogsQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("Expected GetReadingsPage to succeed: %v", err)
	}

	if page.TotalRecords != 25 {
		t.Errorf("Expected 25 total records, got %d", page.TotalRecords)
	}
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", page.TotalPages)
	}
	if page.Page != 2 || page.Limit != 10 {
		t.Errorf("Expected page 2 limit 10, got %d/%d", page.Page, page.Limit)
	}
	if len(page.Logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(page.Logs))
	}
	if page.Logs[0].Timestamp != "2024-05-01 12:00:00" {
		t.Errorf("Expected formatted timestamp, got %s", page.Logs[0].Timestamp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestGetRecentReadings_Mock(t *testing.T) {
	dm, mock := setupMockDatabaseManager(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("IS NOT NULL").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(readingRowColumns).
			AddRow(2, ts, 20.0, 50.0, 40, 2000, false, false, false).
			AddRow(1, ts.Add(-time.Minute), 21.0, 51.0, 41, 2001, false, false, false))

	readings, err := dm.GetRecentReadings(context.Background(), 100)
	if err != nil {
		t.Fatalf("Expected GetRecentReadings to succeed: %v", err)
	}

	if len(readings) != 2 {
		t.Fatalf("Expected 2 readings, got %d", len(readings))
	}
	if readings[0].ID != 2 {
		t.Errorf("Expected newest reading first, got id %d", readings[0].ID)
	}
}

func TestReadingRoundTrip(t *testing.T) {
	dm := setupTestDatabaseManager(t)
	if dm == nil {
		t.Skip("Skipping test that requires real database connection")
	}
	defer dm.Close()

	ctx := context.Background()

	reading := &models.SensorReading{
		Temperature:  36.5,
		Humidity:     35.0,
		SoilMoisture: 12,
		LightValue:   900,
		WaterPump:    true,
		Humidifier:   true,
		CoolingFan:   true,
	}

	if err := dm.InsertReading(ctx, reading); err != nil {
		t.Fatalf("Expected InsertReading to succeed: %v", err)
	}

	latest, err := dm.GetLatestReading(ctx)
	if err != nil {
		t.Fatalf("Expected GetLatestReading to succeed: %v", err)
	}
	if latest == nil {
		t.Fatal("Expected a latest reading")
	}

	if latest.ID != reading.ID {
		t.Errorf("Expected id %d, got %d", reading.ID, latest.ID)
	}
	if latest.Temperature != reading.Temperature || latest.Humidity != reading.Humidity {
		t.Errorf("Expected temperature/humidity to round-trip, got %+v", latest)
	}
	if latest.SoilMoisture != reading.SoilMoisture || latest.LightValue != reading.LightValue {
		t.Errorf("Expected soil/light to round-trip, got %+v", latest)
	}
	if latest.Actuators() != reading.Actuators() {
		t.Errorf("Expected actuators %+v, got %+v", reading.Actuators(), latest.Actuators())
	}
}

func TestGetReadingsPage_Integration(t *testing.T) {
	dm := setupTestDatabaseManager(t)
	if dm == nil {
		t.Skip("Skipping test that requires real database connection")
	}
	defer dm.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 25; i++ {
		reading := &models.SensorReading{
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Temperature:  20,
			Humidity:     50,
			SoilMoisture: i,
			LightValue:   2000,
		}
		if err := dm.InsertReading(ctx, reading); err != nil {
			t.Fatalf("Failed to insert reading %d: %v", i, err)
		}
	}

	page, err := dm.GetReadingsPage(ctx, models.LogsQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("Expected GetReadingsPage to succeed: %v", err)
	}

	if page.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", page.TotalPages)
	}
	if len(page.Logs) != 10 {
		t.Fatalf("Expected 10 logs, got %d", len(page.Logs))
	}
	// newest is soil_moisture 24, so page 2 starts at 14
	if page.Logs[0].SoilMoisture != 14 {
		t.Errorf("Expected page 2 to start at soil_moisture 14, got %d", page.Logs[0].SoilMoisture)
	}
}
