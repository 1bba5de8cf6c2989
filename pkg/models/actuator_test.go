package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIsValidActuator(t *testing.T) {
	for _, name := range ValidActuators {
		if !IsValidActuator(name) {
			t.Errorf("Expected %s to be valid", name)
		}
	}

	for _, name := range []string{"heater", "", "WATER_PUMP"} {
		if IsValidActuator(name) {
			t.Errorf("Expected %q to be invalid", name)
		}
	}
}

func TestActuatorStates_SetGet(t *testing.T) {
	var s ActuatorStates
	s.Set(ActuatorHumidifier, true)
	s.Set("heater", true)

	if !s.Get(ActuatorHumidifier) {
		t.Error("Expected humidifier to be on")
	}
	if s.Get(ActuatorWaterPump) || s.Get(ActuatorCoolingFan) {
		t.Error("Expected other actuators to stay off")
	}
	if s.Get("heater") {
		t.Error("Expected unknown actuator to read as off")
	}
}

func TestActuatorStates_Or(t *testing.T) {
	requested := ActuatorStates{WaterPump: true}
	decided := ActuatorStates{CoolingFan: true}

	got := requested.Or(decided)
	expected := ActuatorStates{WaterPump: true, CoolingFan: true}
	if got != expected {
		t.Errorf("Expected %+v, got %+v", expected, got)
	}

	if (ActuatorStates{}).AnyOn() {
		t.Error("Expected zero value to have nothing on")
	}
	if !got.AnyOn() {
		t.Error("Expected AnyOn to be true")
	}
}

func TestParseActuatorState(t *testing.T) {
	testCases := []struct {
		name        string
		input       any
		expected    bool
		expectError bool
	}{
		{name: "nil", input: nil, expected: false},
		{name: "true", input: true, expected: true},
		{name: "false", input: false, expected: false},
		{name: "one float", input: float64(1), expected: true},
		{name: "zero float", input: float64(0), expected: false},
		{name: "int", input: 3, expected: true},
		{name: "json number", input: json.Number("1"), expected: true},
		{name: "string on", input: "ON", expected: true},
		{name: "string yes", input: "yes", expected: true},
		{name: "string off", input: "off", expected: false},
		{name: "string zero", input: "0", expected: false},
		{name: "empty string", input: "", expected: false},
		{name: "garbage string", input: "maybe", expectError: true},
		{name: "object", input: map[string]any{}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseActuatorState(tc.input)
			if tc.expectError {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("Expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNewUnknownActuatorError(t *testing.T) {
	err := NewUnknownActuatorError("heater")
	expected := "Invalid actuator. Valid options are: ['water_pump', 'humidifier', 'cooling_fan']"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
