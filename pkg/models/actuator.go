package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Actuator names
const (
	ActuatorWaterPump  = "water_pump"
	ActuatorHumidifier = "humidifier"
	ActuatorCoolingFan = "cooling_fan"
)

// ValidActuators lists every controllable actuator
var ValidActuators = []string{ActuatorWaterPump, ActuatorHumidifier, ActuatorCoolingFan}

// IsValidActuator reports whether name is a known actuator
func IsValidActuator(name string) bool {
	for _, a := range ValidActuators {
		if a == name {
			return true
		}
	}
	return false
}

// ActuatorStates holds the on/off state of the three actuators
type ActuatorStates struct {
	WaterPump  bool `json:"water_pump"`
	Humidifier bool `json:"humidifier"`
	CoolingFan bool `json:"cooling_fan"`
}

// Get returns the state of the named actuator
func (s ActuatorStates) Get(name string) bool {
	switch name {
	case ActuatorWaterPump:
		return s.WaterPump
	case ActuatorHumidifier:
		return s.Humidifier
	case ActuatorCoolingFan:
		return s.CoolingFan
	}
	return false
}

// Set changes the state of the named actuator; unknown names are ignored
func (s *ActuatorStates) Set(name string, on bool) {
	switch name {
	case ActuatorWaterPump:
		s.WaterPump = on
	case ActuatorHumidifier:
		s.Humidifier = on
	case ActuatorCoolingFan:
		s.CoolingFan = on
	}
}

// Or combines two triples; an actuator is on if it is on in either
func (s ActuatorStates) Or(other ActuatorStates) ActuatorStates {
	return ActuatorStates{
		WaterPump:  s.WaterPump || other.WaterPump,
		Humidifier: s.Humidifier || other.Humidifier,
		CoolingFan: s.CoolingFan || other.CoolingFan,
	}
}

// AnyOn reports whether at least one actuator is on
func (s ActuatorStates) AnyOn() bool {
	return s.WaterPump || s.Humidifier || s.CoolingFan
}

// ActuatorState is the persisted singleton row
type ActuatorState struct {
	ActuatorStates
	LastUpdated time.Time `json:"last_updated"`
}

// ActuatorCommand is the body of POST /api/actuator
type ActuatorCommand struct {
	Actuator string `json:"actuator"`
	State    any    `json:"state"`
}

// ActuatorChange is the payload of a single-actuator update event
type ActuatorChange struct {
	Actuator string `json:"actuator"`
	State    bool   `json:"state"`
}

// ParseActuatorState converts the accepted on/off forms into a bool.
// Accepted: JSON null, booleans, numbers (non-zero is on) and the strings
// true/false, on/off, yes/no, 1/0 and the empty string (off).
func ParseActuatorState(v any) (bool, error) {
	switch s := v.(type) {
	case nil:
		return false, nil
	case bool:
		return s, nil
	case float64:
		return s != 0, nil
	case float32:
		return s != 0, nil
	case int:
		return s != 0, nil
	case int64:
		return s != 0, nil
	case json.Number:
		f, err := s.Float64()
		if err != nil {
			return false, &ValidationError{Message: fmt.Sprintf("Invalid actuator state: %q", s.String())}
		}
		return f != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0", "":
			return false, nil
		}
		return false, &ValidationError{Message: fmt.Sprintf("Invalid actuator state: %q", s)}
	}
	return false, &ValidationError{Message: fmt.Sprintf("Invalid actuator state type: %T", v)}
}
