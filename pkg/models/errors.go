package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrModelUnavailable is returned when no classifier was loaded at startup
	ErrModelUnavailable = errors.New("ML model not loaded")

	// ErrNoSensorData is returned when a prediction is requested before any
	// reading was stored
	ErrNoSensorData = &NotFoundError{Message: "No sensor data available"}
)

// NotFoundError carries a specific message and matches ErrNotFound
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrNotFound) hold
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a bad request: missing fields, bad pagination or an
// unknown actuator
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewMissingFieldsError lists the missing field names
func NewMissingFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields: " + FormatFieldList(fields),
		Fields:  fields,
	}
}

// NewInvalidFieldsError lists fields present with a non-numeric value
func NewInvalidFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Invalid numeric fields: " + FormatFieldList(fields),
		Fields:  fields,
	}
}

// NewUnknownActuatorError rejects an actuator name
func NewUnknownActuatorError(name string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("Invalid actuator. Valid options are: %s", FormatFieldList(ValidActuators)),
		Fields:  []string{name},
	}
}

// FormatFieldList renders names as ['a', 'b']
func FormatFieldList(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = "'" + f + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// StorageError wraps a failed database operation
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PredictionError wraps a failed inference call
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("Prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
