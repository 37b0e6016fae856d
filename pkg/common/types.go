package common

import (
	"errors"
	"fmt"
)

// Status is the outcome reported back to the workload driver.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusError
	StatusNotImplemented
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusError:
		return "ERROR"
	case StatusNotImplemented:
		return "NOT_IMPLEMENTED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Statuses lists every status in declaration order.
var Statuses = []Status{StatusOK, StatusNotFound, StatusError, StatusNotImplemented}

var (
	ErrNotFound       = errors.New("record not found")
	ErrNotImplemented = errors.New("operation not supported by this binding")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// StatusOf maps an operation error onto the benchmark status domain.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrNotImplemented):
		return StatusNotImplemented
	default:
		return StatusError
	}
}

// ConfigError wraps ErrInvalidConfig with the offending property.
func ConfigError(key string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

// Record is a single benchmark row: field name to field value.
type Record map[string][]byte

// String 方便调试打印
func (r Record) String() string {
	size := 0
	for _, v := range r {
		size += len(v)
	}
	return fmt.Sprintf("Record{Fields: %d, Bytes: %d}", len(r), size)
}
