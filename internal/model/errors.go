package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNoRecord = errors.New("no record")
var ErrUnauthorized = errors.New("calendar access not granted")

// MissingFieldError lists required input fields that were absent or invalid.
type MissingFieldError struct {
	Fields map[string]string
}

func (e *MissingFieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}

	return "missing required field: " + strings.Join(parts, "; ")
}

// StoreError wraps a failure reported by the calendar store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
