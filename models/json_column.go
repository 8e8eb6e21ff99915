package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// valueJSON encodes v as a JSON string for text columns.
func valueJSON(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// scanJSON decodes a text or blob column into dest.
func scanJSON(value any, dest any) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON column: unsupported type %T", value)
	}
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, dest)
}

// StringList is a list of strings stored as a JSON array.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return valueJSON([]string(l))
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value any) error {
	return scanJSON(value, (*[]string)(l))
}

// IntList is a list of integers stored as a JSON array.
type IntList []int

// Value implements the driver.Valuer interface
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	return valueJSON([]int(l))
}

// Scan implements the sql.Scanner interface
func (l *IntList) Scan(value any) error {
	return scanJSON(value, (*[]int)(l))
}
