package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/kitty/internal/harness"
	"github.com/roach88/kitty/internal/ir"
)

// marshalExpected converts an expected value to canonical JSON TEXT.
// A missing expectation is stored as NULL.
func marshalExpected(v ir.IRValue) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal expected: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalExpected parses canonical JSON TEXT back into an IR value.
// Integers keep full precision.
func unmarshalExpected(data sql.NullString) (ir.IRValue, error) {
	if !data.Valid {
		return nil, nil
	}
	v, err := ir.UnmarshalIRValue([]byte(data.String))
	if err != nil {
		return nil, fmt.Errorf("unmarshal expected: %w", err)
	}
	return v, nil
}

func marshalActual(a harness.Actual) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal actual: %w", err)
	}
	return string(data), nil
}

func unmarshalActual(data string) (harness.Actual, error) {
	var a harness.Actual
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return harness.Actual{}, fmt.Errorf("unmarshal actual: %w", err)
	}
	return a, nil
}

// marshalCost maps an optional cost onto a nullable INTEGER column.
// SQLite integers are signed 64-bit.
func marshalCost(cost *uint64) (sql.NullInt64, error) {
	if cost == nil {
		return sql.NullInt64{}, nil
	}
	if *cost > math.MaxInt64 {
		return sql.NullInt64{}, fmt.Errorf("resource cost %d does not fit in a SQLite integer", *cost)
	}
	return sql.NullInt64{Int64: int64(*cost), Valid: true}, nil
}

func unmarshalCost(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	c := uint64(v.Int64)
	return &c
}
