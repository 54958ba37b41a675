package submission

import "fmt"

// DefaultMaxUnits bounds the execution units a single invocation may
// consume. It keeps naive algorithms (recursive fibonacci, repeated
// multiplication) from running away on large inputs.
const DefaultMaxUnits = 10_000_000

// Meter counts execution units for one invocation and enforces a limit.
//
// Each invocation gets its own Meter. Operation functions call Charge for
// every unit of work (a loop iteration, a comparison, a recursive call).
// A limit of 0 means unlimited.
type Meter struct {
	limit uint64
	used  uint64
}

// NewMeter creates a meter with the given limit.
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Charge adds units to the meter.
//
// Returns LimitExceededError once the total passes the limit. The units are
// still counted so the error reports how far the invocation got.
func (m *Meter) Charge(units uint64) error {
	m.used += units
	if m.limit > 0 && m.used > m.limit {
		return &LimitExceededError{Used: m.used, Limit: m.limit}
	}
	return nil
}

// Used returns the units consumed so far.
func (m *Meter) Used() uint64 {
	return m.used
}

// Limit returns the configured limit.
func (m *Meter) Limit() uint64 {
	return m.limit
}

// LimitExceededError is returned by Charge when the meter runs out.
// The instance reports it as a COST_LIMIT invocation error.
type LimitExceededError struct {
	Used  uint64
	Limit uint64
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("execution exceeded unit limit: %d units > %d limit", e.Used, e.Limit)
}
