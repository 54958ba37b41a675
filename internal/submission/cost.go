package submission

import "github.com/roach88/kitty/internal/ir"

// Default cost schedule values, in cost units.
const (
	DefaultBaseCost         = 21000
	DefaultByteCost         = 16
	DefaultStorageWriteCost = 5000
)

// CostSchedule prices a committed invocation.
//
// The cost of a commit is
//
//	Base + PerByte*len(canonical JSON of the arguments) + metered units + StorageWrite*writes
//
// so it depends only on the arguments and the work the operation does.
type CostSchedule struct {
	Base         uint64
	PerByte      uint64
	StorageWrite uint64
}

// DefaultCostSchedule returns the schedule used unless overridden.
func DefaultCostSchedule() CostSchedule {
	return CostSchedule{
		Base:         DefaultBaseCost,
		PerByte:      DefaultByteCost,
		StorageWrite: DefaultStorageWriteCost,
	}
}

// Intrinsic returns the cost charged before the operation runs.
func (c CostSchedule) Intrinsic(args []ir.IRValue) (uint64, error) {
	data, err := ir.MarshalCanonical(ir.IRArray(args))
	if err != nil {
		return 0, err
	}
	return c.Base + c.PerByte*uint64(len(data)), nil
}

// Total combines intrinsic cost, metered units and storage writes.
func (c CostSchedule) Total(intrinsic, units, writes uint64) uint64 {
	return intrinsic + units + c.StorageWrite*writes
}
