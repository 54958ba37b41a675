package submission

import (
	"math/big"

	"github.com/roach88/kitty/internal/ir"
)

// Operation identifiers used by the built-in catalogs.
const (
	OpConcatenate      = "concatenate"
	OpReverse          = "reverse"
	OpCountOccurrences = "countOccurrences"
	OpAdd              = "add"
	OpMultiply         = "multiply"
	OpPower            = "power"
	OpFibonacci        = "fibonacci"
	OpSumArray         = "sumArray"
	OpFindMax          = "findMax"
	OpSort             = "sort"
)

// Arity is the number of arguments each known operation takes.
var Arity = map[string]int{
	OpConcatenate:      2,
	OpReverse:          1,
	OpCountOccurrences: 2,
	OpAdd:              2,
	OpMultiply:         2,
	OpPower:            2,
	OpFibonacci:        1,
	OpSumArray:         1,
	OpFindMax:          1,
	OpSort:             1,
}

// OperationNames returns the known operation identifiers in a fixed order.
func OperationNames() []string {
	return []string{
		OpConcatenate, OpReverse, OpCountOccurrences,
		OpAdd, OpMultiply, OpPower, OpFibonacci,
		OpSumArray, OpFindMax, OpSort,
	}
}

func intArg(args []ir.IRValue, i int) (*big.Int, error) {
	n, err := ir.AsInt(args[i])
	if err != nil {
		return nil, TypeMismatch("argument %d: %v", i, err)
	}
	return n.Big(), nil
}

func stringArg(args []ir.IRValue, i int) (string, error) {
	s, err := ir.AsString(args[i])
	if err != nil {
		return "", TypeMismatch("argument %d: %v", i, err)
	}
	return s, nil
}

func intArrayArg(args []ir.IRValue, i int) ([]*big.Int, error) {
	ns, err := ir.AsIntArray(args[i])
	if err != nil {
		return nil, TypeMismatch("argument %d: %v", i, err)
	}
	return ns, nil
}

func smallIntArg(args []ir.IRValue, i int, what string) (int64, error) {
	n, err := intArg(args, i)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 {
		return 0, Fault("%s must not be negative, got %s", what, n)
	}
	if !n.IsInt64() {
		return 0, Fault("%s too large: %s", what, n)
	}
	return n.Int64(), nil
}

// words approximates the machine words touched by arithmetic on n.
func words(n *big.Int) uint64 {
	return uint64(len(n.Bits())) + 1
}
