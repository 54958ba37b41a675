package submission

import (
	"math/big"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/roach88/kitty/internal/ir"
)

// ReferenceOperations returns the efficient implementation of every known
// operation.
func ReferenceOperations() []Operation {
	return []Operation{
		{Name: OpConcatenate, Arity: 2, Fn: refConcatenate},
		{Name: OpReverse, Arity: 1, Fn: refReverse},
		{Name: OpCountOccurrences, Arity: 2, Fn: refCountOccurrences},
		{Name: OpAdd, Arity: 2, Fn: refAdd},
		{Name: OpMultiply, Arity: 2, Fn: refMultiply},
		{Name: OpPower, Arity: 2, Fn: refPower},
		{Name: OpFibonacci, Arity: 1, Fn: refFibonacci},
		{Name: OpSumArray, Arity: 1, Fn: refSumArray},
		{Name: OpFindMax, Arity: 1, Fn: refFindMax},
		{Name: OpSort, Arity: 1, Fn: refSort},
	}
}

func refConcatenate(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	if err := env.Meter.Charge(uint64(len(a)+len(b))/32 + 1); err != nil {
		return nil, err
	}
	return ir.IRString(a + b), nil
}

func refReverse(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if err := env.Meter.Charge(uint64(len(runes)) + 1); err != nil {
		return nil, err
	}
	slices.Reverse(runes)
	return ir.IRString(string(runes)), nil
}

func refCountOccurrences(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(sub) != 1 {
		return nil, Fault("countOccurrences wants a single character, got %q", sub)
	}
	if err := env.Meter.Charge(uint64(len(s)) + 1); err != nil {
		return nil, err
	}
	return ir.NewIRInt(int64(strings.Count(s, sub))), nil
}

func refAdd(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	if err := env.Meter.Charge(words(a) + words(b)); err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(a.Add(a, b)), nil
}

func refMultiply(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	if err := env.Meter.Charge(words(a) * words(b)); err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(a.Mul(a, b)), nil
}

// refPower uses square-and-multiply, charging the size of the operands at
// every step.
func refPower(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	base, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := smallIntArg(args, 1, "exponent")
	if err != nil {
		return nil, err
	}

	result := big.NewInt(1)
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			result.Mul(result, base)
		}
		if e > 1 {
			base.Mul(base, base)
		}
		if err := env.Meter.Charge(words(result) + words(base)); err != nil {
			return nil, err
		}
	}
	return ir.NewIRBigInt(result), nil
}

func refFibonacci(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	n, err := smallIntArg(args, 0, "fibonacci index")
	if err != nil {
		return nil, err
	}

	a, b := big.NewInt(0), big.NewInt(1)
	for i := int64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
		if err := env.Meter.Charge(words(b)); err != nil {
			return nil, err
		}
	}
	return ir.NewIRBigInt(a), nil
}

func refSumArray(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, n := range ns {
		sum.Add(sum, n)
	}
	if err := env.Meter.Charge(uint64(len(ns)) + 1); err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(sum), nil
}

func refFindMax(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, Fault("findMax of an empty sequence")
	}
	if err := env.Meter.Charge(uint64(len(ns))); err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(slices.MaxFunc(ns, (*big.Int).Cmp)), nil
}

func refSort(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	var compares uint64
	slices.SortStableFunc(ns, func(a, b *big.Int) int {
		compares++
		return a.Cmp(b)
	})
	if err := env.Meter.Charge(compares + 1); err != nil {
		return nil, err
	}
	return ir.FromBigInts(ns), nil
}

func twoInts(args []ir.IRValue) (*big.Int, *big.Int, error) {
	a, err := intArg(args, 0)
	if err != nil {
		return nil, nil, err
	}
	b, err := intArg(args, 1)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
