package submission

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/roach88/kitty/internal/ir"
)

// NaiveOperations returns straightforward implementations that produce the
// same values as ReferenceOperations with more work: byte-at-a-time string
// building, repeated addition and multiplication, recursive fibonacci and
// bubble sort.
func NaiveOperations() []Operation {
	return []Operation{
		{Name: OpConcatenate, Arity: 2, Fn: naiveConcatenate},
		{Name: OpReverse, Arity: 1, Fn: naiveReverse},
		{Name: OpCountOccurrences, Arity: 2, Fn: naiveCountOccurrences},
		{Name: OpAdd, Arity: 2, Fn: naiveAdd},
		{Name: OpMultiply, Arity: 2, Fn: naiveMultiply},
		{Name: OpPower, Arity: 2, Fn: naivePower},
		{Name: OpFibonacci, Arity: 1, Fn: naiveFibonacci},
		{Name: OpSumArray, Arity: 1, Fn: naiveSumArray},
		{Name: OpFindMax, Arity: 1, Fn: naiveFindMax},
		{Name: OpSort, Arity: 1, Fn: naiveSort},
	}
}

func naiveConcatenate(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, s := range []string{a, b} {
		for i := 0; i < len(s); i++ {
			sb.WriteByte(s[i])
			if err := env.Meter.Charge(3); err != nil {
				return nil, err
			}
		}
	}
	return ir.IRString(sb.String()), nil
}

func naiveReverse(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	out := ""
	for _, r := range s {
		out = string(r) + out
		if err := env.Meter.Charge(uint64(len(out))); err != nil {
			return nil, err
		}
	}
	return ir.IRString(out), nil
}

func naiveCountOccurrences(env *Env, args []ir.IRValue) (ir.IRValue, error) {
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
	var count int64
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
		if err := env.Meter.Charge(uint64(len(sub)) + 2); err != nil {
			return nil, err
		}
	}
	return ir.NewIRInt(count), nil
}

func naiveAdd(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	if err := env.Meter.Charge(4 * (words(a) + words(b))); err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(new(big.Int).Add(a, b)), nil
}

// naiveMultiply adds a to itself |b| times.
func naiveMultiply(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	a, b, err := twoInts(args)
	if err != nil {
		return nil, err
	}
	return repeatedAdd(env, a, b)
}

func repeatedAdd(env *Env, a, b *big.Int) (ir.IRValue, error) {
	n := new(big.Int).Abs(b)
	one := big.NewInt(1)
	sum := new(big.Int)
	for i := new(big.Int); i.Cmp(n) < 0; i.Add(i, one) {
		sum.Add(sum, a)
		if err := env.Meter.Charge(words(sum)); err != nil {
			return nil, err
		}
	}
	if b.Sign() < 0 {
		sum.Neg(sum)
	}
	return ir.NewIRBigInt(sum), nil
}

// naivePower multiplies base into the result exp times.
func naivePower(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	base, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := smallIntArg(args, 1, "exponent")
	if err != nil {
		return nil, err
	}
	result := big.NewInt(1)
	for i := int64(0); i < exp; i++ {
		result.Mul(result, base)
		if err := env.Meter.Charge(2 * words(result)); err != nil {
			return nil, err
		}
	}
	return ir.NewIRBigInt(result), nil
}

func naiveFibonacci(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	n, err := smallIntArg(args, 0, "fibonacci index")
	if err != nil {
		return nil, err
	}
	v, err := fibRecursive(env.Meter, n)
	if err != nil {
		return nil, err
	}
	return ir.NewIRBigInt(v), nil
}

func fibRecursive(m *Meter, n int64) (*big.Int, error) {
	if err := m.Charge(1); err != nil {
		return nil, err
	}
	if n < 2 {
		return big.NewInt(n), nil
	}
	a, err := fibRecursive(m, n-1)
	if err != nil {
		return nil, err
	}
	b, err := fibRecursive(m, n-2)
	if err != nil {
		return nil, err
	}
	return a.Add(a, b), nil
}

func naiveSumArray(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, n := range ns {
		sum = new(big.Int).Add(sum, n)
		if err := env.Meter.Charge(2 * words(sum)); err != nil {
			return nil, err
		}
	}
	return ir.NewIRBigInt(sum), nil
}

func naiveFindMax(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, Fault("findMax of an empty sequence")
	}
	// compare every element with every other one
	for _, candidate := range ns {
		isMax := true
		for _, other := range ns {
			if err := env.Meter.Charge(1); err != nil {
				return nil, err
			}
			if other.Cmp(candidate) > 0 {
				isMax = false
				break
			}
		}
		if isMax {
			return ir.NewIRBigInt(candidate), nil
		}
	}
	return nil, Fault("findMax found no maximum")
}

// naiveSort is a bubble sort.
func naiveSort(env *Env, args []ir.IRValue) (ir.IRValue, error) {
	ns, err := intArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(ns); i++ {
		for j := 0; j < len(ns)-1-i; j++ {
			if err := env.Meter.Charge(1); err != nil {
				return nil, err
			}
			if ns[j].Cmp(ns[j+1]) > 0 {
				ns[j], ns[j+1] = ns[j+1], ns[j]
			}
		}
	}
	return ir.FromBigInts(ns), nil
}
