package ScriptedSubmission

import (
	"math/big"
	"strings"
)

func Concatenate(a, b string) string {
	return a + b
}

func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func CountOccurrences(s, c string) int {
	return strings.Count(s, c)
}

func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func Multiply(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func Power(a, b *big.Int) *big.Int {
	return new(big.Int).Exp(a, b, nil)
}

func Fibonacci(n *big.Int) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := int64(0); i < n.Int64(); i++ {
		next := new(big.Int).Add(a, b)
		a = b
		b = next
	}
	return a
}

func SumArray(xs []*big.Int) *big.Int {
	sum := new(big.Int)
	for _, x := range xs {
		sum.Add(sum, x)
	}
	return sum
}

func FindMax(xs []*big.Int) *big.Int {
	max := xs[0]
	for _, x := range xs[1:] {
		if x.Cmp(max) > 0 {
			max = x
		}
	}
	return max
}

func Sort(xs []*big.Int) []*big.Int {
	out := make([]*big.Int, len(xs))
	copy(out, xs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Cmp(out[j]) > 0; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
