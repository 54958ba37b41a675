package submission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitty/internal/catalog"
	"github.com/roach88/kitty/internal/ir"
)

func TestBuiltinSubmissionsPassCatalogs(t *testing.T) {
	provider := NewBuiltin()
	names, err := provider.Names()
	require.NoError(t, err)
	require.Equal(t, []string{ReferenceName, NaiveName}, names)

	for _, name := range names {
		sub, err := provider.Open(name)
		require.NoError(t, err)

		for _, cat := range catalog.Builtin() {
			for _, tc := range cat.Tests() {
				t.Run(name+"/"+tc.Name, func(t *testing.T) {
					got, err := sub.Probe(context.Background(), tc.Operation, tc.Args)
					require.NoError(t, err)
					assert.Equal(t, ir.Canonical(tc.Expected), ir.Canonical(got))
					assert.Equal(t, ir.KindOf(tc.Expected), ir.KindOf(got))
				})
			}
		}
	}
}

func TestNaiveCostsMore(t *testing.T) {
	ctx := context.Background()
	provider := NewBuiltin()
	ref, err := provider.Open(ReferenceName)
	require.NoError(t, err)
	naive, err := provider.Open(NaiveName)
	require.NoError(t, err)

	args := []ir.IRValue{ir.Ints(3, 1, 4, 1, 5, 9, 2, 6)}
	refReceipt, err := ref.Commit(ctx, OpSort, args)
	require.NoError(t, err)
	naiveReceipt, err := naive.Commit(ctx, OpSort, args)
	require.NoError(t, err)

	require.NotNil(t, refReceipt.Cost)
	require.NotNil(t, naiveReceipt.Cost)
	assert.Greater(t, naiveReceipt.Units, refReceipt.Units)
	assert.Greater(t, *naiveReceipt.Cost, *refReceipt.Cost)
}

func TestOperationFaults(t *testing.T) {
	tests := []struct {
		name string
		op   string
		args []ir.IRValue
		code ErrorCode
	}{
		{name: "findMax empty", op: OpFindMax, args: []ir.IRValue{ir.Ints()}, code: CodeRuntimeFault},
		{name: "negative exponent", op: OpPower, args: []ir.IRValue{ir.NewIRInt(2), ir.NewIRInt(-1)}, code: CodeRuntimeFault},
		{name: "negative fibonacci", op: OpFibonacci, args: []ir.IRValue{ir.NewIRInt(-3)}, code: CodeRuntimeFault},
		{name: "count multi-char", op: OpCountOccurrences, args: []ir.IRValue{ir.IRString("aaa"), ir.IRString("aa")}, code: CodeRuntimeFault},
		{name: "add string", op: OpAdd, args: []ir.IRValue{ir.IRString("1"), ir.NewIRInt(2)}, code: CodeTypeMismatch},
		{name: "sum of strings", op: OpSumArray, args: []ir.IRValue{ir.NewIRArray(ir.IRString("x"))}, code: CodeTypeMismatch},
		{name: "reverse int", op: OpReverse, args: []ir.IRValue{ir.NewIRInt(5)}, code: CodeTypeMismatch},
		{name: "huge fibonacci", op: OpFibonacci, args: []ir.IRValue{ir.MustParseIRInt("100000000000000000000")}, code: CodeRuntimeFault},
	}

	for _, name := range []string{ReferenceName, NaiveName} {
		sub, err := NewBuiltin().Open(name)
		require.NoError(t, err)

		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				_, err := sub.Probe(context.Background(), tt.op, tt.args)
				require.Error(t, err)
				assert.Equal(t, tt.code, CodeOf(err))
			})
		}
	}
}

func TestNaiveHitsCostLimit(t *testing.T) {
	sub, err := NewBuiltin(WithMaxUnits(10_000)).Open(NaiveName)
	require.NoError(t, err)

	_, err = sub.Probe(context.Background(), OpFibonacci, []ir.IRValue{ir.NewIRInt(40)})
	require.Error(t, err)
	assert.Equal(t, CodeCostLimit, CodeOf(err))

	_, err = sub.Probe(context.Background(), OpMultiply, []ir.IRValue{ir.NewIRInt(2), ir.MustParseIRInt("1000000000000")})
	require.Error(t, err)
	assert.Equal(t, CodeCostLimit, CodeOf(err))
}

func TestWideArithmetic(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{ReferenceName, NaiveName} {
		sub, err := NewBuiltin().Open(name)
		require.NoError(t, err)

		got, err := sub.Probe(ctx, OpPower, []ir.IRValue{ir.NewIRInt(2), ir.NewIRInt(100)})
		require.NoError(t, err)
		assert.Equal(t, "1267650600228229401496703205376", ir.Canonical(got), name)

		got, err = sub.Probe(ctx, OpMultiply, []ir.IRValue{ir.NewIRInt(-3), ir.NewIRInt(4)})
		require.NoError(t, err)
		assert.Equal(t, "-12", ir.Canonical(got), name)

		got, err = sub.Probe(ctx, OpMultiply, []ir.IRValue{ir.NewIRInt(3), ir.NewIRInt(-4)})
		require.NoError(t, err)
		assert.Equal(t, "-12", ir.Canonical(got), name)

		got, err = sub.Probe(ctx, OpReverse, []ir.IRValue{ir.IRString("ab😀")})
		require.NoError(t, err)
		assert.Equal(t, "😀ba", ir.Canonical(got), name)
	}
}

func TestChain(t *testing.T) {
	custom := NewBuiltin()
	custom.Register("CustomSubmission", func() []Operation {
		return []Operation{{Name: OpAdd, Arity: 2, Fn: refAdd}}
	})
	chain := Chain{NewScriptProvider(t.TempDir(), nil), custom}

	sub, err := chain.Open("CustomSubmission")
	require.NoError(t, err)
	assert.Equal(t, "CustomSubmission", sub.Name())

	_, err = chain.Open("Nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSubmission)

	names, err := chain.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{ReferenceName, NaiveName, "CustomSubmission"}, names)
}

func TestBuiltinOpenReturnsFreshInstances(t *testing.T) {
	ctx := context.Background()
	provider := NewBuiltin()

	a, err := provider.Open(ReferenceName)
	require.NoError(t, err)
	_, err = a.Commit(ctx, OpAdd, []ir.IRValue{ir.NewIRInt(1), ir.NewIRInt(2)})
	require.NoError(t, err)

	b, err := provider.Open(ReferenceName)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.(*Instance).Snapshot().Nonce())
	assert.Equal(t, uint64(0), b.(*Instance).Snapshot().Nonce())
}
