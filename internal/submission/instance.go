package submission

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/roach88/kitty/internal/ir"
)

// Fn implements one operation. It reads and writes state through env and
// charges its work to env.Meter.
type Fn func(env *Env, args []ir.IRValue) (ir.IRValue, error)

// Operation is one entry of a submission's capability table.
type Operation struct {
	Name string

	// Arity is the required argument count; negative means variadic.
	Arity int

	Fn Fn
}

// Env is the execution environment of a single invocation.
type Env struct {
	State *State
	Meter *Meter
}

// Instance is a Submission backed by a capability table and an isolated
// state container. Every instance owns its state, so distinct instances
// may be used from different goroutines. Calls on one instance are
// serialized.
type Instance struct {
	name     string
	address  string
	ops      map[string]Operation
	schedule CostSchedule
	maxUnits uint64
	timeout  time.Duration
	noCost   bool

	mu    sync.Mutex
	state *State
}

// Option configures an Instance.
type Option func(*Instance)

// WithCostSchedule sets the cost schedule used by Commit.
func WithCostSchedule(s CostSchedule) Option {
	return func(i *Instance) {
		i.schedule = s
	}
}

// WithMaxUnits sets the per-invocation unit limit. 0 means unlimited.
func WithMaxUnits(n uint64) Option {
	return func(i *Instance) {
		i.maxUnits = n
	}
}

// WithTimeout bounds each invocation by wall-clock time. 0 disables it.
func WithTimeout(d time.Duration) Option {
	return func(i *Instance) {
		i.timeout = d
	}
}

// WithoutCost makes Commit return receipts without a cost, modelling a
// submission that cannot report one.
func WithoutCost() Option {
	return func(i *Instance) {
		i.noCost = true
	}
}

// NewInstance creates an instance with an empty state.
func NewInstance(name string, ops []Operation, opts ...Option) *Instance {
	inst := &Instance{
		name:     name,
		address:  ir.Address(name),
		ops:      make(map[string]Operation, len(ops)),
		schedule: DefaultCostSchedule(),
		maxUnits: DefaultMaxUnits,
		state:    NewState(),
	}
	for _, op := range ops {
		inst.ops[op.Name] = op
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Name returns the display name.
func (i *Instance) Name() string { return i.name }

// Address returns the instance address derived from its name.
func (i *Instance) Address() string { return i.address }

// Operations returns the supported operation names in sorted order.
func (i *Instance) Operations() []string {
	return slices.Sorted(maps.Keys(i.ops))
}

// Snapshot returns a copy of the live state.
func (i *Instance) Snapshot() *State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state.Clone()
}

// Probe runs op against a copy of the state and discards the copy.
func (i *Instance) Probe(ctx context.Context, op string, args []ir.IRValue) (ir.IRValue, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	val, _, err := i.invoke(ctx, i.state.Clone(), op, args)
	return val, err
}

// Commit runs op against a copy of the state, records the result under
// "result:<op>" and swaps the copy in. A failed commit leaves the live
// state unchanged.
func (i *Instance) Commit(ctx context.Context, op string, args []ir.IRValue) (Receipt, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	intrinsic, err := i.schedule.Intrinsic(args)
	if err != nil {
		return Receipt{}, &InvocationError{Code: CodeTypeMismatch, Operation: op, Message: err.Error(), Err: err}
	}

	work := i.state.Clone()
	val, meter, err := i.invoke(ctx, work, op, args)
	if err != nil {
		return Receipt{}, err
	}

	work.Set(ResultKey(op), val)
	work.nonce++
	i.state = work

	receipt := Receipt{Value: val, Units: meter.Used(), Nonce: work.nonce}
	if !i.noCost {
		cost := i.schedule.Total(intrinsic, meter.Used(), work.Writes())
		receipt.Cost = &cost
	}
	return receipt, nil
}

// ResultKey is the state key under which Commit stores the last result of op.
func ResultKey(op string) string {
	return "result:" + op
}

func (i *Instance) invoke(ctx context.Context, st *State, name string, args []ir.IRValue) (ir.IRValue, *Meter, error) {
	meter := NewMeter(i.maxUnits)

	op, ok := i.ops[name]
	if !ok {
		return nil, meter, &InvocationError{
			Code:      CodeMissingOperation,
			Operation: name,
			Message:   fmt.Sprintf("submission %s does not implement %q", i.name, name),
		}
	}
	if op.Arity >= 0 && len(args) != op.Arity {
		return nil, meter, &InvocationError{
			Code:      CodeArityMismatch,
			Operation: name,
			Message:   fmt.Sprintf("want %d arguments, got %d", op.Arity, len(args)),
		}
	}

	env := &Env{State: st, Meter: meter}
	val, err := i.call(ctx, op, env, args)
	if err != nil {
		return nil, meter, classify(name, err)
	}
	if val == nil {
		return nil, meter, &InvocationError{Code: CodeRuntimeFault, Operation: name, Message: "operation returned no value"}
	}
	return val, meter, nil
}

// call runs op.Fn, bounded by the instance timeout when one is set.
func (i *Instance) call(ctx context.Context, op Operation, env *Env, args []ir.IRValue) (ir.IRValue, error) {
	if i.timeout <= 0 && ctx.Done() == nil {
		return safeCall(op.Fn, env, args)
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	type outcome struct {
		val ir.IRValue
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		val, err := safeCall(op.Fn, env, args)
		done <- outcome{val, err}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func safeCall(fn Fn, env *Env, args []ir.IRValue) (val ir.IRValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = nil
			err = &InvocationError{Code: CodeRuntimeFault, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return fn(env, args)
}

// classify converts any error from an operation into an InvocationError.
func classify(op string, err error) *InvocationError {
	var ie *InvocationError
	if errors.As(err, &ie) {
		out := *ie
		if out.Operation == "" {
			out.Operation = op
		}
		return &out
	}

	var le *LimitExceededError
	switch {
	case errors.As(err, &le):
		return &InvocationError{Code: CodeCostLimit, Operation: op, Message: le.Error(), Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &InvocationError{Code: CodeTimeout, Operation: op, Message: "invocation did not finish: " + err.Error(), Err: err}
	default:
		return &InvocationError{Code: CodeRuntimeFault, Operation: op, Message: err.Error(), Err: err}
	}
}
