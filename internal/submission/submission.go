package submission

import (
	"context"

	"github.com/roach88/kitty/internal/ir"
)

// Submission is a live, addressable candidate implementation.
//
// Probe observes the return value of an operation without committing any
// state change. Commit runs the operation against the live state and
// reports what it cost. Both return an *InvocationError when the operation
// cannot produce a value.
type Submission interface {
	// Name returns the stable display name.
	Name() string

	// Address returns the stable identifier of this instance.
	Address() string

	// Probe invokes op without side effects.
	Probe(ctx context.Context, op string, args []ir.IRValue) (ir.IRValue, error)

	// Commit invokes op and keeps its state changes.
	Commit(ctx context.Context, op string, args []ir.IRValue) (Receipt, error)
}

// Receipt describes a committed invocation.
type Receipt struct {
	// Value is the value returned by the committed call.
	Value ir.IRValue

	// Cost is the resource cost, or nil when the submission does not
	// report one.
	Cost *uint64

	// Units is the metered execution units.
	Units uint64

	// Nonce is the number of commits applied so far, including this one.
	Nonce uint64
}

// Provider turns a submission name into a live submission.
// Unknown names produce an error wrapping ErrUnknownSubmission.
type Provider interface {
	Open(name string) (Submission, error)
}

// Lister is implemented by providers that can enumerate their submissions.
type Lister interface {
	Names() ([]string, error)
}
