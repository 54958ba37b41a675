package submission

import (
	"fmt"
	"slices"
)

// Names of the native submissions shipped with the runner.
const (
	ReferenceName = "ReferenceSubmission"
	NaiveName     = "NaiveSubmission"
)

// Builtin provides submissions implemented in Go.
// Each Open returns a fresh instance with its own state.
type Builtin struct {
	order []string
	defs  map[string]func() []Operation
	opts  []Option
}

// NewBuiltin creates a provider holding the Reference and Naive
// submissions. The options are applied to every instance it opens.
func NewBuiltin(opts ...Option) *Builtin {
	b := &Builtin{
		defs: make(map[string]func() []Operation),
		opts: opts,
	}
	b.Register(ReferenceName, ReferenceOperations)
	b.Register(NaiveName, NaiveOperations)
	return b
}

// Register adds or replaces a native submission definition.
func (b *Builtin) Register(name string, ops func() []Operation) {
	if _, exists := b.defs[name]; !exists {
		b.order = append(b.order, name)
	}
	b.defs[name] = ops
}

// Names returns the registered submission names in registration order.
func (b *Builtin) Names() ([]string, error) {
	return slices.Clone(b.order), nil
}

// Open instantiates the named submission.
func (b *Builtin) Open(name string) (Submission, error) {
	def, ok := b.defs[name]
	if !ok {
		return nil, &ProviderError{Name: name, Err: fmt.Errorf("%w: no native definition", ErrUnknownSubmission)}
	}
	return NewInstance(name, def(), b.opts...), nil
}
