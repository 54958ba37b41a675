package submission

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"math/big"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/roach88/kitty/internal/ir"
)

// DefaultScriptTimeout bounds each call into interpreted code.
const DefaultScriptTimeout = 5 * time.Second

// allowedImports lists the packages a script may import.
var allowedImports = map[string]bool{
	"errors":       true,
	"fmt":          true,
	"math":         true,
	"math/big":     true,
	"slices":       true,
	"sort":         true,
	"strconv":      true,
	"strings":      true,
	"unicode":      true,
	"unicode/utf8": true,
}

// ScriptProvider opens submissions written as Go source files and runs them
// with the yaegi interpreter.
//
// Each file in the directory is one package (see Discover). Operations are
// bound to exported functions named after the operation with the first
// letter upper-cased, with these signatures:
//
//	Concatenate(a, b string) string
//	Reverse(s string) string
//	CountOccurrences(s, c string) int          // or *big.Int
//	Add, Multiply, Power(a, b *big.Int) *big.Int
//	Fibonacci(n *big.Int) *big.Int
//	SumArray, FindMax(xs []*big.Int) *big.Int
//	Sort(xs []*big.Int) []*big.Int
//
// A missing function leaves the operation unsupported. A function with
// another signature is bound to an operation that always fails with
// TYPE_MISMATCH. Interpreted calls are not metered; their units are the
// length of the canonical result.
type ScriptProvider struct {
	dir    string
	logger *slog.Logger
	opts   []Option
}

// NewScriptProvider creates a provider for the sources in dir.
// Instances get DefaultScriptTimeout unless opts override it.
func NewScriptProvider(dir string, logger *slog.Logger, opts ...Option) *ScriptProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ScriptProvider{
		dir:    dir,
		logger: logger,
		opts:   append([]Option{WithTimeout(DefaultScriptTimeout)}, opts...),
	}
}

// Names returns the discovered submission names.
func (p *ScriptProvider) Names() ([]string, error) {
	sources, err := Discover(p.dir, p.logger)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return names, nil
}

// Open interprets the source declaring name and returns a fresh instance.
func (p *ScriptProvider) Open(name string) (Submission, error) {
	sources, err := Discover(p.dir, p.logger)
	if err != nil {
		return nil, &ProviderError{Name: name, Err: err}
	}
	idx := slices.IndexFunc(sources, func(s Source) bool { return s.Name == name })
	if idx < 0 {
		return nil, &ProviderError{Name: name, Err: fmt.Errorf("%w in %s", ErrUnknownSubmission, p.dir)}
	}

	ops, err := p.load(sources[idx])
	if err != nil {
		return nil, &ProviderError{Name: name, Err: err}
	}
	p.logger.Debug("submission loaded",
		"submission", name,
		"path", sources[idx].Path,
		"operations", len(ops),
	)
	return NewInstance(name, ops, p.opts...), nil
}

// load evaluates a source file and binds its exported functions.
func (p *ScriptProvider) load(src Source) ([]Operation, error) {
	code, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	if err := validateImports(src.Path, code); err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if _, err := i.Eval(string(code)); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", src.Path, err)
	}

	var ops []Operation
	for _, op := range OperationNames() {
		v, err := i.Eval(src.Name + "." + exportedName(op))
		if err != nil || !v.IsValid() {
			continue
		}
		ops = append(ops, Operation{Name: op, Arity: Arity[op], Fn: bindScript(op, v.Interface())})
	}
	return ops, nil
}

// validateImports checks that code only imports allowed packages.
func validateImports(path string, code []byte) error {
	f, err := parser.ParseFile(token.NewFileSet(), path, code, parser.ImportsOnly)
	if err != nil {
		return err
	}
	var forbidden []string
	for _, imp := range f.Imports {
		pkg, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return err
		}
		if !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

func exportedName(op string) string {
	r := []rune(op)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// bindScript adapts an interpreted function to an Fn.
func bindScript(op string, fn any) Fn {
	switch op {
	case OpConcatenate:
		if f, ok := fn.(func(string, string) string); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				a, err := stringArg(args, 0)
				if err != nil {
					return nil, err
				}
				b, err := stringArg(args, 1)
				if err != nil {
					return nil, err
				}
				return scriptResult(env, ir.IRString(f(a, b)))
			}
		}
		return signatureMismatch(fn, "func(string, string) string")

	case OpReverse:
		if f, ok := fn.(func(string) string); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				s, err := stringArg(args, 0)
				if err != nil {
					return nil, err
				}
				return scriptResult(env, ir.IRString(f(s)))
			}
		}
		return signatureMismatch(fn, "func(string) string")

	case OpCountOccurrences:
		switch f := fn.(type) {
		case func(string, string) int:
			return stringPairToInt(func(a, b string) *big.Int { return big.NewInt(int64(f(a, b))) })
		case func(string, string) *big.Int:
			return stringPairToInt(f)
		}
		return signatureMismatch(fn, "func(string, string) int")

	case OpAdd, OpMultiply, OpPower:
		if f, ok := fn.(func(*big.Int, *big.Int) *big.Int); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				a, b, err := twoInts(args)
				if err != nil {
					return nil, err
				}
				return bigResult(env, f(a, b))
			}
		}
		return signatureMismatch(fn, "func(*big.Int, *big.Int) *big.Int")

	case OpFibonacci:
		if f, ok := fn.(func(*big.Int) *big.Int); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				n, err := intArg(args, 0)
				if err != nil {
					return nil, err
				}
				return bigResult(env, f(n))
			}
		}
		return signatureMismatch(fn, "func(*big.Int) *big.Int")

	case OpSumArray, OpFindMax:
		if f, ok := fn.(func([]*big.Int) *big.Int); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				ns, err := intArrayArg(args, 0)
				if err != nil {
					return nil, err
				}
				return bigResult(env, f(ns))
			}
		}
		return signatureMismatch(fn, "func([]*big.Int) *big.Int")

	case OpSort:
		if f, ok := fn.(func([]*big.Int) []*big.Int); ok {
			return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
				ns, err := intArrayArg(args, 0)
				if err != nil {
					return nil, err
				}
				out := f(ns)
				if slices.Contains(out, nil) {
					return nil, Fault("sort returned a nil element")
				}
				return scriptResult(env, ir.FromBigInts(out))
			}
		}
		return signatureMismatch(fn, "func([]*big.Int) []*big.Int")
	}
	return signatureMismatch(fn, "a known operation")
}

func stringPairToInt(f func(string, string) *big.Int) Fn {
	return func(env *Env, args []ir.IRValue) (ir.IRValue, error) {
		a, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return bigResult(env, f(a, b))
	}
}

func bigResult(env *Env, n *big.Int) (ir.IRValue, error) {
	if n == nil {
		return nil, Fault("operation returned nil")
	}
	return scriptResult(env, ir.NewIRBigInt(n))
}

func scriptResult(env *Env, v ir.IRValue) (ir.IRValue, error) {
	if err := env.Meter.Charge(uint64(len(ir.Canonical(v))) + 1); err != nil {
		return nil, err
	}
	return v, nil
}

func signatureMismatch(fn any, want string) Fn {
	got := fmt.Sprintf("%T", fn)
	return func(*Env, []ir.IRValue) (ir.IRValue, error) {
		return nil, TypeMismatch("function has signature %s, want %s", got, want)
	}
}
