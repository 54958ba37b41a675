package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"unicode/utf16"
)

// IRValue is a sealed interface representing constrained value types.
// Only IRString, IRInt, IRBool, IRArray, and IRObject implement this.
// Test cases use IRString, IRInt and IRArray; IRBool and IRObject appear only
// in canonical documents built for hashing.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRString represents a string value in the IR.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer of unbounded width.
// The wrapped big.Int is never mutated after construction; accessors copy.
type IRInt struct {
	n *big.Int
}

func (IRInt) irValue() {}

// IRBool represents a boolean value in the IR.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an ordered sequence of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt from a native integer.
func NewIRInt(n int64) IRInt {
	return IRInt{n: big.NewInt(n)}
}

// NewIRBigInt creates an IRInt holding a copy of n.
// A nil n is treated as zero.
func NewIRBigInt(n *big.Int) IRInt {
	if n == nil {
		return IRInt{n: new(big.Int)}
	}
	return IRInt{n: new(big.Int).Set(n)}
}

// ParseIRInt parses a base-10 integer literal of any width.
func ParseIRInt(s string) (IRInt, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return IRInt{}, fmt.Errorf("invalid integer literal %q", s)
	}
	return IRInt{n: n}, nil
}

// MustParseIRInt is like ParseIRInt but panics on error.
// Use only for literals known to be valid (catalog definitions, tests).
func MustParseIRInt(s string) IRInt {
	v, err := ParseIRInt(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NewIRArray creates an IRArray from values.
func NewIRArray(vals ...IRValue) IRArray {
	if vals == nil {
		return IRArray{}
	}
	return IRArray(vals)
}

// Ints builds an IRArray of IRInt from native integers.
func Ints(ns ...int64) IRArray {
	arr := make(IRArray, len(ns))
	for i, n := range ns {
		arr[i] = NewIRInt(n)
	}
	return arr
}

// Big returns a copy of the integer value.
func (i IRInt) Big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.n)
}

// Int64 returns the value as int64 and whether it fits.
func (i IRInt) Int64() (int64, bool) {
	if i.n == nil {
		return 0, true
	}
	if !i.n.IsInt64() {
		return 0, false
	}
	return i.n.Int64(), true
}

// String returns the canonical decimal form.
func (i IRInt) String() string {
	if i.n == nil {
		return "0"
	}
	return i.n.String()
}

// Canonical returns the canonical string form of a value.
//
// Integers render as base-10 digits, strings as themselves, booleans as
// true/false and sequences as the comma-joined canonical forms of their
// elements. Objects render as canonical JSON. Two values are scalar-equal
// exactly when their canonical forms are equal.
func Canonical(v IRValue) string {
	switch val := v.(type) {
	case nil:
		return ""
	case IRString:
		return string(val)
	case IRInt:
		return val.String()
	case IRBool:
		if val {
			return "true"
		}
		return "false"
	case IRArray:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Canonical(elem)
		}
		return strings.Join(parts, ",")
	case IRObject:
		data, err := MarshalCanonical(val)
		if err != nil {
			return fmt.Sprintf("%v", map[string]IRValue(val))
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CanonicalList returns the canonical string of each element of a sequence.
// The result is never nil, so an empty sequence stays distinguishable from
// "no sequence" when serialized.
func CanonicalList(arr IRArray) []string {
	out := make([]string, len(arr))
	for i, elem := range arr {
		out[i] = Canonical(elem)
	}
	return out
}

// AsInt returns v as an IRInt or a descriptive error.
func AsInt(v IRValue) (IRInt, error) {
	i, ok := v.(IRInt)
	if !ok {
		return IRInt{}, fmt.Errorf("expected integer, got %s", KindOf(v))
	}
	return i, nil
}

// AsString returns v as a Go string or a descriptive error.
func AsString(v IRValue) (string, error) {
	s, ok := v.(IRString)
	if !ok {
		return "", fmt.Errorf("expected string, got %s", KindOf(v))
	}
	return string(s), nil
}

// AsIntArray returns v as a slice of big integers or a descriptive error.
func AsIntArray(v IRValue) ([]*big.Int, error) {
	arr, ok := v.(IRArray)
	if !ok {
		return nil, fmt.Errorf("expected integer sequence, got %s", KindOf(v))
	}
	out := make([]*big.Int, len(arr))
	for i, elem := range arr {
		n, err := AsInt(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = n.Big()
	}
	return out, nil
}

// FromBigInts builds an IRArray from big integers, copying each.
func FromBigInts(ns []*big.Int) IRArray {
	arr := make(IRArray, len(ns))
	for i, n := range ns {
		arr[i] = NewIRBigInt(n)
	}
	return arr
}

// KindOf names the dynamic kind of a value for error messages.
func KindOf(v IRValue) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case IRString:
		return "string"
	case IRInt:
		return "integer"
	case IRBool:
		return "bool"
	case IRArray:
		return "sequence"
	case IRObject:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 byte order, which differs for astral characters.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// MarshalJSON renders the integer as a bare JSON number with every digit kept.
func (i IRInt) MarshalJSON() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalJSON accepts a JSON integer of any width, or a quoted decimal string.
func (i *IRInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if strings.HasPrefix(s, `"`) {
		var unq string
		if err := json.Unmarshal(data, &unq); err != nil {
			return err
		}
		s = unq
	}
	v, err := ParseIRInt(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// MarshalJSON implements json.Marshaler for IRArray.
func (arr IRArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalIRValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for IRObject with sorted keys (RFC 8785 ordering).
// NOTE: This is NOT canonical marshaling - it may HTML-escape. Use MarshalCanonical for hashing.
func (obj IRObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalIRValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIRValue marshals an IRValue to JSON bytes.
func MarshalIRValue(v IRValue) ([]byte, error) {
	switch val := v.(type) {
	case IRString:
		return json.Marshal(string(val))
	case IRInt:
		return val.MarshalJSON()
	case IRBool:
		return json.Marshal(bool(val))
	case IRArray:
		return val.MarshalJSON()
	case IRObject:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown IRValue type: %T", v)
	}
}

// UnmarshalIRValue deserializes JSON into an IRValue with strict validation.
// Rejects floats and null - only string/int/bool/array/object are allowed.
// Integers keep full precision.
func UnmarshalIRValue(data []byte) (IRValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromGo(raw)
}

// FromGo recursively converts a decoded Go value to an IRValue.
// Accepts the shapes produced by encoding/json (with UseNumber) and
// gopkg.in/yaml.v3, plus native integers and *big.Int. Rejects null and floats.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in IR")
	case IRValue:
		return val, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case int:
		return NewIRInt(int64(val)), nil
	case int64:
		return NewIRInt(val), nil
	case uint64:
		return NewIRBigInt(new(big.Int).SetUint64(val)), nil
	case *big.Int:
		return NewIRBigInt(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden in IR: %s", s)
		}
		return ParseIRInt(s)
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in IR: %v", val)
	case []any:
		arr := make(IRArray, len(val))
		for i, elem := range val {
			irElem, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = irElem
		}
		return arr, nil
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			irElem, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = irElem
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
