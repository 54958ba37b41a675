package submission

import (
	"maps"
	"slices"

	"github.com/roach88/kitty/internal/ir"
)

// State is the persistent state container of one submission instance.
//
// Probe invocations run against a clone that is thrown away. Commit
// invocations run against a clone that replaces the live state when the
// operation succeeds, so a failed commit leaves the state untouched.
type State struct {
	slots  map[string]ir.IRValue
	nonce  uint64
	writes uint64
}

// NewState creates an empty state.
func NewState() *State {
	return &State{slots: make(map[string]ir.IRValue)}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (ir.IRValue, bool) {
	v, ok := s.slots[key]
	return v, ok
}

// Set stores a value and counts a storage write.
func (s *State) Set(key string, v ir.IRValue) {
	s.slots[key] = v
	s.writes++
}

// Keys returns the stored keys in sorted order.
func (s *State) Keys() []string {
	return slices.Sorted(maps.Keys(s.slots))
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	return len(s.slots)
}

// Nonce returns the number of committed invocations.
func (s *State) Nonce() uint64 {
	return s.nonce
}

// Writes returns the number of storage writes since the clone was taken.
func (s *State) Writes() uint64 {
	return s.writes
}

// Clone returns an independent copy with the write counter reset.
// Stored values are immutable, so a shallow map copy is enough.
func (s *State) Clone() *State {
	return &State{
		slots: maps.Clone(s.slots),
		nonce: s.nonce,
	}
}
