package registry

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/kitty/internal/catalog"
)

// Tier reports which resolution step produced the categories.
type Tier int

const (
	// TierAll means no selectors were given.
	TierAll Tier = iota + 1
	// TierName means at least one selector matched a display name.
	TierName
	// TierAlias means selectors matched only through the alias table.
	TierAlias
	// TierFallback means nothing matched and every category was returned.
	TierFallback
)

// String returns a short name for logs and reports.
func (t Tier) String() string {
	switch t {
	case TierAll:
		return "all"
	case TierName:
		return "name"
	case TierAlias:
		return "alias"
	case TierFallback:
		return "fallback"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Resolution describes how Resolve chose its categories.
type Resolution struct {
	Tier Tier

	// Unmatched lists selectors that matched neither a name nor an alias,
	// in request order.
	Unmatched []string

	// FellBack is true when no selector matched and all categories were used.
	FellBack bool
}

// Registry maps category names to catalogs.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	byName  map[string]catalog.TestCategory
	aliases map[string]string
	logger  *slog.Logger
}

// New creates an empty registry. A nil logger discards output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		byName:  make(map[string]catalog.TestCategory),
		aliases: make(map[string]string),
		logger:  logger,
	}
}

// Default returns a registry holding the built-in catalogs with their
// identifiers registered as aliases.
func Default(logger *slog.Logger) *Registry {
	r := New(logger)
	for _, cat := range catalog.Builtin() {
		r.RegisterWithAlias(cat)
	}
	return r
}

// Register adds a category, replacing any category with the same name.
// A replaced category keeps its original position.
func (r *Registry) Register(cat catalog.TestCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[cat.Name]; !exists {
		r.order = append(r.order, cat.Name)
	}
	r.byName[cat.Name] = cat
}

// RegisterAlias maps a well-known identifier to a category display name.
// The target does not have to be registered yet.
func (r *Registry) RegisterAlias(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[id] = name
}

// RegisterWithAlias registers cat and, when it carries an ID, aliases the
// ID to its name.
func (r *Registry) RegisterWithAlias(cat catalog.TestCategory) {
	r.Register(cat)
	if cat.ID != "" {
		r.RegisterAlias(cat.ID, cat.Name)
	}
}

// Get returns the category registered under name.
func (r *Registry) Get(name string) (catalog.TestCategory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.byName[name]
	return cat, ok
}

// Names returns category names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns every category in registration order.
func (r *Registry) All() []catalog.TestCategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allLocked()
}

func (r *Registry) allLocked() []catalog.TestCategory {
	out := make([]catalog.TestCategory, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Resolve selects the categories to run for the requested selectors.
//
// Name matches keep registration order, not request order. Alias matches
// are only consulted when no name matched; they follow request order and a
// category reached through two aliases appears once. When nothing matches,
// every category is returned and a warning is logged.
func (r *Registry) Resolve(requested []string) ([]catalog.TestCategory, Resolution) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(requested) == 0 {
		return r.allLocked(), Resolution{Tier: TierAll}
	}

	var matched []catalog.TestCategory
	for _, name := range r.order {
		if slices.Contains(requested, name) {
			matched = append(matched, r.byName[name])
		}
	}
	if len(matched) > 0 {
		return matched, Resolution{Tier: TierName, Unmatched: r.unmatchedLocked(requested)}
	}

	seen := make(map[string]bool)
	for _, sel := range requested {
		name, ok := r.aliases[sel]
		if !ok || seen[name] {
			continue
		}
		cat, ok := r.byName[name]
		if !ok {
			continue
		}
		seen[name] = true
		matched = append(matched, cat)
	}
	if len(matched) > 0 {
		return matched, Resolution{Tier: TierAlias, Unmatched: r.unmatchedLocked(requested)}
	}

	r.logger.Warn("no requested category matched; running all categories",
		"requested", requested,
		"available", r.order,
	)
	return r.allLocked(), Resolution{
		Tier:      TierFallback,
		Unmatched: slices.Clone(requested),
		FellBack:  true,
	}
}

// unmatchedLocked lists selectors that are neither a registered name nor an
// alias of one.
func (r *Registry) unmatchedLocked(requested []string) []string {
	var out []string
	for _, sel := range requested {
		if _, ok := r.byName[sel]; ok {
			continue
		}
		if name, ok := r.aliases[sel]; ok {
			if _, ok := r.byName[name]; ok {
				continue
			}
		}
		out = append(out, sel)
	}
	return out
}
