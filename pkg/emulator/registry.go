package emulator

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/layout"
)

// Builder materialises a single widget. It must not recurse into children;
// the renderer attaches and walks them.
type Builder func(node layout.Node, ctx BuildContext) (Output, error)

// Output is a built element plus the inline style the renderer finalises
// once overrides and visibility are applied.
type Output struct {
	Element *html.Node
	Style   Style
}

// BuildContext carries defaults shared by every builder in a pass.
type BuildContext struct {
	Defaults Defaults
}

// Descriptor binds a widget name to its builder.
type Descriptor struct {
	Name    string
	Builder Builder
}

// Registry tracks widget descriptors keyed by case-sensitive widget name.
// Aliases resolve to a canonical name.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]Descriptor
	aliases map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		widgets: make(map[string]Descriptor),
		aliases: make(map[string]string),
	}
}

// Register associates a descriptor with name. Existing entries are replaced.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("emulator: widget name is required")
	}
	if descriptor.Builder == nil {
		return fmt.Errorf("emulator: builder for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.widgets[name] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the descriptor registered under target.
func (r *Registry) Alias(alias, target string) error {
	alias = strings.TrimSpace(alias)
	target = strings.TrimSpace(target)
	if alias == "" || target == "" {
		return fmt.Errorf("emulator: alias and target are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.widgets[target]; !ok {
		return fmt.Errorf("emulator: alias target %q not registered", target)
	}
	r.aliases[alias] = target
	return nil
}

// Lookup resolves a widget name or alias.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if descriptor, ok := r.widgets[name]; ok {
		return descriptor, true
	}
	if target, ok := r.aliases[name]; ok {
		descriptor, ok := r.widgets[target]
		return descriptor, ok
	}
	return Descriptor{}, false
}

// Names returns registered widget names and aliases in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.widgets)+len(r.aliases))
	for name := range r.widgets {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	slices.Sort(names)
	return names
}

// Clone returns an independent copy so callers can extend the defaults.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for name, descriptor := range r.widgets {
		cloned.widgets[name] = descriptor
	}
	for alias, target := range r.aliases {
		cloned.aliases[alias] = target
	}
	return cloned
}
