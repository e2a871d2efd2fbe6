// Package mapping resolves (button, action) pairs to the ordered command
// lists configured for them.
package mapping

import (
	"sync"
	"sync/atomic"

	"loxremote/internal/config"
	"loxremote/internal/gesture"
)

type key struct {
	button string
	action gesture.Action
}

// Table is an immutable lookup table. Replacing the configuration means
// building a new table and swapping it into the resolver, never mutating
// one in place.
type Table struct {
	entries map[key][]string
}

// Build constructs a table from configured mappings. Duplicate
// (button, action) pairs are rejected at config load; if one slips through
// here, the last entry wins.
func Build(mappings []config.Mapping) (*Table, error) {
	t := &Table{entries: make(map[key][]string, len(mappings))}
	for _, m := range mappings {
		action, err := gesture.ParseAction(m.Action)
		if err != nil {
			return nil, err
		}
		commands := make([]string, len(m.Commands))
		copy(commands, m.Commands)
		t.entries[key{m.Button, action}] = commands
	}
	return t, nil
}

// Resolve returns the commands for a (button, action) pair. A miss is not
// an error: an unmapped gesture is a deliberate no-op.
func (t *Table) Resolve(button string, action gesture.Action) ([]string, bool) {
	commands, ok := t.entries[key{button, action}]
	return commands, ok
}

// Len returns the number of mapped (button, action) pairs.
func (t *Table) Len() int {
	return len(t.entries)
}

// Resolver serves lookups against the current table and supports atomic
// replacement, so concurrent resolutions never observe a half-updated table.
type Resolver struct {
	table atomic.Pointer[Table]

	// serializes writers; readers go straight to the pointer
	mu sync.Mutex
}

func NewResolver(t *Table) *Resolver {
	r := &Resolver{}
	r.table.Store(t)
	return r
}

// Resolve looks up the commands for a gesture in the current table.
func (r *Resolver) Resolve(button string, action gesture.Action) ([]string, bool) {
	return r.table.Load().Resolve(button, action)
}

// Swap replaces the whole table, typically after a config reload.
func (r *Resolver) Swap(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table.Store(t)
}

// Register adds commands for a (button, action) pair at runtime, appending
// to an existing entry or creating a new one. The current table is copied
// and swapped, preserving its immutability for in-flight resolutions.
func (r *Resolver) Register(button string, action gesture.Action, commands []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.table.Load()
	next := &Table{entries: make(map[key][]string, len(old.entries)+1)}
	for k, v := range old.entries {
		next.entries[k] = v
	}

	k := key{button, action}
	merged := make([]string, 0, len(next.entries[k])+len(commands))
	merged = append(merged, next.entries[k]...)
	merged = append(merged, commands...)
	next.entries[k] = merged

	r.table.Store(next)
}
