package mapping

import (
	"reflect"
	"testing"

	"loxremote/internal/config"
	"loxremote/internal/gesture"
)

func buildTable(t *testing.T, mappings []config.Mapping) *Table {
	t.Helper()
	table, err := Build(mappings)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return table
}

func TestTableResolve(t *testing.T) {
	table := buildTable(t, []config.Mapping{
		{Button: "top", Action: "single_press", Commands: []string{"A", "B"}},
		{Button: "top", Action: "long_press", Commands: []string{"C"}},
		{Button: "bottom", Action: "double_press", Commands: []string{"D"}},
	})

	tests := []struct {
		name    string
		button  string
		action  gesture.Action
		want    []string
		wantHit bool
	}{
		{
			name:    "ordered multi-command entry",
			button:  "top",
			action:  gesture.ActionSinglePress,
			want:    []string{"A", "B"},
			wantHit: true,
		},
		{
			name:    "second action on same button",
			button:  "top",
			action:  gesture.ActionLongPress,
			want:    []string{"C"},
			wantHit: true,
		},
		{
			name:   "unmapped action is a no-op",
			button: "bottom",
			action: gesture.ActionSinglePress,
		},
		{
			name:   "unmapped button is a no-op",
			button: "left",
			action: gesture.ActionSinglePress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Resolve(tt.button, tt.action)
			if ok != tt.wantHit {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantHit)
			}
			if tt.wantHit && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildLastWriteWins(t *testing.T) {
	table := buildTable(t, []config.Mapping{
		{Button: "top", Action: "single_press", Commands: []string{"old"}},
		{Button: "top", Action: "single_press", Commands: []string{"new"}},
	})

	got, ok := table.Resolve("top", gesture.ActionSinglePress)
	if !ok || !reflect.DeepEqual(got, []string{"new"}) {
		t.Errorf("Resolve() = %v, %v; want [new], true", got, ok)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestBuildRejectsUnknownAction(t *testing.T) {
	_, err := Build([]config.Mapping{
		{Button: "top", Action: "hold", Commands: []string{"A"}},
	})
	if err == nil {
		t.Error("Build() expected error for unknown action, got nil")
	}
}

func TestResolverSwap(t *testing.T) {
	first := buildTable(t, []config.Mapping{
		{Button: "top", Action: "single_press", Commands: []string{"A"}},
	})
	r := NewResolver(first)

	got, ok := r.Resolve("top", gesture.ActionSinglePress)
	if !ok || !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("initial Resolve() = %v, %v; want [A], true", got, ok)
	}

	second := buildTable(t, []config.Mapping{
		{Button: "top", Action: "single_press", Commands: []string{"B", "C"}},
	})
	r.Swap(second)

	got, ok = r.Resolve("top", gesture.ActionSinglePress)
	if !ok || !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("after Swap() Resolve() = %v, %v; want [B C], true", got, ok)
	}
}

func TestResolverRegister(t *testing.T) {
	r := NewResolver(buildTable(t, []config.Mapping{
		{Button: "top", Action: "single_press", Commands: []string{"A"}},
	}))

	// New entry
	r.Register("left", gesture.ActionDoublePress, []string{"X"})
	got, ok := r.Resolve("left", gesture.ActionDoublePress)
	if !ok || !reflect.DeepEqual(got, []string{"X"}) {
		t.Errorf("Resolve(left) = %v, %v; want [X], true", got, ok)
	}

	// Extends an existing entry, preserving order
	r.Register("top", gesture.ActionSinglePress, []string{"B"})
	got, ok = r.Resolve("top", gesture.ActionSinglePress)
	if !ok || !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Resolve(top) = %v, %v; want [A B], true", got, ok)
	}
}
