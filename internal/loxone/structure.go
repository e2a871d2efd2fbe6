package loxone

import (
	"sort"
	"strings"
)

// Structure is the subset of the miniserver structure file the engine
// consumes: controls plus the room/category/remote tables that give them
// readable names.
type Structure struct {
	Controls   map[string]Control `json:"controls"`
	Rooms      map[string]entity  `json:"rooms"`
	Categories map[string]entity  `json:"categories"`
	Remotes    map[string]Remote  `json:"remotes"`
}

// Control is a single addressable function on the miniserver.
type Control struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	UUIDAction string `json:"uuidAction"`
	UUID       string `json:"uuid"`
	UUIDCmd    string `json:"uuidCmd"`
	Room       string `json:"room"`
	Category   string `json:"category"`
}

type entity struct {
	Name string `json:"name"`
}

// Remote lists the control UUIDs assigned to one physical remote.
type Remote struct {
	Name     string   `json:"name"`
	Controls []string `json:"controls"`
}

// Function is the simplified discovery view of a control, presented to
// configuration tooling.
type Function struct {
	Name     string
	UUID     string
	Type     string
	Room     string
	Category string
}

// Functions flattens the structure into the list of available functions,
// resolving room and category names. When remoteName matches a remote in
// the structure, only the controls assigned to it are returned; otherwise
// all controls are.
func (s *Structure) Functions(remoteName string) []Function {
	allowed := s.controlsForRemote(remoteName)

	functions := make([]Function, 0, len(s.Controls))
	for uuid, control := range s.Controls {
		if allowed != nil && !allowed[uuid] {
			continue
		}

		name := control.Name
		if name == "" {
			name = uuid
		}

		functions = append(functions, Function{
			Name:     name,
			UUID:     control.actionUUID(uuid),
			Type:     control.Type,
			Room:     s.Rooms[control.Room].Name,
			Category: s.Categories[control.Category].Name,
		})
	}

	sort.Slice(functions, func(i, j int) bool {
		if functions[i].Room != functions[j].Room {
			return functions[i].Room < functions[j].Room
		}
		return strings.ToLower(functions[i].Name) < strings.ToLower(functions[j].Name)
	})
	return functions
}

// actionUUID picks the identifier commands should address, falling back
// through the aliases older structure files use.
func (c Control) actionUUID(key string) string {
	switch {
	case c.UUIDAction != "":
		return c.UUIDAction
	case c.UUID != "":
		return c.UUID
	case c.UUIDCmd != "":
		return c.UUIDCmd
	default:
		return key
	}
}

func (s *Structure) controlsForRemote(remoteName string) map[string]bool {
	if remoteName == "" {
		return nil
	}
	for _, remote := range s.Remotes {
		if remote.Name != remoteName {
			continue
		}
		allowed := make(map[string]bool, len(remote.Controls))
		for _, uuid := range remote.Controls {
			allowed[uuid] = true
		}
		return allowed
	}
	return nil
}
