// Package command parses the raw command strings found in button mappings.
//
// Two forms exist: "virtual_input:<uuid>:<value>" writes a value to a
// virtual input on the miniserver; any other string is taken verbatim as a
// relative path under the miniserver base URL.
package command

import (
	"fmt"
	"strings"
)

const virtualInputPrefix = "virtual_input"

// Command is a parsed mapping command. Path returns the relative request
// path it resolves to under the miniserver base URL.
type Command interface {
	Path() string
	String() string
}

// Scene addresses a predefined miniserver action by relative path.
type Scene struct {
	Raw string
}

func (s Scene) Path() string {
	return strings.TrimPrefix(s.Raw, "/")
}

func (s Scene) String() string {
	return s.Raw
}

// VirtualInput writes a value to a virtual input control by UUID.
type VirtualInput struct {
	UUID  string
	Value string
}

func (v VirtualInput) Path() string {
	return fmt.Sprintf("dev/sps/io/%s/%s", v.UUID, v.Value)
}

func (v VirtualInput) String() string {
	return fmt.Sprintf("%s:%s:%s", virtualInputPrefix, v.UUID, v.Value)
}

// MalformedError reports a command string that fails the grammar. It always
// indicates a configuration defect.
type MalformedError struct {
	Raw    string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed command %q: %s", e.Raw, e.Reason)
}

// Parse converts a raw mapping command into its typed form. Strings whose
// first colon-separated segment is "virtual_input" must have exactly three
// segments with non-empty uuid and value; everything else is accepted as a
// scene path, deferring address validity to the transport call.
func Parse(raw string) (Command, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &MalformedError{Raw: raw, Reason: "empty command"}
	}

	if strings.Split(trimmed, ":")[0] != virtualInputPrefix {
		return Scene{Raw: trimmed}, nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 3 {
		return nil, &MalformedError{
			Raw:    raw,
			Reason: "virtual_input commands must be formatted as 'virtual_input:<uuid>:<value>'",
		}
	}
	uuid, value := parts[1], parts[2]
	if uuid == "" {
		return nil, &MalformedError{Raw: raw, Reason: "virtual input uuid must not be empty"}
	}
	if value == "" {
		return nil, &MalformedError{Raw: raw, Reason: "virtual input value must not be empty"}
	}

	return VirtualInput{UUID: uuid, Value: value}, nil
}
