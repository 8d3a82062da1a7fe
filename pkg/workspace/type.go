package workspace

import (
	"fmt"
)

// Type is the role a workspace plays in the build
type Type int

const (
	// TypeUnknown is the zero value and never a valid tag
	TypeUnknown Type = iota
	TypeApp
	TypeESMView
	TypeView
	TypePackage
	TypeSource
	TypeRoot
)

var typeNames = map[Type]string{
	TypeApp:     "app",
	TypeESMView: "esm-view",
	TypeView:    "view",
	TypePackage: "package",
	TypeSource:  "source",
	TypeRoot:    "root",
}

// ParseType converts a manifest tag into a Type
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown workspace type %q", s)
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsBuildable reports whether workspaces of this type produce build output
func (t Type) IsBuildable() bool {
	switch t {
	case TypeApp, TypeESMView, TypeView, TypePackage:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("cannot marshal workspace type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
