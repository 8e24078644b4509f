package module

import (
	"fmt"
	"strings"
)

// Type is the credit category a module's weight is counted into.
type Type int

const (
	// Core is a Kernmodul.
	Core Type = iota
	// Project is a Projektmodul.
	Project
	// Extension is an Erweiterungsmodul.
	Extension
	// Misc is a Zusatzmodul.
	Misc
	// Major is a Majormodul; its credits also count as extension credits.
	Major

	typeCount
)

var typeNames = [typeCount]string{
	Core:      "Core",
	Project:   "Project",
	Extension: "Extension",
	Misc:      "Misc",
	Major:     "Major",
}

// Types lists every category in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := Type(0); t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

func (t Type) Valid() bool { return t >= 0 && t < typeCount }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a category name. An unknown name indicates corrupted
// reference data or stored edits and is reported as an error.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown module type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid module type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
