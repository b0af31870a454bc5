// Package types defines the shared data structures for the distributor.
// This package holds value types and their small parsing helpers only.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the operation a rule performs on its target container.
type Kind int

const (
	Add Kind = iota
	Remove
	RemoveAll
	Replace
	ReplaceAll
	Error
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "ADD"
	case Remove:
		return "REMOVE"
	case RemoveAll:
		return "REMOVE ALL"
	case Replace:
		return "REPLACE"
	case ReplaceAll:
		return "REPLACE ALL"
	default:
		return "ERROR"
	}
}

// Family groups kinds that may conflict with each other. Add rules never
// conflict with Remove rules for the same source item.
type Family int

const (
	FamilyAdd Family = iota
	FamilyRemove
	FamilyReplace
	FamilyNone
)

func (f Family) String() string {
	switch f {
	case FamilyAdd:
		return "add"
	case FamilyRemove:
		return "remove"
	case FamilyReplace:
		return "replace"
	default:
		return "none"
	}
}

// Family returns the conflict family of the kind.
func (k Kind) Family() Family {
	switch k {
	case Add:
		return FamilyAdd
	case Remove, RemoveAll:
		return FamilyRemove
	case Replace, ReplaceAll:
		return FamilyReplace
	default:
		return FamilyNone
	}
}

// OriginSeparator splits a numeric id from the file that defines it.
const OriginSeparator = "~"

// Identifier names a game object either by symbolic name or by a numeric id
// scoped to the origin file that defines it.
type Identifier struct {
	Name   string // symbolic name; empty for origin-scoped ids
	ID     uint32 // numeric id; only meaningful when Origin != ""
	Origin string // origin file, e.g. "Skyrim.esm"
}

// ParseIdentifier parses "Name" or "<id>~<origin>". Ids accept a 0x prefix
// and are read as hexadecimal without one.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identifier{}, fmt.Errorf("empty identifier")
	}
	raw, origin, ok := strings.Cut(s, OriginSeparator)
	if !ok {
		return Identifier{Name: s}, nil
	}
	raw = strings.TrimSpace(raw)
	origin = strings.TrimSpace(origin)
	if raw == "" || origin == "" {
		return Identifier{}, fmt.Errorf("identifier %q: expected <id>~<origin>", s)
	}
	id, err := ParseFormID(raw)
	if err != nil {
		return Identifier{}, fmt.Errorf("identifier %q: %w", s, err)
	}
	return Identifier{ID: id, Origin: origin}, nil
}

// ParseFormID parses a numeric form id. "0x"-prefixed and bare values are
// both hexadecimal.
func ParseFormID(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid form id %q", s)
	}
	return uint32(v), nil
}

// MustIdentifier is ParseIdentifier for literals known to be valid.
func MustIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsSymbol reports whether the identifier is a bare symbolic name.
func (i Identifier) IsSymbol() bool { return i.Origin == "" }

// IsZero reports whether the identifier is unset.
func (i Identifier) IsZero() bool { return i == Identifier{} }

func (i Identifier) String() string {
	if i.IsSymbol() {
		return i.Name
	}
	return fmt.Sprintf("0x%x%s%s", i.ID, OriginSeparator, i.Origin)
}

// RuleToken is the parsed form of one raw configuration line. Tokens are
// never mutated after creation; optional fields use the zero value for
// "absent" so the struct stays comparable.
type RuleToken struct {
	Kind     Kind
	Filename string     // origin config file
	Target   Identifier // target container
	Source   Identifier

	Count     int // 0 = absent ("all currently present")
	With      Identifier
	WithCount int // 0 = absent

	Chance          int // 1-100; parsers default it to 100
	Location        Identifier
	LocationKeyword Identifier

	Raw string // original rule text, for logs
}

// HasCount reports whether the token specifies a quantity.
func (t RuleToken) HasCount() bool { return t.Count > 0 }

// HasReplacementCount reports whether the token specifies a replacement quantity.
func (t RuleToken) HasReplacementCount() bool { return t.WithCount > 0 }

// Scoped reports whether the token is restricted to a location.
func (t RuleToken) Scoped() bool {
	return !t.Location.IsZero() || !t.LocationKeyword.IsZero()
}

func (t RuleToken) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", t.Kind, t.Source)
	if t.HasCount() {
		fmt.Fprintf(&b, " x%d", t.Count)
	}
	if !t.With.IsZero() {
		fmt.Fprintf(&b, " with %s", t.With)
		if t.HasReplacementCount() {
			fmt.Fprintf(&b, " x%d", t.WithCount)
		}
	}
	fmt.Fprintf(&b, " in %s", t.Target)
	if t.Chance > 0 && t.Chance < 100 {
		fmt.Fprintf(&b, " (%d%%)", t.Chance)
	}
	if !t.Location.IsZero() {
		fmt.Fprintf(&b, " @%s", t.Location)
	}
	if !t.LocationKeyword.IsZero() {
		fmt.Fprintf(&b, " @@%s", t.LocationKeyword)
	}
	if t.Filename != "" {
		fmt.Fprintf(&b, " [%s]", t.Filename)
	}
	return b.String()
}

// Rule is one raw key/value pair read from a configuration file: the key
// names the target container and the value is the rule text.
type Rule struct {
	Target string
	Value  string
}

// File is the ordered list of raw rules loaded from one configuration file.
type File struct {
	Name  string
	Rules []Rule
}
