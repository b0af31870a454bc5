// Package plan turns resolved rule tokens into distribution entries bound to
// live objects and groups them for the static and runtime passes.
package plan

import (
	"fmt"
	"strings"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/resolve"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// maxLocationDepth bounds the walk up a location's parents.
const maxLocationDepth = 64

// Source is what an entry distributes: exactly one of Item or List is set.
type Source struct {
	Item host.Form
	List host.LeveledList
}

// ItemSource wraps a single item.
func ItemSource(item host.Form) Source { return Source{Item: item} }

// ListSource wraps a leveled list.
func ListSource(list host.LeveledList) Source { return Source{List: list} }

// IsZero reports an unset source.
func (s Source) IsZero() bool { return s.Item == nil && s.List == nil }

// IsList reports whether the source is a leveled list.
func (s Source) IsList() bool { return s.List != nil }

// Form returns the underlying object.
func (s Source) Form() host.Form {
	if s.List != nil {
		return s.List
	}
	return s.Item
}

func (s Source) String() string {
	if f := s.Form(); f != nil {
		return f.Name()
	}
	return "<none>"
}

// Expand returns the concrete (item, count) pairs for count copies of the
// source at level.
func (s Source) Expand(count, level int) []host.ListEntry {
	if s.List != nil {
		return resolve.Expand(s.List, count, level)
	}
	if s.Item == nil || count < 1 {
		return nil
	}
	return []host.ListEntry{{Object: s.Item, Count: count}}
}

// Forms returns the distinct items the source stands for at level.
func (s Source) Forms(level int) []host.Form {
	if s.List == nil {
		if s.Item == nil {
			return nil
		}
		return []host.Form{s.Item}
	}
	pairs := resolve.Expand(s.List, 1, level)
	out := make([]host.Form, len(pairs))
	for i, p := range pairs {
		out[i] = p.Object
	}
	return out
}

// Entry is one resolved distribution instruction. Entries are not modified
// after Build.
type Entry struct {
	Kind       types.Kind
	Source     Source
	Count      int // 0 = all currently present
	Target     host.Container
	TargetID   host.FormID
	TargetName string
	With       Source
	WithCount  int // 0 = same number as removed
	Chance     int
	Location   host.Location
	Keyword    host.Form
	Filename   string
	Raw        string
}

// Scoped reports whether the entry only applies in some locations.
func (e Entry) Scoped() bool { return e.Location != nil || e.Keyword != nil }

// TargetsInstance reports whether the target is a placed container rather
// than a container definition.
func (e Entry) TargetsInstance() bool {
	_, ok := e.Target.(host.Instance)
	return ok
}

// Deferred reports whether the entry must wait for a runtime event instead
// of being applied once to the container definition.
func (e Entry) Deferred() bool {
	return e.Chance < 100 || e.Scoped() || e.TargetsInstance()
}

// InScope reports whether inst satisfies the entry's location scope: its
// location or one of that location's parents must be the scope location,
// and one of them must carry the scope keyword.
func (e Entry) InScope(inst host.Instance) bool {
	if !e.Scoped() {
		return true
	}
	loc, ok := inst.Location()
	if !ok {
		return false
	}

	locOK := e.Location == nil
	kwOK := e.Keyword == nil
	for depth := 0; loc != nil && depth < maxLocationDepth; depth++ {
		if !locOK && loc.FormID() == e.Location.FormID() {
			locOK = true
		}
		if !kwOK && loc.HasKeyword(e.Keyword) {
			kwOK = true
		}
		if locOK && kwOK {
			return true
		}
		parent, ok := loc.Parent()
		if !ok {
			break
		}
		loc = parent
	}
	return locOK && kwOK
}

func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Kind, e.Source)
	if e.Count > 0 {
		fmt.Fprintf(&b, " x%d", e.Count)
	}
	if !e.With.IsZero() {
		fmt.Fprintf(&b, " with %s", e.With)
		if e.WithCount > 0 {
			fmt.Fprintf(&b, " x%d", e.WithCount)
		}
	}
	fmt.Fprintf(&b, " in %s", e.TargetName)
	if e.Chance < 100 {
		fmt.Fprintf(&b, " (%d%%)", e.Chance)
	}
	if e.Location != nil {
		fmt.Fprintf(&b, " @%s", e.Location.Name())
	}
	if e.Keyword != nil {
		fmt.Fprintf(&b, " @@%s", e.Keyword.Name())
	}
	if e.Filename != "" {
		fmt.Fprintf(&b, " [%s]", e.Filename)
	}
	return b.String()
}
