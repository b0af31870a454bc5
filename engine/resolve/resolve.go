// Package resolve maps rule identifiers to live objects in the host
// directory and expands leveled lists into concrete items.
package resolve

import (
	"fmt"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// Capability names the narrowed view a caller asked for.
type Capability string

const (
	AnyForm      Capability = "form"
	ItemCap      Capability = "item"
	SourceCap    Capability = "item or leveled list"
	ContainerCap Capability = "container"
	LocationCap  Capability = "location"
	KeywordCap   Capability = "keyword"
)

// NotFoundError indicates an identifier did not resolve, or resolved to an
// object without the requested capability.
type NotFoundError struct {
	ID   types.Identifier
	Want Capability
	Got  host.Form // non-nil when the object exists but has the wrong shape
}

func (e *NotFoundError) Error() string {
	if e.Got != nil {
		return fmt.Sprintf("%s (0x%x %q) is not a %s", e.ID, e.Got.FormID(), e.Got.Name(), e.Want)
	}
	return fmt.Sprintf("no %s found for %s", e.Want, e.ID)
}

// Resolver resolves identifiers against a directory. Lookups are cached for
// the lifetime of the resolver; the directory is static once data is loaded.
type Resolver struct {
	dir   host.Directory
	cache map[types.Identifier]host.Form
	miss  map[types.Identifier]bool
}

// New creates a resolver over dir.
func New(dir host.Directory) *Resolver {
	return &Resolver{
		dir:   dir,
		cache: map[types.Identifier]host.Form{},
		miss:  map[types.Identifier]bool{},
	}
}

// Directory returns the underlying directory.
func (r *Resolver) Directory() host.Directory { return r.dir }

// Form resolves id to any object.
func (r *Resolver) Form(id types.Identifier) (host.Form, error) {
	if f, ok := r.cache[id]; ok {
		return f, nil
	}
	if r.miss[id] {
		return nil, &NotFoundError{ID: id, Want: AnyForm}
	}

	var (
		f  host.Form
		ok bool
	)
	if id.IsSymbol() {
		f, ok = r.dir.LookupByName(id.Name)
	} else {
		f, ok = r.dir.LookupByOrigin(id.ID, id.Origin)
	}
	if !ok || f == nil {
		r.miss[id] = true
		return nil, &NotFoundError{ID: id, Want: AnyForm}
	}
	r.cache[id] = f
	return f, nil
}

// Item resolves id to a concrete, non-list object.
func (r *Resolver) Item(id types.Identifier) (host.Form, error) {
	f, err := r.narrow(id, ItemCap)
	if err != nil {
		return nil, err
	}
	if _, isList := f.(host.LeveledList); isList || isStructural(f) {
		return nil, &NotFoundError{ID: id, Want: ItemCap, Got: f}
	}
	return f, nil
}

// Source resolves id to something a rule can distribute: an item or a
// leveled list.
func (r *Resolver) Source(id types.Identifier) (host.Form, error) {
	f, err := r.narrow(id, SourceCap)
	if err != nil {
		return nil, err
	}
	if _, isList := f.(host.LeveledList); isList {
		return f, nil
	}
	if isStructural(f) {
		return nil, &NotFoundError{ID: id, Want: SourceCap, Got: f}
	}
	return f, nil
}

// Container resolves id to a container definition or a placed container
// instance.
func (r *Resolver) Container(id types.Identifier) (host.Container, error) {
	f, err := r.narrow(id, ContainerCap)
	if err != nil {
		return nil, err
	}
	c, ok := f.(host.Container)
	if !ok {
		return nil, &NotFoundError{ID: id, Want: ContainerCap, Got: f}
	}
	return c, nil
}

// Location resolves id to a location.
func (r *Resolver) Location(id types.Identifier) (host.Location, error) {
	f, err := r.narrow(id, LocationCap)
	if err != nil {
		return nil, err
	}
	loc, ok := f.(host.Location)
	if !ok {
		return nil, &NotFoundError{ID: id, Want: LocationCap, Got: f}
	}
	return loc, nil
}

// Keyword resolves id to a keyword. Any plain object can act as a keyword;
// containers, lists and locations cannot.
func (r *Resolver) Keyword(id types.Identifier) (host.Form, error) {
	f, err := r.narrow(id, KeywordCap)
	if err != nil {
		return nil, err
	}
	if _, isList := f.(host.LeveledList); isList || isStructural(f) {
		return nil, &NotFoundError{ID: id, Want: KeywordCap, Got: f}
	}
	return f, nil
}

// Key returns a canonical identity for id: the resolved form id when the
// identifier resolves, the identifier text otherwise. A symbolic name and an
// origin-scoped id that denote the same object share a key.
func (r *Resolver) Key(id types.Identifier) string {
	if f, err := r.Form(id); err == nil {
		return fmt.Sprintf("form:%08x", uint32(f.FormID()))
	}
	return "id:" + id.String()
}

func (r *Resolver) narrow(id types.Identifier, want Capability) (host.Form, error) {
	f, err := r.Form(id)
	if err != nil {
		return nil, &NotFoundError{ID: id, Want: want}
	}
	return f, nil
}

// isStructural reports objects that hold or place items rather than being
// items themselves.
func isStructural(f host.Form) bool {
	switch f.(type) {
	case host.Container, host.Location:
		return true
	}
	return false
}
