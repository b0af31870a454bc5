// Package sim is an in-memory game world implementing the host interfaces.
// It backs the command-line harness and the engine tests.
package sim

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/events"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// DefaultOrigin is the origin file of objects defined without one.
const DefaultOrigin = "Sim.esm"

// firstLocal is the first automatically assigned local id in an origin.
const firstLocal = 0x800

// World is a host.Directory over a set of defined objects.
type World struct {
	mu      sync.RWMutex
	level   int
	origins []string
	next    map[string]uint32
	byName  map[string]host.Form
	byID    map[host.FormID]host.Form
	refs    map[host.FormID]*Ref
}

// New creates an empty world at level 1.
func New() *World {
	return &World{
		level:  1,
		next:   map[string]uint32{},
		byName: map[string]host.Form{},
		byID:   map[host.FormID]host.Form{},
		refs:   map[host.FormID]*Ref{},
	}
}

// SetLevel sets the game-context level used to expand leveled lists.
func (w *World) SetLevel(level int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.level = level
}

// Level implements host.Directory.
func (w *World) Level() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.level
}

// LookupByName implements host.Directory.
func (w *World) LookupByName(name string) (host.Form, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.byName[name]
	return f, ok
}

// LookupByOrigin implements host.Directory.
func (w *World) LookupByOrigin(id uint32, origin string) (host.Form, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx := slices.Index(w.origins, origin)
	if idx < 0 {
		return nil, false
	}
	f, ok := w.byID[formID(idx, id)]
	return f, ok
}

// Instance implements host.Directory.
func (w *World) Instance(id host.FormID) (host.Instance, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.refs[id]
	if !ok {
		return nil, false
	}
	return r, true
}

// Form finds any object by id.
func (w *World) Form(id host.FormID) (host.Form, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.byID[id]
	return f, ok
}

// Ref finds a placed container by name.
func (w *World) Ref(name string) (*Ref, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.byName[name].(*Ref)
	return r, ok
}

// Container finds a container definition by name.
func (w *World) Container(name string) (*Container, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.byName[name].(*Container)
	return c, ok
}

// Refs returns every placed container ordered by id.
func (w *World) Refs() []*Ref {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Ref, 0, len(w.refs))
	for _, r := range w.refs {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Ref) int { return cmp.Compare(a.id, b.id) })
	return out
}

func formID(originIndex int, local uint32) host.FormID {
	return host.FormID(uint32(originIndex)<<24 | local&0x00ffffff)
}

// define registers a new object. A zero local id is assigned automatically.
func (w *World) define(name, origin string, local uint32) (*Object, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("sim: object has no name")
	}
	if _, dup := w.byName[name]; dup {
		return nil, fmt.Errorf("sim: duplicate object %q", name)
	}
	if origin == "" {
		origin = DefaultOrigin
	}
	idx := slices.Index(w.origins, origin)
	if idx < 0 {
		idx = len(w.origins)
		w.origins = append(w.origins, origin)
		w.next[origin] = firstLocal
	}
	if local == 0 {
		local = w.next[origin]
	}
	if local >= w.next[origin] {
		w.next[origin] = local + 1
	}
	id := formID(idx, local)
	if other, dup := w.byID[id]; dup {
		return nil, fmt.Errorf("sim: %q and %q share id 0x%x~%s", other.Name(), name, local, origin)
	}
	return &Object{id: id, name: name, local: local, origin: origin}, nil
}

// store makes f visible to lookups.
func (w *World) store(f host.Form) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byName[f.Name()] = f
	w.byID[f.FormID()] = f
	if r, ok := f.(*Ref); ok {
		w.refs[r.id] = r
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// DefineItem defines an item in DefaultOrigin. It panics on a duplicate
// name; use LoadFixture for untrusted data.
func (w *World) DefineItem(name string) *Object {
	return w.DefineItemAt(name, "", 0)
}

// DefineItemAt defines an item with an explicit origin and local id.
func (w *World) DefineItemAt(name, origin string, local uint32) *Object {
	o := must(w.define(name, origin, local))
	w.store(o)
	return o
}

// DefineKeyword defines a keyword.
func (w *World) DefineKeyword(name string) *Object {
	return w.DefineItem(name)
}

// DefineList defines an empty leveled list.
func (w *World) DefineList(name string) *List {
	l := &List{Object: must(w.define(name, "", 0))}
	w.store(l)
	return l
}

// DefineLocation defines a location under parent, which may be nil.
func (w *World) DefineLocation(name string, parent *Location, keywords ...host.Form) *Location {
	l := &Location{Object: must(w.define(name, "", 0)), parent: parent, keywords: map[host.FormID]bool{}}
	for _, kw := range keywords {
		l.keywords[kw.FormID()] = true
	}
	w.store(l)
	return l
}

// DefineContainer defines an empty container definition.
func (w *World) DefineContainer(name string, respawn bool) *Container {
	c := &Container{Object: must(w.define(name, "", 0)), Inventory: newInventory(), respawn: respawn}
	w.store(c)
	return c
}

// Place puts an instance of base into the world at loc, which may be nil.
func (w *World) Place(name string, base *Container, loc *Location) *Ref {
	r := &Ref{Object: must(w.define(name, "", 0)), Inventory: newInventory(), base: base, location: loc}
	w.store(r)
	return r
}

// Ready fills r from its base definition the first time it is readied and
// returns the event the host would raise.
func (w *World) Ready(r *Ref) events.Event {
	if !r.spawned {
		r.Inventory.copyFrom(r.base.Inventory)
		r.spawned = true
	}
	return events.Ready(r.id, r.base.id)
}

// Reset restores r to its base definition's contents and returns the event
// the host would raise.
func (w *World) Reset(r *Ref) events.Event {
	r.Inventory.copyFrom(r.base.Inventory)
	r.spawned = true
	return events.Reset(r.id)
}
