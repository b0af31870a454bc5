package sim

import (
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// Object is a plain world object: an item, a keyword, or the identity part
// of a richer object.
type Object struct {
	id     host.FormID
	name   string
	local  uint32
	origin string
}

func (o *Object) FormID() host.FormID { return o.id }
func (o *Object) Name() string        { return o.name }

// Origin returns the object's id local to its origin file and that file.
func (o *Object) Origin() (uint32, string) { return o.local, o.origin }

// Inventory is an ordered multiset of objects.
type Inventory struct {
	order  []host.Form
	counts map[host.FormID]int
}

func newInventory() *Inventory {
	return &Inventory{counts: map[host.FormID]int{}}
}

// Add adds n copies of item. Non-positive n is ignored.
func (inv *Inventory) Add(item host.Form, n int) {
	if item == nil || n < 1 {
		return
	}
	if _, ok := inv.counts[item.FormID()]; !ok {
		inv.order = append(inv.order, item)
	}
	inv.counts[item.FormID()] += n
}

// Remove removes up to n copies of item.
func (inv *Inventory) Remove(item host.Form, n int) {
	if item == nil || n < 1 {
		return
	}
	have, ok := inv.counts[item.FormID()]
	if !ok {
		return
	}
	if n < have {
		inv.counts[item.FormID()] = have - n
		return
	}
	delete(inv.counts, item.FormID())
	for i, f := range inv.order {
		if f.FormID() == item.FormID() {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
}

// Count returns how many copies of item are held.
func (inv *Inventory) Count(item host.Form) int {
	if item == nil {
		return 0
	}
	return inv.counts[item.FormID()]
}

// Contents lists the held (item, count) pairs in the order items were
// first added.
func (inv *Inventory) Contents() []host.ListEntry {
	out := make([]host.ListEntry, 0, len(inv.order))
	for _, f := range inv.order {
		out = append(out, host.ListEntry{Object: f, Count: inv.counts[f.FormID()]})
	}
	return out
}

// Total returns the number of copies of all items held.
func (inv *Inventory) Total() int {
	n := 0
	for _, c := range inv.counts {
		n += c
	}
	return n
}

// copyFrom replaces the contents of inv with those of src.
func (inv *Inventory) copyFrom(src *Inventory) {
	inv.clear()
	for _, e := range src.Contents() {
		inv.Add(e.Object, e.Count)
	}
}

func (inv *Inventory) clear() {
	inv.order = nil
	inv.counts = map[host.FormID]int{}
}

// Container is a container definition. Its inventory is the template
// placed instances start from.
type Container struct {
	*Object
	*Inventory
	respawn bool
}

// Respawns reports whether instances of the container reset periodically.
func (c *Container) Respawns() bool { return c.respawn }

// Location is a named place. Locations nest through their parent.
type Location struct {
	*Object
	parent   *Location
	keywords map[host.FormID]bool
}

func (l *Location) Parent() (host.Location, bool) {
	if l.parent == nil {
		return nil, false
	}
	return l.parent, true
}

func (l *Location) HasKeyword(kw host.Form) bool {
	return kw != nil && l.keywords[kw.FormID()]
}

type listEntry struct {
	object   host.Form
	count    int
	minLevel int
}

// List is a leveled list: entries are only produced at or above their
// minimum level.
type List struct {
	*Object
	entries []listEntry
}

// Add appends an entry and returns the list for chaining.
func (l *List) Add(object host.Form, count, minLevel int) *List {
	l.entries = append(l.entries, listEntry{object: object, count: count, minLevel: minLevel})
	return l
}

func (l *List) Entries(level int) []host.ListEntry {
	var out []host.ListEntry
	for _, e := range l.entries {
		if e.minLevel <= level {
			out = append(out, host.ListEntry{Object: e.object, Count: e.count})
		}
	}
	return out
}

// Ref is a container placed in the world. Its inventory is empty until the
// world readies it for the first time.
type Ref struct {
	*Object
	*Inventory
	base     *Container
	location *Location
	spawned  bool
}

func (r *Ref) Base() host.Container { return r.base }

func (r *Ref) Location() (host.Location, bool) {
	if r.location == nil {
		return nil, false
	}
	return r.location, true
}

func (r *Ref) Respawns() bool { return r.base.respawn }

// Spawned reports whether the ref has been readied since the last load.
func (r *Ref) Spawned() bool { return r.spawned }
