// Package host declares the collaborators the distributor needs from the
// game: an object directory, container inventories, placed instances,
// leveled lists and locations. The engine only ever talks to these
// interfaces; package sim provides an in-memory implementation.
package host

//go:generate go tool mockgen -destination=./mocks/inventory_mock.go -package=mocks . Inventory

// FormID is the unique numeric id of a game object.
type FormID uint32

// Form is any object the directory can hand out.
type Form interface {
	FormID() FormID
	Name() string
}

// Inventory is the mutable contents of a container definition or a placed
// container instance.
type Inventory interface {
	// Add adds n copies of item.
	Add(item Form, n int)
	// Remove removes up to n copies of item. Removing more than present
	// leaves zero.
	Remove(item Form, n int)
	// Count returns the number of copies of item currently held.
	Count(item Form) int
}

// Container is a container definition (the base object instances are placed
// from). Its inventory is the template every new instance starts with.
type Container interface {
	Form
	Inventory
}

// Instance is a placed container in the world.
type Instance interface {
	Form
	Inventory
	// Base returns the definition the instance was placed from.
	Base() Container
	// Location returns the location the instance currently sits in.
	Location() (Location, bool)
	// Respawns reports whether the instance's contents periodically reset.
	Respawns() bool
}

// Location is a named place; locations nest through Parent.
type Location interface {
	Form
	Parent() (Location, bool)
	HasKeyword(kw Form) bool
}

// ListEntry is one (object, count) pair produced by a leveled list. Object
// may itself be a LeveledList.
type ListEntry struct {
	Object Form
	Count  int
}

// LeveledList expands into concrete entries for a game-context level.
type LeveledList interface {
	Form
	Entries(level int) []ListEntry
}

// Directory resolves identifiers to live objects.
type Directory interface {
	// LookupByName finds an object by its symbolic (editor) name.
	LookupByName(name string) (Form, bool)
	// LookupByOrigin finds an object by its id local to origin file.
	LookupByOrigin(id uint32, origin string) (Form, bool)
	// Instance finds a placed container instance by id.
	Instance(id FormID) (Instance, bool)
	// Level returns the current game-context level used to expand lists.
	Level() int
}
