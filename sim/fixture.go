package sim

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// Fixture is the YAML description of a world.
type Fixture struct {
	Level      int            `yaml:"level"`
	Keywords   []ObjectDef    `yaml:"keywords"`
	Items      []ObjectDef    `yaml:"items"`
	Lists      []ListDef      `yaml:"lists"`
	Locations  []LocationDef  `yaml:"locations"`
	Containers []ContainerDef `yaml:"containers"`
	Refs       []RefDef       `yaml:"refs"`
}

// ObjectDef names an object. ID and Origin are optional; without them the
// object gets the next free id in DefaultOrigin.
type ObjectDef struct {
	Name   string `yaml:"name"`
	ID     uint32 `yaml:"id"`
	Origin string `yaml:"origin"`
}

// StackDef is a (name, count) pair.
type StackDef struct {
	Object string `yaml:"object"`
	Count  int    `yaml:"count"`
	Level  int    `yaml:"level"` // minimum level; lists only
}

type ListDef struct {
	ObjectDef `yaml:",inline"`
	Entries   []StackDef `yaml:"entries"`
}

type LocationDef struct {
	ObjectDef `yaml:",inline"`
	Parent    string   `yaml:"parent"`
	Keywords  []string `yaml:"keywords"`
}

type ContainerDef struct {
	ObjectDef `yaml:",inline"`
	Respawn   bool       `yaml:"respawn"`
	Contents  []StackDef `yaml:"contents"`
}

type RefDef struct {
	ObjectDef `yaml:",inline"`
	Base      string `yaml:"base"`
	Location  string `yaml:"location"`
}

// LoadFile reads a YAML fixture from path and builds a world from it.
func LoadFile(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a YAML fixture and builds a world from it.
func Load(r io.Reader) (*World, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("sim: parse fixture: %w", err)
	}
	return Build(&fx)
}

// Build creates a world from a decoded fixture. Objects are defined first
// and wired second, so definitions may refer to objects listed later.
func Build(fx *Fixture) (*World, error) {
	w := New()
	if fx.Level > 0 {
		w.level = fx.Level
	}

	for _, def := range fx.Keywords {
		if err := w.defineStored(def, func(o *Object) host.Form { return o }); err != nil {
			return nil, err
		}
	}
	for _, def := range fx.Items {
		if err := w.defineStored(def, func(o *Object) host.Form { return o }); err != nil {
			return nil, err
		}
	}

	lists := make([]*List, len(fx.Lists))
	for i, def := range fx.Lists {
		if err := w.defineStored(def.ObjectDef, func(o *Object) host.Form {
			lists[i] = &List{Object: o}
			return lists[i]
		}); err != nil {
			return nil, err
		}
	}
	locations := make([]*Location, len(fx.Locations))
	for i, def := range fx.Locations {
		if err := w.defineStored(def.ObjectDef, func(o *Object) host.Form {
			locations[i] = &Location{Object: o, keywords: map[host.FormID]bool{}}
			return locations[i]
		}); err != nil {
			return nil, err
		}
	}
	containers := make([]*Container, len(fx.Containers))
	for i, def := range fx.Containers {
		if err := w.defineStored(def.ObjectDef, func(o *Object) host.Form {
			containers[i] = &Container{Object: o, Inventory: newInventory(), respawn: def.Respawn}
			return containers[i]
		}); err != nil {
			return nil, err
		}
	}

	// Wiring.
	for i, def := range fx.Lists {
		for _, e := range def.Entries {
			obj, err := w.fixtureRef("list "+def.Name, e.Object)
			if err != nil {
				return nil, err
			}
			lists[i].Add(obj, max(e.Count, 1), e.Level)
		}
	}
	for i, def := range fx.Locations {
		if def.Parent != "" {
			parent, ok := w.byName[def.Parent].(*Location)
			if !ok {
				return nil, fmt.Errorf("sim: location %s: parent %q is not a location", def.Name, def.Parent)
			}
			locations[i].parent = parent
		}
		for _, name := range def.Keywords {
			kw, err := w.fixtureRef("location "+def.Name, name)
			if err != nil {
				return nil, err
			}
			locations[i].keywords[kw.FormID()] = true
		}
	}
	for i, def := range fx.Containers {
		for _, e := range def.Contents {
			item, err := w.fixtureRef("container "+def.Name, e.Object)
			if err != nil {
				return nil, err
			}
			containers[i].Add(item, max(e.Count, 1))
		}
	}
	for _, def := range fx.Refs {
		base, ok := w.byName[def.Base].(*Container)
		if !ok {
			return nil, fmt.Errorf("sim: ref %s: base %q is not a container", def.Name, def.Base)
		}
		var loc *Location
		if def.Location != "" {
			if loc, ok = w.byName[def.Location].(*Location); !ok {
				return nil, fmt.Errorf("sim: ref %s: %q is not a location", def.Name, def.Location)
			}
		}
		if err := w.defineStored(def.ObjectDef, func(o *Object) host.Form {
			return &Ref{Object: o, Inventory: newInventory(), base: base, location: loc}
		}); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) defineStored(def ObjectDef, wrap func(*Object) host.Form) error {
	o, err := w.define(def.Name, def.Origin, def.ID)
	if err != nil {
		return err
	}
	w.store(wrap(o))
	return nil
}

func (w *World) fixtureRef(owner, name string) (host.Form, error) {
	f, ok := w.byName[name]
	if !ok {
		return nil, fmt.Errorf("sim: %s: unknown object %q", owner, name)
	}
	return f, nil
}
