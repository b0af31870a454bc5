// Package effects applies distribution entries to inventories. Every entry
// is one operation; no conflict or scope logic lives here.
package effects

import (
	"fmt"
	"log/slog"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/plan"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// Mode selects how an entry's chance is applied.
type Mode int

const (
	// PerEntry runs one trial per entry; on success the whole entry applies.
	PerEntry Mode = iota
	// PerUnit runs one trial per counted unit.
	PerUnit
)

func (m Mode) String() string {
	if m == PerUnit {
		return "per_unit"
	}
	return "per_entry"
}

// ParseMode parses "per_entry" or "per_unit".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "per_entry", "":
		return PerEntry, nil
	case "per_unit":
		return PerUnit, nil
	}
	return PerEntry, fmt.Errorf("unknown chance mode %q", s)
}

// Roller supplies chance trials.
type Roller interface {
	// Chance runs one trial succeeding with probability percent/100.
	Chance(percent int) bool
	// Binomial returns how many of n trials at percent succeed.
	Binomial(n, percent int) int
}

// Expansion records a leveled list that was expanded into an inventory.
type Expansion struct {
	List  host.LeveledList
	Count int
	Pairs []host.ListEntry
}

// Outcome describes what one Apply changed.
type Outcome struct {
	Added    []host.ListEntry
	Removed  []host.ListEntry
	Expanded []Expansion // lists expanded by Add entries only
	Failed   bool        // the chance roll failed
}

// Applied reports whether the inventory changed.
func (o Outcome) Applied() bool { return len(o.Added) > 0 || len(o.Removed) > 0 }

// Executor applies entries at a fixed level with a chance mode.
type Executor struct {
	Roller Roller
	Level  int
	Mode   Mode
}

// Apply performs e against inv.
func (x *Executor) Apply(e plan.Entry, inv host.Inventory) Outcome {
	var out Outcome
	if x.Mode == PerEntry && e.Chance < 100 && !x.Roller.Chance(e.Chance) {
		out.Failed = true
		slog.Debug("chance failed", "entry", e.String())
		return out
	}

	switch e.Kind {
	case types.Add:
		pairs := x.add(e.Source, e.Count, e.Chance, inv, &out)
		if e.Source.IsList() {
			out.Expanded = append(out.Expanded, Expansion{List: e.Source.List, Count: e.Count, Pairs: pairs})
		}

	case types.Remove:
		for _, p := range e.Source.Expand(e.Count, x.Level) {
			have := inv.Count(p.Object)
			if have == 0 {
				continue
			}
			x.remove(p.Object, min(x.scale(p.Count, e.Chance), have), inv, &out)
		}

	case types.RemoveAll:
		for _, f := range e.Source.Forms(x.Level) {
			if have := inv.Count(f); have > 0 {
				x.remove(f, x.scale(have, e.Chance), inv, &out)
			}
		}

	case types.Replace, types.ReplaceAll:
		for _, f := range e.Source.Forms(x.Level) {
			have := inv.Count(f)
			if have == 0 {
				continue
			}
			n := have
			if e.Kind == types.Replace {
				n = min(e.Count, have)
			}
			n = x.scale(n, e.Chance)
			if n == 0 {
				continue
			}
			x.remove(f, n, inv, &out)

			add := n
			if e.WithCount > 0 {
				add = e.WithCount
			}
			// The replacement is gated by the same roll as the removal.
			x.add(e.With, add, 100, inv, &out)
		}
	}

	if out.Applied() {
		slog.Debug("applied entry", "entry", e.String(), "added", len(out.Added), "removed", len(out.Removed))
	}
	return out
}

// add expands src and adds the result, returning the expanded pairs.
func (x *Executor) add(src plan.Source, count, chance int, inv host.Inventory, out *Outcome) []host.ListEntry {
	pairs := src.Expand(count, x.Level)
	for _, p := range pairs {
		n := x.scale(p.Count, chance)
		if n == 0 {
			continue
		}
		inv.Add(p.Object, n)
		out.Added = append(out.Added, host.ListEntry{Object: p.Object, Count: n})
	}
	return pairs
}

func (x *Executor) remove(f host.Form, n int, inv host.Inventory, out *Outcome) {
	if n < 1 {
		return
	}
	inv.Remove(f, n)
	out.Removed = append(out.Removed, host.ListEntry{Object: f, Count: n})
}

// scale applies per-unit chance to a quantity. PerEntry leaves it alone;
// the entry-level roll already happened.
func (x *Executor) scale(n, chance int) int {
	if x.Mode != PerUnit || chance >= 100 {
		return n
	}
	return x.Roller.Binomial(n, chance)
}

// Summary counts what a static pass did.
type Summary struct {
	Applied  int
	Skipped  int
	Deferred int
}

// Distribute applies every non-deferred entry of p once to its container
// definition, in the order Add, Remove, Replace. Deferred entries live in
// the runtime lists and are skipped here.
func (x *Executor) Distribute(p *plan.Plan) Summary {
	var s Summary
	for _, list := range [][]plan.Entry{p.Add, p.Remove, p.Replace} {
		for _, e := range list {
			if e.Deferred() {
				s.Deferred++
				continue
			}
			if x.Apply(e, e.Target).Applied() {
				s.Applied++
			} else {
				s.Skipped++
			}
		}
	}
	slog.Info("static distribution done", "applied", s.Applied, "skipped", s.Skipped, "deferred", s.Deferred)
	return s
}
