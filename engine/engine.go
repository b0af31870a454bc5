// Package engine wires tokenizing, conflict resolution, planning and
// execution into the two-phase distributor and handles host events.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/effects"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/events"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/parser"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/plan"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/resolve"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/rules"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/state"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

var (
	// ErrNotPrepared is returned by calls that need a prepared plan.
	ErrNotPrepared = errors.New("engine: not prepared")
	// ErrPrepared is returned when loading or preparing after Prepare.
	ErrPrepared = errors.New("engine: already prepared")
	// ErrDistributed is returned by a second static pass.
	ErrDistributed = errors.New("engine: already distributed")
	// ErrUnknownInstance is returned for ids the directory does not know.
	ErrUnknownInstance = errors.New("engine: unknown instance")
)

// Options configures an engine.
type Options struct {
	Mode effects.Mode
	Seed int64
}

// Engine holds the plan and the runtime state of one game.
type Engine struct {
	dir      host.Directory
	resolver *resolve.Resolver
	tables   *rules.Tables
	plan     *plan.Plan
	session  *state.Session
	rng      *RNG
	exec     *effects.Executor

	prepared    bool
	distributed bool
	conflicts   []rules.Conflict
	loaded      int
	dropped     int
}

var _ events.Handler = (*Engine)(nil)

// New creates an engine over dir.
func New(dir host.Directory, opts Options) *Engine {
	rng := NewRNG(opts.Seed)
	return &Engine{
		dir:      dir,
		resolver: resolve.New(dir),
		tables:   rules.NewTables(),
		plan:     plan.New(),
		session:  state.NewSession(),
		rng:      rng,
		exec:     &effects.Executor{Roller: rng, Mode: opts.Mode},
	}
}

// Load tokenizes every rule of files into the conflict tables. Malformed
// rules are logged and dropped; they never fail the load.
func (e *Engine) Load(files []types.File) error {
	if e.prepared {
		return ErrPrepared
	}
	for _, f := range files {
		for _, r := range f.Rules {
			target, err := types.ParseIdentifier(r.Target)
			if err != nil {
				slog.Warn("dropping rule", "file", f.Name, "target", r.Target, "err", err)
				e.dropped++
				continue
			}
			tok := parser.Tokenize(r.Value, target, f.Name, parser.Classify(r.Value))
			if err := e.tables.Add(tok); err != nil {
				e.dropped++
				continue
			}
			e.loaded++
		}
	}
	return nil
}

// Prepare resolves conflicts and binds the surviving rules to live
// objects. It must run once, after Load and before anything else.
func (e *Engine) Prepare() error {
	if e.prepared {
		return ErrPrepared
	}
	e.cacheLevel()

	res := e.tables.ResolveAll(e.resolver.Key)
	e.conflicts = res.Conflicts
	b := plan.Builder{Resolver: e.resolver}
	for _, tok := range res.Winners {
		entry, err := b.Build(tok)
		if err != nil {
			slog.Warn("dropping rule", "err", err)
			e.dropped++
			continue
		}
		e.plan.Insert(entry)
	}
	e.tables.Clear()
	e.prepared = true

	slog.Info("distribution plan ready",
		"rules", e.loaded, "entries", e.plan.Len(), "deferred", e.plan.Deferred(),
		"conflicts", len(e.conflicts), "dropped", e.dropped)
	return nil
}

// Distribute applies the static part of the plan to container definitions.
func (e *Engine) Distribute() (effects.Summary, error) {
	if !e.prepared {
		return effects.Summary{}, ErrNotPrepared
	}
	if e.distributed {
		return effects.Summary{}, ErrDistributed
	}
	e.distributed = true
	return e.exec.Distribute(e.plan), nil
}

// OnContainerReady applies the runtime entries for a container instance
// the first time it becomes ready in a session.
func (e *Engine) OnContainerReady(instanceID, baseID host.FormID) error {
	if !e.prepared {
		return ErrNotPrepared
	}
	inst, ok := e.dir.Instance(instanceID)
	if !ok {
		return fmt.Errorf("%w: 0x%08x", ErrUnknownInstance, uint32(instanceID))
	}
	if inst.Respawns() {
		e.session.MarkRespawn(instanceID)
	}

	rt, ok := e.plan.Runtime(instanceID)
	if !ok {
		rt, ok = e.plan.Runtime(baseID)
	}
	if !ok {
		return nil
	}
	if !e.session.MarkProcessed(instanceID) {
		return nil
	}

	for _, entry := range rt.Entries() {
		if !entry.InScope(inst) {
			continue
		}
		out := e.exec.Apply(entry, inst)
		e.session.Record(instanceID, out.Added...)
		for _, exp := range out.Expanded {
			e.session.CacheList(instanceID, state.CachedList{List: exp.List, Count: exp.Count, Pairs: exp.Pairs})
		}
	}
	slog.Debug("container ready", "instance", inst.Name(), "entries", rt.Len())
	return nil
}

// OnInventoryReset strips what the engine injected into an instance. A
// respawning container then gets its runtime entries again; any other
// container only gets its leveled lists re-rolled.
func (e *Engine) OnInventoryReset(instanceID host.FormID) error {
	if !e.prepared {
		return ErrNotPrepared
	}
	inst, ok := e.dir.Instance(instanceID)
	if !ok {
		return fmt.Errorf("%w: 0x%08x", ErrUnknownInstance, uint32(instanceID))
	}

	strip(inst, e.session.TakeLedger(instanceID))
	cached := e.session.Lists(instanceID)
	e.session.ClearLists(instanceID)

	if e.session.IsRespawn(instanceID) {
		e.session.Unprocess(instanceID)
		var baseID host.FormID
		if base := inst.Base(); base != nil {
			baseID = base.FormID()
		}
		return e.OnContainerReady(instanceID, baseID)
	}

	for _, c := range cached {
		pairs := resolve.Expand(c.List, c.Count, e.exec.Level)
		for _, p := range pairs {
			inst.Add(p.Object, p.Count)
		}
		e.session.Record(instanceID, pairs...)
		e.session.CacheList(instanceID, state.CachedList{List: c.List, Count: c.Count, Pairs: pairs})
	}
	return nil
}

// OnBeforeSave removes injected items from an instance so they are not
// written into the save. They wait in the stash for OnAfterSave.
func (e *Engine) OnBeforeSave(instanceID host.FormID) error {
	if !e.prepared {
		return ErrNotPrepared
	}
	inst, ok := e.dir.Instance(instanceID)
	if !ok {
		return fmt.Errorf("%w: 0x%08x", ErrUnknownInstance, uint32(instanceID))
	}
	e.session.Stash(instanceID, strip(inst, e.session.TakeLedger(instanceID)))
	return nil
}

// OnAfterSave puts back what OnBeforeSave stripped.
func (e *Engine) OnAfterSave(instanceID host.FormID) error {
	if !e.prepared {
		return ErrNotPrepared
	}
	inst, ok := e.dir.Instance(instanceID)
	if !ok {
		return fmt.Errorf("%w: 0x%08x", ErrUnknownInstance, uint32(instanceID))
	}
	pairs := e.session.TakeStash(instanceID)
	for _, p := range pairs {
		inst.Add(p.Object, p.Count)
	}
	e.session.Record(instanceID, pairs...)
	return nil
}

// OnLoadGame forgets everything tied to the previous session. The plan and
// the respawn set are kept.
func (e *Engine) OnLoadGame() error {
	if !e.prepared {
		return ErrNotPrepared
	}
	e.session.Reset()
	e.cacheLevel()
	return nil
}

func (e *Engine) cacheLevel() {
	e.exec.Level = e.dir.Level()
}

// strip removes injected pairs from inst without cutting into the stock
// its base definition provides, and returns what was actually removed.
func strip(inst host.Instance, pairs []host.ListEntry) []host.ListEntry {
	var removed []host.ListEntry
	base := inst.Base()
	for _, p := range pairs {
		surplus := inst.Count(p.Object)
		if base != nil {
			surplus -= base.Count(p.Object)
		}
		n := min(p.Count, surplus)
		if n < 1 {
			continue
		}
		inst.Remove(p.Object, n)
		removed = append(removed, host.ListEntry{Object: p.Object, Count: n})
	}
	return removed
}

// Plan returns the prepared plan.
func (e *Engine) Plan() *plan.Plan { return e.plan }

// Conflicts returns the conflicts found by Prepare.
func (e *Engine) Conflicts() []rules.Conflict { return e.conflicts }

// Injected returns what the engine currently has recorded as injected
// into an instance.
func (e *Engine) Injected(instanceID host.FormID) []host.ListEntry {
	return e.session.Ledger(instanceID)
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Prepared  bool
	Rules     int
	Dropped   int
	Entries   int
	Deferred  int
	Conflicts int
	Level     int
	Mode      effects.Mode
	Rolls     int64
	Session   state.Counts
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Prepared:  e.prepared,
		Rules:     e.loaded,
		Dropped:   e.dropped,
		Entries:   e.plan.Len(),
		Deferred:  e.plan.Deferred(),
		Conflicts: len(e.conflicts),
		Level:     e.exec.Level,
		Mode:      e.exec.Mode,
		Rolls:     e.rng.Position(),
		Session:   e.session.Counts(),
	}
}
