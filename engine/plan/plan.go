package plan

import (
	"fmt"
	"slices"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/resolve"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// ResolutionError reports a token whose identifiers could not be bound to
// live objects.
type ResolutionError struct {
	Token types.RuleToken
	Field string // "source", "target", "replacement", "location", "keyword"
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %q: %s: %v", e.Token.Filename, e.Token.Raw, e.Field, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Builder binds tokens to live objects.
type Builder struct {
	Resolver *resolve.Resolver
}

// Build resolves every identifier of tok into an Entry.
func (b Builder) Build(tok types.RuleToken) (Entry, error) {
	fail := func(field string, err error) (Entry, error) {
		return Entry{}, &ResolutionError{Token: tok, Field: field, Err: err}
	}
	if tok.Kind == types.Error {
		return fail("kind", fmt.Errorf("malformed rule"))
	}

	src, err := b.source(tok.Source)
	if err != nil {
		return fail("source", err)
	}
	target, err := b.Resolver.Container(tok.Target)
	if err != nil {
		return fail("target", err)
	}

	e := Entry{
		Kind:       tok.Kind,
		Source:     src,
		Count:      tok.Count,
		Target:     target,
		TargetID:   target.FormID(),
		TargetName: target.Name(),
		WithCount:  tok.WithCount,
		Chance:     tok.Chance,
		Filename:   tok.Filename,
		Raw:        tok.Raw,
	}
	if e.Chance == 0 {
		e.Chance = 100
	}

	if tok.Kind.Family() == types.FamilyReplace {
		if e.With, err = b.source(tok.With); err != nil {
			return fail("replacement", err)
		}
	}
	if !tok.Location.IsZero() {
		if e.Location, err = b.Resolver.Location(tok.Location); err != nil {
			return fail("location", err)
		}
	}
	if !tok.LocationKeyword.IsZero() {
		if e.Keyword, err = b.Resolver.Keyword(tok.LocationKeyword); err != nil {
			return fail("keyword", err)
		}
	}
	return e, nil
}

func (b Builder) source(id types.Identifier) (Source, error) {
	f, err := b.Resolver.Source(id)
	if err != nil {
		return Source{}, err
	}
	if list, ok := f.(host.LeveledList); ok {
		return ListSource(list), nil
	}
	return ItemSource(f), nil
}

// Runtime holds the deferred entries for one container, by operation.
type Runtime struct {
	ToAdd        []Entry
	ToRemove     []Entry
	ToRemoveAll  []Entry
	ToReplace    []Entry
	ToReplaceAll []Entry
}

// Entries returns every entry in application order: add, remove,
// remove-all, replace, replace-all.
func (r *Runtime) Entries() []Entry {
	out := make([]Entry, 0, r.Len())
	out = append(out, r.ToAdd...)
	out = append(out, r.ToRemove...)
	out = append(out, r.ToRemoveAll...)
	out = append(out, r.ToReplace...)
	out = append(out, r.ToReplaceAll...)
	return out
}

// Len returns the number of entries across all five sub-lists.
func (r *Runtime) Len() int {
	return len(r.ToAdd) + len(r.ToRemove) + len(r.ToRemoveAll) + len(r.ToReplace) + len(r.ToReplaceAll)
}

// Plan is the full set of entries: one list per conflict family for the
// static pass, plus the runtime lists keyed by container id.
type Plan struct {
	Add     []Entry
	Remove  []Entry
	Replace []Entry
	runtime map[host.FormID]*Runtime
}

// New creates an empty plan.
func New() *Plan {
	return &Plan{runtime: map[host.FormID]*Runtime{}}
}

// Insert appends e to its family list and, when e is deferred, to the
// runtime lists of its target.
func (p *Plan) Insert(e Entry) {
	switch e.Kind.Family() {
	case types.FamilyAdd:
		p.Add = append(p.Add, e)
	case types.FamilyRemove:
		p.Remove = append(p.Remove, e)
	case types.FamilyReplace:
		p.Replace = append(p.Replace, e)
	default:
		return
	}
	if !e.Deferred() {
		return
	}

	rt, ok := p.runtime[e.TargetID]
	if !ok {
		rt = &Runtime{}
		p.runtime[e.TargetID] = rt
	}
	switch e.Kind {
	case types.Add:
		rt.ToAdd = append(rt.ToAdd, e)
	case types.Remove:
		rt.ToRemove = append(rt.ToRemove, e)
	case types.RemoveAll:
		rt.ToRemoveAll = append(rt.ToRemoveAll, e)
	case types.Replace:
		rt.ToReplace = append(rt.ToReplace, e)
	case types.ReplaceAll:
		rt.ToReplaceAll = append(rt.ToReplaceAll, e)
	}
}

// Runtime returns the deferred entries for container id.
func (p *Plan) Runtime(id host.FormID) (*Runtime, bool) {
	rt, ok := p.runtime[id]
	return rt, ok
}

// RuntimeIDs returns the ids with deferred entries, sorted.
func (p *Plan) RuntimeIDs() []host.FormID {
	ids := make([]host.FormID, 0, len(p.runtime))
	for id := range p.runtime {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Entries returns every entry in the order Add, Remove, Replace.
func (p *Plan) Entries() []Entry {
	out := make([]Entry, 0, p.Len())
	out = append(out, p.Add...)
	out = append(out, p.Remove...)
	return append(out, p.Replace...)
}

// Len returns the number of entries.
func (p *Plan) Len() int { return len(p.Add) + len(p.Remove) + len(p.Replace) }

// Deferred returns the number of entries waiting for runtime events.
func (p *Plan) Deferred() int {
	n := 0
	for _, rt := range p.runtime {
		n += rt.Len()
	}
	return n
}
