// Package rules holds the per-family conflict tables and resolves rules that
// several configuration files supply for the same container and item.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// ErrMalformed is returned when an Error token is offered to the tables.
var ErrMalformed = errors.New("rules: malformed token")

// KeyFunc maps an identifier to the identity used for conflict detection.
// Two identifiers with the same key denote the same object.
type KeyFunc func(types.Identifier) string

// TextKey treats identifiers as equal only when they are written the same.
func TextKey(id types.Identifier) string { return id.String() }

// Table maps a target container to the tokens read for it, in load order.
type Table map[types.Identifier][]types.RuleToken

// Len returns the number of tokens in the table.
func (t Table) Len() int {
	n := 0
	for _, toks := range t {
		n += len(toks)
	}
	return n
}

// Tables holds one table per conflict family. Built once from all loaded
// files and consumed once.
type Tables struct {
	byFamily [3]Table
}

// NewTables creates empty tables.
func NewTables() *Tables {
	t := &Tables{}
	t.Clear()
	return t
}

// Add routes tok to its family's table.
func (t *Tables) Add(tok types.RuleToken) error {
	f := tok.Kind.Family()
	if f == types.FamilyNone {
		return fmt.Errorf("%w: %s", ErrMalformed, tok.Raw)
	}
	t.byFamily[f][tok.Target] = append(t.byFamily[f][tok.Target], tok)
	return nil
}

// Table returns the table for family f.
func (t *Tables) Table(f types.Family) Table {
	if f < 0 || int(f) >= len(t.byFamily) {
		return nil
	}
	return t.byFamily[f]
}

// Len returns the number of tokens across all families.
func (t *Tables) Len() int {
	n := 0
	for _, tbl := range t.byFamily {
		n += tbl.Len()
	}
	return n
}

// Clear empties every table.
func (t *Tables) Clear() {
	for i := range t.byFamily {
		t.byFamily[i] = Table{}
	}
}

// Conflict records a (target, source) pair supplied by more than one token.
type Conflict struct {
	Family    types.Family
	Target    types.Identifier
	Source    types.Identifier
	Providers []types.RuleToken // sorted by filename, winner last
	Winner    types.RuleToken
}

func (c Conflict) String() string {
	files := make([]string, len(c.Providers))
	for i, p := range c.Providers {
		files[i] = p.Filename
	}
	return fmt.Sprintf("%s conflict on %s in %s: %s; using %q from %s",
		c.Family, c.Source, c.Target, strings.Join(files, ", "), c.Winner.Raw, c.Winner.Filename)
}

// Result is the outcome of resolving one or more tables.
type Result struct {
	Winners   []types.RuleToken
	Conflicts []Conflict
}

// Resolve keeps one token per (target, source) pair in table. When several
// tokens share a pair, the one from the lexicographically greatest filename
// wins; equal filenames fall back to load order, later wins. Targets are
// visited in sorted order, and within a target winners keep the order in
// which their source first appeared.
func Resolve(table Table, key KeyFunc) Result {
	if key == nil {
		key = TextKey
	}

	// Group targets by identity so two spellings of one container compete.
	groups := map[string][]types.RuleToken{}
	targets := make([]types.Identifier, 0, len(table))
	for target := range table {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].String() < targets[j].String() })
	var order []string
	for _, target := range targets {
		k := key(target)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], table[target]...)
	}
	sort.Strings(order)

	var res Result
	for _, k := range order {
		resolveGroup(groups[k], key, &res)
	}
	return res
}

func resolveGroup(group []types.RuleToken, key KeyFunc, res *Result) {
	remaining := group
	for len(remaining) > 0 {
		first := remaining[0]
		k := key(first.Source)

		var same, rest []types.RuleToken
		for _, tok := range remaining {
			if key(tok.Source) == k {
				same = append(same, tok)
			} else {
				rest = append(rest, tok)
			}
		}
		remaining = rest

		if len(same) == 1 {
			res.Winners = append(res.Winners, first)
			continue
		}

		sort.SliceStable(same, func(i, j int) bool {
			return same[i].Filename < same[j].Filename
		})
		winner := same[len(same)-1]
		c := Conflict{
			Family:    first.Kind.Family(),
			Target:    first.Target,
			Source:    first.Source,
			Providers: same,
			Winner:    winner,
		}
		slog.Debug("rule conflict", "family", c.Family.String(), "target", c.Target.String(),
			"source", c.Source.String(), "providers", len(same), "winner", winner.Filename)
		res.Winners = append(res.Winners, winner)
		res.Conflicts = append(res.Conflicts, c)
	}
}

// ResolveAll resolves every family in the order Add, Remove, Replace.
func (t *Tables) ResolveAll(key KeyFunc) Result {
	var res Result
	for f := range t.byFamily {
		r := Resolve(t.byFamily[f], key)
		res.Winners = append(res.Winners, r.Winners...)
		res.Conflicts = append(res.Conflicts, r.Conflicts...)
	}
	return res
}
