// Package state manages the mutable per-session bookkeeping of the runtime
// engine: which instances were processed, which respawn, and what the
// engine injected into each instance.
package state

import (
	"slices"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// CachedList is a leveled list expansion injected into an instance.
type CachedList struct {
	List  host.LeveledList
	Count int
	Pairs []host.ListEntry
}

// Session holds runtime state. The plan and respawn set outlive a load;
// everything else is per session.
type Session struct {
	processed map[host.FormID]bool
	respawn   map[host.FormID]bool
	ledger    map[host.FormID][]host.ListEntry
	stash     map[host.FormID][]host.ListEntry
	lists     map[host.FormID][]CachedList
}

// NewSession creates empty session state.
func NewSession() *Session {
	s := &Session{respawn: map[host.FormID]bool{}}
	s.Reset()
	return s
}

// Reset clears everything tied to the current game session. The respawn
// set survives.
func (s *Session) Reset() {
	s.processed = map[host.FormID]bool{}
	s.ledger = map[host.FormID][]host.ListEntry{}
	s.stash = map[host.FormID][]host.ListEntry{}
	s.lists = map[host.FormID][]CachedList{}
}

// MarkProcessed records id as processed. It returns false when id was
// already processed.
func (s *Session) MarkProcessed(id host.FormID) bool {
	if s.processed[id] {
		return false
	}
	s.processed[id] = true
	return true
}

// IsProcessed reports whether id was processed this session.
func (s *Session) IsProcessed(id host.FormID) bool { return s.processed[id] }

// Unprocess forgets that id was processed.
func (s *Session) Unprocess(id host.FormID) { delete(s.processed, id) }

// MarkRespawn remembers that id is a respawning container.
func (s *Session) MarkRespawn(id host.FormID) { s.respawn[id] = true }

// IsRespawn reports whether id is a known respawning container.
func (s *Session) IsRespawn(id host.FormID) bool { return s.respawn[id] }

// Record adds pairs to the ledger of id, merging counts per item.
func (s *Session) Record(id host.FormID, pairs ...host.ListEntry) {
	s.ledger[id] = merge(s.ledger[id], pairs)
}

// Ledger returns a copy of what was injected into id.
func (s *Session) Ledger(id host.FormID) []host.ListEntry {
	return slices.Clone(s.ledger[id])
}

// TakeLedger returns and clears the ledger of id.
func (s *Session) TakeLedger(id host.FormID) []host.ListEntry {
	pairs := s.ledger[id]
	delete(s.ledger, id)
	return pairs
}

// Stash keeps pairs for id until TakeStash.
func (s *Session) Stash(id host.FormID, pairs []host.ListEntry) {
	if len(pairs) == 0 {
		return
	}
	s.stash[id] = merge(s.stash[id], pairs)
}

// TakeStash returns and clears the stash of id.
func (s *Session) TakeStash(id host.FormID) []host.ListEntry {
	pairs := s.stash[id]
	delete(s.stash, id)
	return pairs
}

// CacheList remembers a list expansion injected into id.
func (s *Session) CacheList(id host.FormID, c CachedList) {
	s.lists[id] = append(s.lists[id], c)
}

// Lists returns the cached list expansions of id.
func (s *Session) Lists(id host.FormID) []CachedList {
	return slices.Clone(s.lists[id])
}

// ClearLists erases the cached list expansions of id.
func (s *Session) ClearLists(id host.FormID) { delete(s.lists, id) }

// Counts summarizes the session for status displays.
type Counts struct {
	Processed int
	Respawn   int
	Ledgered  int
	Stashed   int
	Lists     int
}

// Counts returns the current sizes of the session sets.
func (s *Session) Counts() Counts {
	n := 0
	for _, l := range s.lists {
		n += len(l)
	}
	return Counts{
		Processed: len(s.processed),
		Respawn:   len(s.respawn),
		Ledgered:  len(s.ledger),
		Stashed:   len(s.stash),
		Lists:     n,
	}
}

func merge(into, pairs []host.ListEntry) []host.ListEntry {
	for _, p := range pairs {
		if p.Object == nil || p.Count < 1 {
			continue
		}
		i := slices.IndexFunc(into, func(e host.ListEntry) bool {
			return e.Object.FormID() == p.Object.FormID()
		})
		if i >= 0 {
			into[i].Count += p.Count
			continue
		}
		into = append(into, p)
	}
	return into
}
