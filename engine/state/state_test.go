package state

import (
	"testing"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

type item struct {
	id   host.FormID
	name string
}

func (i item) FormID() host.FormID { return i.id }
func (i item) Name() string        { return i.name }

var (
	gold  = item{1, "Gold001"}
	torch = item{2, "Torch01"}
)

func TestMarkProcessed(t *testing.T) {
	s := NewSession()

	if !s.MarkProcessed(10) {
		t.Fatal("first mark should succeed")
	}
	if s.MarkProcessed(10) {
		t.Fatal("second mark should report already processed")
	}
	if !s.IsProcessed(10) {
		t.Error("expected 10 processed")
	}

	s.Unprocess(10)
	if s.IsProcessed(10) {
		t.Error("expected 10 unprocessed")
	}
	if !s.MarkProcessed(10) {
		t.Error("mark after unprocess should succeed")
	}
}

func TestRecord_MergesPerItem(t *testing.T) {
	s := NewSession()
	s.Record(10, host.ListEntry{Object: gold, Count: 5}, host.ListEntry{Object: torch, Count: 1})
	s.Record(10, host.ListEntry{Object: gold, Count: 3}, host.ListEntry{Object: torch, Count: 0})

	got := s.Ledger(10)
	if len(got) != 2 {
		t.Fatalf("expected 2 ledger entries, got %v", got)
	}
	if got[0].Object.FormID() != gold.id || got[0].Count != 8 {
		t.Errorf("gold entry = %+v, want 8", got[0])
	}
	if got[1].Count != 1 {
		t.Errorf("torch entry = %+v, want 1", got[1])
	}

	// Ledger returns a copy.
	got[0].Count = 100
	if s.Ledger(10)[0].Count != 8 {
		t.Error("Ledger should not expose internal state")
	}
}

func TestTakeLedgerAndStash(t *testing.T) {
	s := NewSession()
	s.Record(10, host.ListEntry{Object: gold, Count: 5})

	taken := s.TakeLedger(10)
	if len(taken) != 1 || len(s.Ledger(10)) != 0 {
		t.Fatalf("TakeLedger should empty the ledger, got %v / %v", taken, s.Ledger(10))
	}

	s.Stash(10, taken)
	s.Stash(11, nil)
	if c := s.Counts(); c.Stashed != 1 {
		t.Errorf("Stashed = %d, want 1", c.Stashed)
	}
	back := s.TakeStash(10)
	if len(back) != 1 || back[0].Count != 5 {
		t.Errorf("TakeStash = %v", back)
	}
	if len(s.TakeStash(10)) != 0 {
		t.Error("stash should be empty after take")
	}
}

func TestLists(t *testing.T) {
	s := NewSession()
	s.CacheList(10, CachedList{Count: 2, Pairs: []host.ListEntry{{Object: gold, Count: 2}}})
	s.CacheList(10, CachedList{Count: 1})

	if got := len(s.Lists(10)); got != 2 {
		t.Fatalf("expected 2 cached lists, got %d", got)
	}
	s.ClearLists(10)
	if got := len(s.Lists(10)); got != 0 {
		t.Errorf("expected no cached lists, got %d", got)
	}
}

func TestReset_KeepsRespawn(t *testing.T) {
	s := NewSession()
	s.MarkProcessed(10)
	s.MarkRespawn(10)
	s.Record(10, host.ListEntry{Object: gold, Count: 1})
	s.Stash(11, []host.ListEntry{{Object: torch, Count: 1}})
	s.CacheList(10, CachedList{Count: 1})

	s.Reset()

	want := Counts{Respawn: 1}
	if got := s.Counts(); got != want {
		t.Errorf("Counts after reset = %+v, want %+v", got, want)
	}
	if !s.IsRespawn(10) {
		t.Error("respawn set should survive a reset")
	}
}
