package resolve

import (
	"log/slog"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// MaxListDepth bounds nested list expansion. Cyclic list data stops here
// with whatever was collected so far.
const MaxListDepth = 16

// Expand resolves list into concrete (item, count) pairs at level. Every
// entry count is multiplied by count. Duplicate items are merged and pairs
// keep the order in which each item first appeared.
func Expand(list host.LeveledList, count, level int) []host.ListEntry {
	if list == nil {
		return nil
	}
	if count < 1 {
		count = 1
	}

	var out []host.ListEntry
	index := map[host.FormID]int{}

	var walk func(l host.LeveledList, mult, depth int)
	walk = func(l host.LeveledList, mult, depth int) {
		if depth > MaxListDepth {
			slog.Debug("leveled list nesting too deep", "list", l.Name(), "depth", depth)
			return
		}
		for _, e := range l.Entries(level) {
			if e.Object == nil || e.Count < 1 {
				continue
			}
			n := e.Count * mult
			if nested, ok := e.Object.(host.LeveledList); ok {
				walk(nested, n, depth+1)
				continue
			}
			if i, ok := index[e.Object.FormID()]; ok {
				out[i].Count += n
				continue
			}
			index[e.Object.FormID()] = len(out)
			out = append(out, host.ListEntry{Object: e.Object, Count: n})
		}
	}
	walk(list, count, 0)
	return out
}
