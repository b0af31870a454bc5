package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

func tok(kind types.Kind, file, target, source string, count int) types.RuleToken {
	return types.RuleToken{
		Kind:     kind,
		Filename: file,
		Target:   types.MustIdentifier(target),
		Source:   types.MustIdentifier(source),
		Count:    count,
		Chance:   100,
		Raw:      fmt.Sprintf("%s|%d", source, count),
	}
}

func TestTables_AddRoutesByFamily(t *testing.T) {
	tables := NewTables()
	require.NoError(t, tables.Add(tok(types.Add, "A_CID.ini", "Chest", "Gold001", 1)))
	require.NoError(t, tables.Add(tok(types.Remove, "A_CID.ini", "Chest", "Gold001", 1)))
	require.NoError(t, tables.Add(tok(types.RemoveAll, "A_CID.ini", "Chest", "Torch01", 0)))
	require.NoError(t, tables.Add(tok(types.ReplaceAll, "A_CID.ini", "Chest", "IronSword", 0)))

	err := tables.Add(tok(types.Error, "A_CID.ini", "Chest", "Junk", 0))
	assert.ErrorIs(t, err, ErrMalformed)

	assert.Equal(t, 1, tables.Table(types.FamilyAdd).Len())
	assert.Equal(t, 2, tables.Table(types.FamilyRemove).Len())
	assert.Equal(t, 1, tables.Table(types.FamilyReplace).Len())
	assert.Nil(t, tables.Table(types.FamilyNone))
	assert.Equal(t, 4, tables.Len())

	tables.Clear()
	assert.Equal(t, 0, tables.Len())
}

func TestResolve_NoConflict(t *testing.T) {
	table := Table{}
	for _, tk := range []types.RuleToken{
		tok(types.Add, "A_CID.ini", "Chest", "Gold001", 5),
		tok(types.Add, "A_CID.ini", "Chest", "Torch01", 1),
		tok(types.Add, "B_CID.ini", "Barrel", "Gold001", 2),
	} {
		table[tk.Target] = append(table[tk.Target], tk)
	}

	res := Resolve(table, nil)
	require.Len(t, res.Winners, 3)
	assert.Empty(t, res.Conflicts)

	// Targets in sorted order; insertion order within a target.
	assert.Equal(t, "Barrel", res.Winners[0].Target.Name)
	assert.Equal(t, "Gold001", res.Winners[1].Source.Name)
	assert.Equal(t, "Torch01", res.Winners[2].Source.Name)
}

func TestResolve_LastFilenameWins(t *testing.T) {
	table := Table{}
	for _, tk := range []types.RuleToken{
		tok(types.Add, "Zeta_CID.ini", "Chest", "Gold001", 1),
		tok(types.Add, "Alpha_CID.ini", "Chest", "Gold001", 2),
		tok(types.Add, "Mid_CID.ini", "Chest", "Gold001", 3),
		tok(types.Add, "Alpha_CID.ini", "Chest", "Torch01", 1),
	} {
		table[tk.Target] = append(table[tk.Target], tk)
	}

	res := Resolve(table, TextKey)
	require.Len(t, res.Winners, 2)
	assert.Equal(t, "Zeta_CID.ini", res.Winners[0].Filename)
	assert.Equal(t, 1, res.Winners[0].Count)
	assert.Equal(t, "Torch01", res.Winners[1].Source.Name)

	require.Len(t, res.Conflicts, 1)
	c := res.Conflicts[0]
	assert.Equal(t, types.FamilyAdd, c.Family)
	require.Len(t, c.Providers, 3)
	assert.Equal(t, "Alpha_CID.ini", c.Providers[0].Filename)
	assert.Equal(t, "Zeta_CID.ini", c.Winner.Filename)
	assert.Contains(t, c.String(), "Alpha_CID.ini, Mid_CID.ini, Zeta_CID.ini")
}

func TestResolve_SameFileLaterWins(t *testing.T) {
	table := Table{}
	for _, tk := range []types.RuleToken{
		tok(types.Add, "A_CID.ini", "Chest", "Gold001", 1),
		tok(types.Add, "A_CID.ini", "Chest", "Gold001", 2),
	} {
		table[tk.Target] = append(table[tk.Target], tk)
	}

	res := Resolve(table, nil)
	require.Len(t, res.Winners, 1)
	assert.Equal(t, 2, res.Winners[0].Count)
}

func TestResolve_IdentityKey(t *testing.T) {
	// A symbolic name and an origin-scoped id for the same object collide
	// when the key function knows they are the same.
	key := func(id types.Identifier) string {
		if id.Name == "Gold001" || (id.ID == 0xf && id.Origin == "Skyrim.esm") {
			return "gold"
		}
		return id.String()
	}

	table := Table{}
	for _, tk := range []types.RuleToken{
		tok(types.Add, "A_CID.ini", "Chest", "Gold001", 1),
		tok(types.Add, "B_CID.ini", "Chest", "0xf~Skyrim.esm", 9),
	} {
		table[tk.Target] = append(table[tk.Target], tk)
	}

	assert.Len(t, Resolve(table, TextKey).Winners, 2)

	res := Resolve(table, key)
	require.Len(t, res.Winners, 1)
	assert.Equal(t, 9, res.Winners[0].Count)
	assert.Len(t, res.Conflicts, 1)
}

func TestResolveAll_FamiliesDoNotConflict(t *testing.T) {
	tables := NewTables()
	require.NoError(t, tables.Add(tok(types.Add, "A_CID.ini", "Chest", "Gold001", 5)))
	require.NoError(t, tables.Add(tok(types.RemoveAll, "B_CID.ini", "Chest", "Gold001", 0)))
	require.NoError(t, tables.Add(tok(types.Remove, "C_CID.ini", "Chest", "Gold001", 2)))

	res := tables.ResolveAll(nil)
	require.Len(t, res.Winners, 2, "add survives next to the remove family winner")
	assert.Equal(t, types.Add, res.Winners[0].Kind)
	assert.Equal(t, types.Remove, res.Winners[1].Kind, "Remove and RemoveAll share a family")
	assert.Equal(t, "C_CID.ini", res.Winners[1].Filename)
}

// For any set of tokens, exactly one winner survives per (target, source)
// pair and it comes from the greatest filename supplying that pair.
func TestResolve_OneWinnerPerPair(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		files := []string{"A_CID.ini", "B_CID.ini", "C_CID.ini", "D_CID.ini"}
		targets := []string{"Chest", "Barrel", "Sack"}
		sources := []string{"Gold001", "Torch01", "Lockpick", "Ruby"}

		n := rapid.IntRange(0, 40).Draw(t, "n")
		table := Table{}
		type pair struct{ target, source string }
		best := map[pair]string{}
		for i := 0; i < n; i++ {
			f := rapid.SampledFrom(files).Draw(t, "file")
			tg := rapid.SampledFrom(targets).Draw(t, "target")
			src := rapid.SampledFrom(sources).Draw(t, "source")
			tk := tok(types.Add, f, tg, src, i+1)
			table[tk.Target] = append(table[tk.Target], tk)
			if p := (pair{tg, src}); f > best[p] {
				best[p] = f
			}
		}

		res := Resolve(table, TextKey)
		if len(res.Winners) != len(best) {
			t.Fatalf("got %d winners for %d pairs", len(res.Winners), len(best))
		}
		seen := map[pair]bool{}
		for _, w := range res.Winners {
			p := pair{w.Target.Name, w.Source.Name}
			if seen[p] {
				t.Fatalf("duplicate winner for %v", p)
			}
			seen[p] = true
			if w.Filename != best[p] {
				t.Fatalf("winner for %v from %s, want %s", p, w.Filename, best[p])
			}
		}
	})
}
