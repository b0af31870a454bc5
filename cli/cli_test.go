package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/sim"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	w, err := sim.LoadFile("../sim/testdata/world.yaml")
	if err != nil {
		t.Fatalf("loading world: %v", err)
	}

	eng := engine.New(w, engine.Options{Seed: 1})
	files := []types.File{
		{Name: "Alpha_CID.ini", Rules: []types.Rule{
			{Target: "TreasureChest01", Value: "Gold001|5"},
			{Target: "TreasureChest01", Value: "Ruby|1@WhiterunLocation"},
		}},
		{Name: "Zeta_CID.ini", Rules: []types.Rule{
			{Target: "TreasureChest01", Value: "Gold001|10"},
		}},
	}
	if err := eng.Load(files); err != nil {
		t.Fatal(err)
	}
	if err := eng.Prepare(); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Distribute(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := &CLI{
		Engine:  eng,
		World:   w,
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}
	return c, &out
}

func TestCLI_BannerAndQuit(t *testing.T) {
	c, out := newTestCLI(t, "quit\nstats\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "3 rules, 2 entries (1 deferred), 1 conflicts") {
		t.Errorf("expected plan summary in banner, got:\n%s", output)
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye message")
	}
	if strings.Contains(output, "Session:") {
		t.Error("commands after quit should not run")
	}
}

func TestCLI_ReadyAppliesDeferredEntries(t *testing.T) {
	c, out := newTestCLI(t, "ready WhiterunChestRef\nready BarrowChestRef\nquit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Readied WhiterunChestRef.") {
		t.Errorf("expected ready confirmation, got:\n%s", output)
	}
	if !strings.Contains(output, "  Gold001 x60") {
		t.Error("expected gold from the winning rule")
	}
	if strings.Count(output, "  Ruby x1") != 1 {
		t.Errorf("expected exactly one ruby (Whiterun only), got:\n%s", output)
	}
}

func TestCLI_ShowAndRefs(t *testing.T) {
	c, _ := newTestCLI(t, "")

	out := c.Exec("show TreasureChest01")
	if len(out.Lines) < 2 || !strings.Contains(out.Lines[0], "container definition") {
		t.Errorf("show container = %v", out.Lines)
	}

	out = c.Exec("show BarrowBarrelRef")
	if !strings.Contains(out.Lines[0], "BarrelFood01 in BleakFallsBarrowLocation (respawns, not readied)") {
		t.Errorf("show ref = %v", out.Lines)
	}

	c.Exec("ready WhiterunChestRef")
	out = c.Exec("show WhiterunChestRef")
	joined := strings.Join(out.Lines, "\n")
	if !strings.Contains(joined, "Injected:\n  Ruby x1") {
		t.Errorf("expected injected section, got:\n%s", joined)
	}

	out = c.Exec("refs")
	if len(out.Lines) != 3 {
		t.Errorf("expected 3 refs, got %v", out.Lines)
	}

	out = c.Exec("show Nobody")
	if !out.System || !strings.Contains(out.Lines[0], "Nothing named Nobody") {
		t.Errorf("show unknown = %+v", out)
	}
}

func TestCLI_PlanConflictsStats(t *testing.T) {
	c, _ := newTestCLI(t, "")

	out := c.Exec("plan")
	if len(out.Lines) != 2 {
		t.Fatalf("expected 2 plan lines, got %v", out.Lines)
	}
	deferred := 0
	for _, l := range out.Lines {
		if strings.HasPrefix(l, "deferred") {
			deferred++
		}
	}
	if deferred != 1 {
		t.Errorf("expected 1 deferred entry, got %v", out.Lines)
	}

	out = c.Exec("conflicts")
	if len(out.Lines) != 1 || !strings.Contains(out.Lines[0], "Zeta_CID.ini") {
		t.Errorf("conflicts = %v", out.Lines)
	}

	out = c.Exec("/stats")
	if !out.System || !strings.Contains(strings.Join(out.Lines, "\n"), "Chance mode: per_entry") {
		t.Errorf("stats = %v", out.Lines)
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	c, _ := newTestCLI(t, "")
	c.Exec("ready WhiterunChestRef")

	if out := c.Exec("save slot1"); !strings.Contains(out.Lines[0], "World saved to slot1"+SaveExt) {
		t.Fatalf("save = %v", out.Lines)
	}
	if out := c.Exec("load slot1"); !strings.Contains(out.Lines[0], "World loaded") {
		t.Fatalf("load = %v", out.Lines)
	}

	// The save held no injected items; readying again puts them back once.
	out := c.Exec("ready WhiterunChestRef")
	joined := strings.Join(out.Lines, "\n")
	if !strings.Contains(joined, "Gold001 x60") || !strings.Contains(joined, "Ruby x1") {
		t.Errorf("after load:\n%s", joined)
	}

	if out := c.Exec("load missing"); !strings.HasPrefix(out.Lines[0], "Load failed") {
		t.Errorf("load missing = %v", out.Lines)
	}
}

func TestCLI_Again(t *testing.T) {
	c, _ := newTestCLI(t, "")

	if out := c.Exec("g"); out.Lines[0] != "Nothing to repeat." {
		t.Errorf("again with no history = %v", out.Lines)
	}
	first := c.Exec("refs")
	again := c.Exec("again")
	if strings.Join(first.Lines, "\n") != strings.Join(again.Lines, "\n") {
		t.Errorf("again = %v, want %v", again.Lines, first.Lines)
	}
}

func TestCLI_ScriptMode(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\n\nlevel 12\nlevel\nbogus\nquit\n")
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comments should be skipped")
	}
	if !strings.Contains(output, "> level 12\n[World level set to 12.]") {
		t.Errorf("expected echoed input, got:\n%s", output)
	}
	if !strings.Contains(output, "[World level is 12.]") {
		t.Error("expected level query")
	}
	if !strings.Contains(output, "Unknown command: bogus") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_Trace(t *testing.T) {
	c, _ := newTestCLI(t, "")
	c.Exec("trace")
	out := c.Exec("ready WhiterunChestRef")
	if !strings.Contains(strings.Join(out.Lines, "\n"), "[trace] injected Ruby x1") {
		t.Errorf("expected trace lines, got %v", out.Lines)
	}
}
