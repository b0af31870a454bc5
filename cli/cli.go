// Package cli provides terminal I/O, output formatting and command dispatch
// for driving the distributor against a simulated world.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/events"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/sim"
)

// SaveExt is appended to save names.
const SaveExt = ".cidsave"

// CLI reads commands and applies them to the world and the engine.
type CLI struct {
	Engine    *engine.Engine
	World     *sim.World
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// Output is what one command produced.
type Output struct {
	Lines  []string
	System bool // status messages rather than world output
	Quit   bool
}

// New creates a CLI wired to the given engine and world.
func New(eng *engine.Engine, world *sim.World) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		World:   world,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".cid", "saves"),
	}
}

// Run prints a summary of the prepared plan, then loops: prompt, input,
// dispatch, output.
func (c *CLI) Run() {
	for _, line := range c.Banner() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		out := c.Exec(input)
		c.printOutput(out)
		if out.Quit {
			return
		}
	}
}

// Banner describes the loaded plan.
func (c *CLI) Banner() []string {
	s := c.Engine.Stats()
	return []string{
		fmt.Sprintf("Container Item Distributor: %d rules, %d entries (%d deferred), %d conflicts, %d dropped.",
			s.Rules, s.Entries, s.Deferred, s.Conflicts, s.Dropped),
		"Type help for commands.",
		"",
	}
}

// Exec runs one command line. A leading "/" is accepted and ignored.
func (c *CLI) Exec(input string) Output {
	input = strings.TrimSpace(input)
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if c.lastCmd == "" {
			return system("Nothing to repeat.")
		}
		input = c.lastCmd
	} else {
		c.lastCmd = input
	}

	parts := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(parts) == 0 {
		return Output{}
	}
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "quit", "exit":
		return Output{Lines: []string{"Goodbye."}, System: true, Quit: true}
	case "help":
		return Output{Lines: helpLines, System: true}
	case "ready":
		return c.cmdReady(arg)
	case "reset":
		return c.cmdReset(arg)
	case "show":
		return c.cmdShow(arg)
	case "refs":
		return c.cmdRefs()
	case "plan":
		return c.cmdPlan()
	case "conflicts":
		return c.cmdConflicts()
	case "stats":
		return c.cmdStats()
	case "level":
		return c.cmdLevel(arg)
	case "save":
		return c.cmdSave(arg)
	case "load":
		return c.cmdLoad(arg)
	case "trace":
		c.Trace = !c.Trace
		if c.Trace {
			return system("Trace output enabled.")
		}
		return system("Trace output disabled.")
	}
	return system(fmt.Sprintf("Unknown command: %s. Type help for available commands.", cmd))
}

var helpLines = []string{
	"World:",
	"  ready <ref>     Ready a placed container (first time fills it from its base)",
	"  reset <ref>     Restock a placed container from its base",
	"  show <name>     Show a ref or container definition",
	"  refs            List placed containers",
	"  level <n>       Set the world level (used from the next load)",
	"",
	"Distributor:",
	"  plan            List distribution entries",
	"  conflicts       List rule conflicts",
	"  stats           Show engine counters",
	"  trace           Toggle printing injected items after ready/reset",
	"",
	"System:",
	"  save [name]     Save the world (default: quicksave)",
	"  load [name]     Load a saved world (default: quicksave)",
	"  again (g)       Repeat the last command",
	"  help            Show this help",
	"  quit            Exit",
}

func (c *CLI) ref(name string) (*sim.Ref, *Output) {
	if name == "" {
		out := system("Which ref?")
		return nil, &out
	}
	r, ok := c.World.Ref(name)
	if !ok {
		out := system(fmt.Sprintf("No ref named %s.", name))
		return nil, &out
	}
	return r, nil
}

func (c *CLI) cmdReady(name string) Output {
	r, miss := c.ref(name)
	if miss != nil {
		return *miss
	}
	if err := events.Dispatch(c.Engine, c.World.Ready(r)); err != nil {
		return system(fmt.Sprintf("Ready failed: %v", err))
	}
	return c.afterEvent("Readied", r)
}

func (c *CLI) cmdReset(name string) Output {
	r, miss := c.ref(name)
	if miss != nil {
		return *miss
	}
	if err := events.Dispatch(c.Engine, c.World.Reset(r)); err != nil {
		return system(fmt.Sprintf("Reset failed: %v", err))
	}
	return c.afterEvent("Reset", r)
}

func (c *CLI) afterEvent(verb string, r *sim.Ref) Output {
	lines := []string{fmt.Sprintf("%s %s.", verb, r.Name())}
	lines = append(lines, contentLines(r.Contents())...)
	if c.Trace {
		for _, p := range c.Engine.Injected(r.FormID()) {
			lines = append(lines, fmt.Sprintf("[trace] injected %s x%d", p.Object.Name(), p.Count))
		}
	}
	return Output{Lines: lines}
}

func (c *CLI) cmdShow(name string) Output {
	if name == "" {
		return system("Show what?")
	}
	if r, ok := c.World.Ref(name); ok {
		loc := "nowhere"
		if l, ok := r.Location(); ok {
			loc = l.Name()
		}
		lines := []string{fmt.Sprintf("%s (0x%08x): %s in %s%s", r.Name(), uint32(r.FormID()),
			r.Base().Name(), loc, flags(r))}
		lines = append(lines, contentLines(r.Contents())...)
		if inj := c.Engine.Injected(r.FormID()); len(inj) > 0 {
			lines = append(lines, "Injected:")
			lines = append(lines, contentLines(inj)...)
		}
		return Output{Lines: lines}
	}
	if ct, ok := c.World.Container(name); ok {
		lines := []string{fmt.Sprintf("%s (0x%08x): container definition", ct.Name(), uint32(ct.FormID()))}
		lines = append(lines, contentLines(ct.Contents())...)
		return Output{Lines: lines}
	}
	return system(fmt.Sprintf("Nothing named %s.", name))
}

func flags(r *sim.Ref) string {
	var fs []string
	if r.Respawns() {
		fs = append(fs, "respawns")
	}
	if !r.Spawned() {
		fs = append(fs, "not readied")
	}
	if len(fs) == 0 {
		return ""
	}
	return " (" + strings.Join(fs, ", ") + ")"
}

func contentLines(entries []host.ListEntry) []string {
	if len(entries) == 0 {
		return []string{"  (empty)"}
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("  %s x%d", e.Object.Name(), e.Count)
	}
	return lines
}

func (c *CLI) cmdRefs() Output {
	var lines []string
	for _, r := range c.World.Refs() {
		lines = append(lines, fmt.Sprintf("%s: %s%s", r.Name(), r.Base().Name(), flags(r)))
	}
	if len(lines) == 0 {
		return system("No refs placed.")
	}
	return Output{Lines: lines}
}

func (c *CLI) cmdPlan() Output {
	entries := c.Engine.Plan().Entries()
	if len(entries) == 0 {
		return system("The plan is empty.")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		mark := "static  "
		if e.Deferred() {
			mark = "deferred"
		}
		lines[i] = fmt.Sprintf("%s %s", mark, e)
	}
	return Output{Lines: lines}
}

func (c *CLI) cmdConflicts() Output {
	conflicts := c.Engine.Conflicts()
	if len(conflicts) == 0 {
		return system("No conflicts.")
	}
	lines := make([]string, len(conflicts))
	for i, cf := range conflicts {
		lines[i] = cf.String()
	}
	return Output{Lines: lines}
}

func (c *CLI) cmdStats() Output {
	s := c.Engine.Stats()
	return Output{System: true, Lines: []string{
		fmt.Sprintf("Rules: %d loaded, %d dropped, %d conflicts", s.Rules, s.Dropped, s.Conflicts),
		fmt.Sprintf("Plan: %d entries, %d deferred", s.Entries, s.Deferred),
		fmt.Sprintf("Level: %d  Chance mode: %s  Rolls: %d", s.Level, s.Mode, s.Rolls),
		fmt.Sprintf("Session: %d processed, %d respawn, %d ledgered, %d stashed, %d lists",
			s.Session.Processed, s.Session.Respawn, s.Session.Ledgered, s.Session.Stashed, s.Session.Lists),
	}}
}

func (c *CLI) cmdLevel(arg string) Output {
	if arg == "" {
		return system(fmt.Sprintf("World level is %d.", c.World.Level()))
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return system(fmt.Sprintf("Bad level %q.", arg))
	}
	c.World.SetLevel(n)
	return system(fmt.Sprintf("World level set to %d.", n))
}

func (c *CLI) savePath(name string) string {
	if name == "" {
		name = "quicksave"
	}
	return filepath.Join(c.SaveDir, name+SaveExt)
}

func (c *CLI) cmdSave(name string) Output {
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		return system(fmt.Sprintf("Save failed: %v", err))
	}
	path := c.savePath(name)
	f, err := os.Create(path)
	if err != nil {
		return system(fmt.Sprintf("Save failed: %v", err))
	}
	err = c.World.Save(f, c.Engine)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return system(fmt.Sprintf("Save failed: %v", err))
	}
	return system(fmt.Sprintf("World saved to %s.", filepath.Base(path)))
}

func (c *CLI) cmdLoad(name string) Output {
	path := c.savePath(name)
	f, err := os.Open(path)
	if err != nil {
		return system(fmt.Sprintf("Load failed: %v", err))
	}
	defer f.Close()

	if err := c.World.LoadSnapshot(f, c.Engine); err != nil {
		return system(fmt.Sprintf("Load failed: %v", err))
	}
	return system(fmt.Sprintf("World loaded from %s (level %d).", filepath.Base(path), c.World.Level()))
}

func system(line string) Output {
	return Output{Lines: []string{line}, System: true}
}

func (c *CLI) printOutput(out Output) {
	for _, line := range out.Lines {
		if out.System {
			c.printSystem(line)
		} else {
			c.printLine(line)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
