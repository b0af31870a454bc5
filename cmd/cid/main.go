// Cid loads container distribution rules and runs them against a simulated
// world.
// Usage: cid [--version] [--settings <file>] [--data <dir>] [--plain] [--script <file>] [--trace] <world.yaml>
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/cli"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/config"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/loader"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/sim"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: cid [--version] [--settings <file>] [--data <dir>] [--plain] [--script <file>] [--trace] <world.yaml>"

func main() {
	plain := false
	trace := false
	settingsFile := "cid.yaml"
	var worldFile, dataDir, scriptFile string

	args := os.Args[1:]
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fatalf("%s requires a value\n", flag)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("cid %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--settings":
			settingsFile = value(&i, "--settings")
		case "--data":
			dataDir = value(&i, "--data")
		case "--script":
			scriptFile = value(&i, "--script")
		default:
			if worldFile == "" {
				worldFile = args[i]
			}
		}
	}
	if worldFile == "" {
		fatalf("%s\n", usage)
	}

	settings, err := config.Load(settingsFile)
	if err != nil {
		fatalf("Error loading settings: %v\n", err)
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}

	useTUI := scriptFile == "" && !plain && isTerminal()
	logOut := io.Writer(os.Stderr)
	if useTUI {
		// The TUI owns the terminal.
		f, err := os.OpenFile("cid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatalf("Error opening log file: %v\n", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(settings.Logger(logOut))

	eng, world, err := setup(settings, worldFile)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	c := cli.New(eng, world)
	c.Trace = trace

	// Script mode: read commands from the file and echo them.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatalf("Error opening script: %v\n", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	if !useTUI {
		c.Run()
		return
	}
	if err := tui.Run(c); err != nil {
		fatalf("Error: %v\n", err)
	}
}

// setup loads the world and the rule files, then runs both distributor
// phases. A missing data directory is fatal.
func setup(s config.Settings, worldFile string) (*engine.Engine, *sim.World, error) {
	world, err := sim.LoadFile(worldFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading world: %w", err)
	}
	files, err := loader.Load(s.DataDir)
	if err != nil {
		return nil, nil, err
	}

	mode, err := s.Mode()
	if err != nil {
		return nil, nil, err
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	slog.Debug("engine options", "mode", mode, "seed", seed)

	eng := engine.New(world, engine.Options{Mode: mode, Seed: seed})
	if err := eng.Load(files); err != nil {
		return nil, nil, err
	}
	if err := eng.Prepare(); err != nil {
		return nil, nil, err
	}
	if _, err := eng.Distribute(); err != nil {
		return nil, nil, err
	}
	return eng, world, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
