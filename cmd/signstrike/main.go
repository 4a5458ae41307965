// Signstrike is a vocabulary-driven arcade shooter: every enemy carries a
// word, and signing (typing) that word destroys it.
// Usage: signstrike [--version] [--cli] [--script <file>] [--trace] [--config <file>] <game_directory>
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/signstrike/cli"
	"github.com/nathoo/signstrike/config"
	"github.com/nathoo/signstrike/engine"
	"github.com/nathoo/signstrike/loader"
	"github.com/nathoo/signstrike/logging"
	"github.com/nathoo/signstrike/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: signstrike [--version] [--cli] [--script <file>] [--trace] [--config <file>] <game_directory>"

func main() {
	plain := false
	trace := false
	var gameDir, scriptFile, configFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("signstrike %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--cli", "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				configFile = args[i+1]
			}
			i++
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(config.Path(configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	useTUI := scriptFile == "" && !plain && isTerminal()

	// The TUI owns the screen, so its logs go to a file.
	var sinks []string
	if useTUI {
		sinks = append(sinks, filepath.Join(os.TempDir(), "signstrike.log"))
	}
	log, err := logging.New(cfg.Logging, sinks...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, gameDir, scriptFile, trace, useTUI); err != nil {
		log.Error("signstrike exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger, gameDir, scriptFile string, trace, useTUI bool) error {
	defs, err := loader.Load(gameDir, log)
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("game loaded",
		zap.String("title", defs.Game.Title),
		zap.Int("scenes", len(defs.Scenes)),
		zap.Int64("seed", seed),
	)

	eng := engine.New(defs, engine.Options{
		Seed:   seed,
		Strict: cfg.Engine.Strict,
		Logger: log,
	})

	if useTUI {
		return tui.Run(eng, defs, cfg.TUI.TickRate)
	}

	fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
	c := cli.New(eng, defs)
	c.Trace = trace
	c.StepsPerLine = cfg.Engine.StepsPerLine

	// Script mode: read guesses from a file and echo them.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	return c.Run()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
