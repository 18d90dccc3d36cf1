// Package main is the longmode command, a headless probe for the long-line
// decision engine. It reports, for each file argument, whether an editor
// embedding the engine would replace the syntax-aware mode with the minimal
// fallback mode.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/longmode/internal/config"
	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/localvar"
	"github.com/dshills/longmode/internal/log"
	"github.com/dshills/longmode/internal/mode"
	"github.com/dshills/longmode/internal/override"
	"github.com/dshills/longmode/internal/scan"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// extModes maps file extensions to the mode a host would select.
var extModes = map[string]mode.ID{
	".go":   "go",
	".c":    "c",
	".h":    "c",
	".js":   "javascript",
	".json": "json",
	".py":   "python",
	".rs":   "rust",
	".html": "html",
	".css":  "css",
	".scss": "scss",
	".less": "less",
	".md":   "markdown",
	".txt":  "text",
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		threshold   int
		maxLines    int
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.IntVar(&threshold, "threshold", 0, "Override the maximum permitted line length")
	flag.IntVar(&maxLines, "max-lines", 0, "Override the number of lines checked")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("longmode %s (%s)\n", version, commit)
		return 0
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: longmode [flags] <file>...")
		flag.PrintDefaults()
		return 2
	}

	settings := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		settings = loaded
	}
	if threshold > 0 {
		settings.Threshold = threshold
	}
	if maxLines > 0 {
		settings.MaxLinesChecked = maxLines
	}

	cfg, err := config.NewFromSettings(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logCfg := log.DefaultConfig()
	if verbose {
		logCfg.Level = log.LevelDebug
	} else {
		logCfg.Level = log.LevelError
	}
	logger := log.New(logCfg)

	host := mode.NewMapHost("text")
	ctrl := override.New(cfg, host, override.WithLogger(logger))
	ctrl.Enable()

	triggered := false
	for _, path := range flag.Args() {
		over, err := probe(ctrl, host, cfg, path, verbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			return 2
		}
		if over {
			triggered = true
		}
	}

	if triggered {
		return 1
	}
	return 0
}

// probe runs one decision pass for a file and prints the outcome.
func probe(ctrl *override.Controller, host *mode.MapHost, cfg *config.Config, path string, verbose bool) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf, err := buffer.NewFromReader(f, buffer.WithName(path))
	if err != nil {
		return false, err
	}

	if id, ok := extModes[strings.ToLower(filepath.Ext(path))]; ok {
		host.SetSelected(buf, id)
	}

	final := ctrl.SelectMode(buf)
	sess := ctrl.Session(buf)
	snap := cfg.Snapshot()

	switch sess.LastState {
	case override.Overridden:
		res := scan.DetectResult(buf, snap.MaxLinesChecked, snap.Threshold)
		fmt.Printf("%s: %s -> %s (line %d is %d runes, threshold %d)\n",
			path, sess.OriginalMode, final, res.Line+1, res.Length, snap.Threshold)
		return true, nil
	case override.Inhibited:
		fmt.Printf("%s: %s (declared %v, override inhibited)\n", path, final, sess.Inhibited)
	default:
		if verbose {
			fmt.Printf("%s: %s (no long line in first %d lines)\n",
				path, final, snap.MaxLinesChecked)
			if modes := localvar.HeaderModes(buf); len(modes) > 0 {
				fmt.Printf("%s: header declares %v\n", path, modes)
			}
		}
	}
	return false, nil
}
