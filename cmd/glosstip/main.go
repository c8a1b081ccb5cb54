// Copyright 2025 The Glosstip Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the glosstip acronym server and CLI [DBG] application.

Glosstip finds acronyms in text, attaches their glossary descriptions and
computes where the explanatory tooltip should sit on screen. It can operate as
a MessagePack IPC server for integration with editors and readers, or as a CLI
application for testing glossaries and placement by hand.

# Usage

Start the server with the builtin glossary:

	glosstip

Use a custom glossary and enable debug mode:

	glosstip -glossary terms.toml -d

Run in CLI mode for interactive testing:

	glosstip -c -min 3 -bare=false

Compile a text or TOML glossary into the binary format:

	glosstip -compile terms.tsv:terms.bin

# Glossaries

Glossary files are chosen by extension: .toml holds an [acronyms] table or
[[entry]] arrays, .txt and .tsv hold one "KEY<TAB>description" or
"KEY=description" per line, .bin and .msgpack hold compiled entries.

# Configuration

Runtime configuration is a TOML file created with defaults when missing:

	[match]
	bare_acronyms = true
	min_len = 2
	max_len = 6
	markers = ["()", "[]"]
	case_insensitive = false

	[cache]
	capacity = 256
	render_capacity = 128

	[theme]
	card_width = 320.0
	offset_dy = 6.0
	viewport_margin = 8.0

	[server]
	max_text_len = 16384
	max_suggestions = 24

	[glossary]
	path = ""

Flags given on the command line override the file for the current run.

# IPC Protocol

See package server for the request and response shapes.

# Command Line Flags

	-version  Show current version
	-d        Enable debug mode with detailed logging
	-c        Run in CLI mode instead of server mode
	-config   Path to a config file
	-glossary Glossary file, overrides [glossary] path
	-compile  Compile a glossary, given as src:dst, then exit
	-min      Minimum acronym length
	-max      Maximum acronym length
	-bare     Match bare uppercase acronyms
	-ci       Case-insensitive glossary keys
	-width    Glossary box width in CLI mode
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/glosstip/internal/cli"
	"github.com/bastiangx/glosstip/internal/logger"
	"github.com/bastiangx/glosstip/internal/utils"
	"github.com/bastiangx/glosstip/pkg/config"
	"github.com/bastiangx/glosstip/pkg/glossary"
	"github.com/bastiangx/glosstip/pkg/server"
	"github.com/bastiangx/glosstip/pkg/tokenize"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	gh      = "https://github.com/bastiangx/glosstip"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow; the server and CLI packages own the logic.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing glossaries and placement")
	configPath := flag.String("config", "", "Path to a config file")
	glossaryPath := flag.String("glossary", "", "Glossary file (.toml, .txt, .tsv, .bin)")
	compile := flag.String("compile", "", "Compile a glossary to binary, given as src:dst")
	minLen := flag.Int("min", defaults.Match.MinLen, "Minimum acronym length")
	maxLen := flag.Int("max", defaults.Match.MaxLen, "Maximum acronym length")
	bare := flag.Bool("bare", defaults.Match.BareAcronyms, "Match bare uppercase acronyms")
	caseInsensitive := flag.Bool("ci", defaults.Match.CaseInsensitive, "Case-insensitive glossary keys")
	width := flag.Int("width", 60, "Glossary box width in CLI mode (0 = unbounded)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *compile != "" {
		if err := compileGlossary(*compile); err != nil {
			log.Fatalf("Compile failed: %v", err)
		}
		return
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// explicitly set flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min":
			appConfig.Match.MinLen = *minLen
		case "max":
			appConfig.Match.MaxLen = *maxLen
		case "bare":
			appConfig.Match.BareAcronyms = *bare
		case "ci":
			appConfig.Match.CaseInsensitive = *caseInsensitive
		case "glossary":
			appConfig.Glossary.Path = *glossaryPath
		}
	})

	match, err := appConfig.MatchConfig()
	if err != nil {
		log.Fatalf("Invalid match settings: %v", err)
	}

	resolvedGlossary, err := resolveGlossary(appConfig.Glossary.Path)
	if err != nil {
		log.Fatalf("Failed to resolve glossary %q: %v", appConfig.Glossary.Path, err)
	}
	reg, err := glossary.LoadRegistry(resolvedGlossary, appConfig.Match.CaseInsensitive)
	if err != nil {
		log.Fatalf("Failed to load glossary: %v", err)
	}
	log.Debugf("Loaded %d glossary entries", reg.Len())

	tok, err := tokenize.New(reg, appConfig.Cache.Capacity)
	if err != nil {
		log.Fatalf("Failed to init tokenizer: %v", err)
	}

	// CLI is mainly used for testing and dbg purposes.
	if *cliMode {
		log.Debug("Input info:",
			"minLen", match.MinLen,
			"maxLen", match.MaxLen,
			"bare", match.EnableBareAcronyms,
			"markers", len(match.MarkerPairs))

		renderer, err := cli.NewRenderer(tok, match, appConfig.Cache.RenderCapacity, *width)
		if err != nil {
			log.Fatalf("Failed to init renderer: %v", err)
		}
		inputHandler := cli.NewInputHandler(tok, renderer, appConfig.PlacementTheme(), appConfig.Server.MaxSuggestions, os.Stdout)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv, err := server.NewServer(tok, appConfig, activePath)
	if err != nil {
		log.Fatalf("Failed to init server: %v", err)
	}

	showStartupInfo(resolvedGlossary, reg.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func resolveGlossary(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pathResolver.GetGlossaryPath(path)
}

func compileGlossary(arg string) error {
	src, dst, ok := strings.Cut(arg, ":")
	if !ok || src == "" || dst == "" {
		return fmt.Errorf("expected src:dst, got %q", arg)
	}
	n, err := glossary.Compile(src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "compiled %d entries into %s\n", n, dst)
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ Glosstip ] Acronym tooltips that stay on screen")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(glossaryPath string, entries int) {
	if glossaryPath == "" {
		glossaryPath = "builtin"
	}
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" Glosstip ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("glossary: ( %s ) %d entries", glossaryPath, entries)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
