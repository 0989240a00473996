package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	dreamlethe "github.com/mickey530447/dream-and-lethe"
	"github.com/mickey530447/dream-and-lethe/roster"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	tmpDir, _ := os.MkdirTemp("", "dreamlethe-e2e-*")
	defer os.RemoveAll(tmpDir)

	engine, err := dreamlethe.New(dreamlethe.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	store, err := roster.New(tmpDir + "/rosters.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening roster store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Build a roster through the store, resolving spellings the way the
	// server does before storing.
	const user = "e2e"
	fmt.Fprintln(os.Stderr, "\n=== BUILDING ROSTER ===")
	spellings := []string{
		"libai", "DUFU", "yuhuan", "longji", "jianli", "jingke",
		"imperial", "hanfei", "han wu", "weiqing", "qubing", "shimin",
	}
	for _, raw := range spellings {
		name, ok := engine.Resolve(raw)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown name %q\n", raw)
			os.Exit(1)
		}
		if err := store.Add(ctx, user, name); err != nil {
			fmt.Fprintf(os.Stderr, "adding %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	names, err := store.List(ctx, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listing roster: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Roster holds %d names\n", len(names))

	fmt.Fprintln(os.Stderr, "\n=== ASSIGNING ===")
	res, err := engine.Assign(ctx, names, dreamlethe.WithSeed(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assign error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(dreamlethe.Render(res))

	stats, err := engine.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nRegistry: %d names, %d edges, %d runs\n",
		stats.Names, stats.Edges, stats.Assigns)
}
