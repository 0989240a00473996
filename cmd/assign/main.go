// Command assign partitions candidate names into groups from the command
// line.
//
// Usage:
//
//	go run ./cmd/assign -names "Libai, Dufu, Han Wu"
//	go run ./cmd/assign -file signups.csv -capacities 3,6,6 -seed 42
//	go run ./cmd/assign -dataset table.xlsx -file roster.pdf -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	dreamlethe "github.com/mickey530447/dream-and-lethe"
	"github.com/mickey530447/dream-and-lethe/dataset"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "", "Path to relationship table (.json, .yaml, .xlsx; default: built-in)")
		namesArg    = flag.String("names", "", "Comma-separated candidate names")
		namesFile   = flag.String("file", "", "Read candidate names from a file (.txt, .csv, .pdf)")
		capsArg     = flag.String("capacities", "", "Comma-separated group sizes (default: dataset's)")
		seed        = flag.Int64("seed", 0, "Random seed (0 = random)")
		trials      = flag.Int("trials", 0, "Construction trials (0 = scale with pool size)")
		asJSON      = flag.Bool("json", false, "Write the result as JSON")
	)
	flag.Parse()

	// Keep engine logs off the result output.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	var names []string
	if *namesFile != "" {
		fromFile, err := dataset.ReadNames(*namesFile)
		if err != nil {
			log.Fatalf("reading names file: %v", err)
		}
		names = append(names, fromFile...)
	}
	if *namesArg != "" {
		for _, name := range strings.Split(*namesArg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		log.Fatal("no candidates: pass -names or -file")
	}

	cfg := dreamlethe.DefaultConfig()
	cfg.DatasetPath = *datasetPath
	if *capsArg != "" {
		caps, err := parseCapacities(*capsArg)
		if err != nil {
			log.Fatalf("parsing capacities: %v", err)
		}
		cfg.Capacities = caps
	}

	engine, err := dreamlethe.New(cfg)
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}
	defer engine.Close()

	var opts []dreamlethe.AssignOption
	if *seed != 0 {
		opts = append(opts, dreamlethe.WithSeed(*seed))
	}
	if *trials > 0 {
		opts = append(opts, dreamlethe.WithTrials(*trials))
	}

	res, err := engine.Assign(context.Background(), names, opts...)
	if err != nil {
		log.Fatalf("assigning: %v", err)
	}

	if len(res.Unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown names skipped: %s\n", strings.Join(res.Unknown, ", "))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		return
	}
	fmt.Print(dreamlethe.Render(res))
}

// parseCapacities parses "3,6,6" into a size list.
func parseCapacities(s string) ([]int, error) {
	var caps []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		caps = append(caps, n)
	}
	return caps, nil
}
