package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/sigil"
)

// #endregion imports

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sigil registry db")
	logPath := flag.String("log", "", "path to rebloom history (jsonl)")
	last := flag.Int("last", 10, "show N most recent history records")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" && *logPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db sigil_registry.db [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --log logs/rebloom/rebloom_history.jsonl [--last N] [--json]")
		os.Exit(2)
	}

	if *dbPath != "" {
		if err := showRegistry(*dbPath, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *logPath != "" {
		if err := showHistory(*logPath, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region registry

func showRegistry(dbPath string, jsonOut bool) error {
	store, err := sigil.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	fmt.Printf("%d registered sigils\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %-24s %-40s [%s]\n", e.Symbol, e.Definition, strings.Join(e.Tags, ", "))
	}
	return nil
}

// #endregion registry

// #region history

func showHistory(logPath string, last int, jsonOut bool) error {
	reader := rebloomlog.NewReader(logPath)
	all, err := reader.Records()
	if err != nil {
		return err
	}

	reblooms, faltering := 0, 0
	for _, rec := range all {
		if rec.ShouldRebloom {
			reblooms++
		}
		if rec.Faltering {
			faltering++
		}
	}

	tail, err := reader.Tail(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(tail)
	}

	fmt.Printf("%d records: %d reblooms, %d faltering\n", len(all), reblooms, faltering)
	for _, rec := range tail {
		fmt.Printf("  %s  %-36s rebloom=%-5v mode=%-10s drift=%.2f flags=%d\n",
			rec.Timestamp, rec.TaskID, rec.ShouldRebloom, rec.Mode, rec.DriftScore, len(rec.Flags))
	}
	return nil
}

// #endregion history
