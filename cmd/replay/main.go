package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/dawnfield/reflex-controller/internal/config"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/replay"
)

// #endregion imports

// #region main

func main() {
	logPath := flag.String("log", rebloomlog.DefaultPath, "path to rebloom history (jsonl)")
	configPath := flag.String("config", "", "path to reflex.yaml (thresholds for re-derivation)")
	verbose := flag.Bool("v", false, "print every turn, not just divergences")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	records, err := rebloomlog.NewReader(*logPath).Records()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read history: %v\n", err)
		os.Exit(2)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "history is empty")
		os.Exit(2)
	}

	results, summary := replay.Replay(records, cfg.SignalTable(), cfg.DecisionConfig())

	for _, r := range results {
		if r.Diverged {
			fmt.Printf("DIVERGED  %-36s %s\n", r.TaskID, r.Reason)
			continue
		}
		if *verbose {
			fmt.Printf("ok        %-36s rebloom=%v mode=%s faltering=%v\n",
				r.TaskID, r.Rebloom, r.Mode, r.Faltering)
		}
	}

	fmt.Printf("\n%d turns: %d reblooms, %d faltering, %d divergences\n",
		summary.Turns, summary.Reblooms, summary.Faltering, summary.Divergences)
	for mode, count := range summary.Modes {
		fmt.Printf("  mode %-12s %d\n", mode, count)
	}

	if summary.Divergences > 0 {
		os.Exit(1)
	}
}

// #endregion main
