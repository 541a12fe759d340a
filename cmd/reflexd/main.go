package main

// #region imports
import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dawnfield/reflex-controller/internal/config"
	"github.com/dawnfield/reflex-controller/internal/input"
	"github.com/dawnfield/reflex-controller/internal/pipeline"
	"github.com/dawnfield/reflex-controller/internal/rebloomlog"
	"github.com/dawnfield/reflex-controller/internal/sigil"
)

// #endregion imports

// #region snapshot

// snapshot is one metric reading fed to the pipeline, one JSON object per
// input line. Unset drift is computed by the input layer's drift detector.
type snapshot struct {
	TaskID   string   `json:"task_id"`
	Mood     string   `json:"mood"`
	Drift    *float32 `json:"drift_score"`
	Heat     float32  `json:"heat"`
	Entropy  float32  `json:"entropy"`
	Sigil    string   `json:"sigil"`
	Prompt   string   `json:"prompt"`
	Response string   `json:"response"`
}

// #endregion snapshot

// #region log-router

// logRouter satisfies the task router contract by printing re-loop calls.
// Stand-in for the external router the surrounding system injects.
type logRouter struct{}

func (logRouter) ReloopTask(taskID, mode string, meta map[string]any) error {
	log.Printf("[ROUTER] reloop task=%s mode=%s meta=%v", taskID, mode, meta)
	return nil
}

// #endregion log-router

// #region main

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("REFLEX_CONFIG", ""), "path to reflex.yaml")
	logPath := flag.String("log", envOr("REFLEX_LOG", ""), "override history log path")
	dbPath := flag.String("db", envOr("REFLEX_REGISTRY_DB", ""), "override sigil registry db path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}
	if *dbPath != "" {
		cfg.RegistryPath = *dbPath
	}

	writer, err := rebloomlog.NewWriter(cfg.LogPath)
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer writer.Close()

	registry, err := sigil.NewStore(cfg.RegistryPath)
	if err != nil {
		log.Fatalf("open registry: %v", err)
	}
	defer registry.Close()

	pipe, err := pipeline.New(pipeline.Options{
		Mood:           input.NewHeuristicMood(),
		Drift:          input.NewWindowDrift(cfg.DriftWindowSize),
		Auditor:        input.NewStructAudit(cfg.AuditMaxGaps),
		SignalTable:    cfg.SignalTable(),
		DecisionConfig: cfg.DecisionConfig(),
		Writer:         writer,
		Registry:       registry,
	})
	if err != nil {
		log.Fatalf("wire pipeline: %v", err)
	}

	fmt.Println("Reflex controller ready.")
	fmt.Printf("  history: %s | registry: %s\n", writer.Path(), cfg.RegistryPath)
	fmt.Println("Feed one JSON snapshot per line (or 'quit'):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if err := processLine(pipe, line); err != nil {
			log.Printf("[REFLEXD] %v", err)
		}
	}
}

// #endregion main

// #region process-line

func processLine(pipe *pipeline.Pipeline, line string) error {
	var snap snapshot
	if err := json.Unmarshal([]byte(line), &snap); err != nil {
		return fmt.Errorf("bad snapshot: %w", err)
	}

	drift := input.UnsetScore
	if snap.Drift != nil {
		drift = *snap.Drift
	}

	s := pipeline.NewState(pipeline.StateParams{
		Mood:       snap.Mood,
		DriftScore: drift,
		Heat:       snap.Heat,
		Entropy:    snap.Entropy,
		Sigil:      snap.Sigil,
		TaskID:     snap.TaskID,
		Router:     logRouter{},
		Extra: map[string]any{
			"prompt":   snap.Prompt,
			"response": snap.Response,
		},
	})

	s, err := pipe.Process(s)
	if err != nil {
		return fmt.Errorf("reflex processing failed: %w", err)
	}

	d := s.Decision
	fmt.Printf("task=%s rebloom=%v mode=%s faltering=%v\n", s.TaskID, d.ShouldRebloom, d.Mode, d.Faltering)
	for _, flag := range d.Flags {
		fmt.Printf("  flag: %s\n", flag)
	}
	return nil
}

// #endregion process-line

// #region env

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion env
