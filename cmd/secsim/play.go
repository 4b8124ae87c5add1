package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/secsim/internal/daemon"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/httpapi"
	"github.com/eliteGoblin/focusd/secsim/internal/infra"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

var playCmd = &cobra.Command{
	Use:   "play <script.json|->",
	Short: "Replay a script of actions",
	Long: `Reads a JSON array of action envelopes and applies them in order to a fresh
session, printing the score after each one. Background simulators do not run:
the script must carry scan progress and update steps itself.

If the script evaluates the session, the report is sent to the configured sink.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var scoreCmd = &cobra.Command{
	Use:   "score [script.json|-]",
	Short: "Show the live score and rubric for a script",
	Long:  `Replays an optional script quietly and prints the live score and the rubric breakdown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

var (
	playStep  time.Duration
	playState bool
)

func init() {
	playCmd.Flags().DurationVar(&playStep, "step", time.Second, "Simulated time between actions")
	playCmd.Flags().BoolVar(&playState, "state", false, "Print the final state as JSON")
}

// readScript loads and decodes a script from path, or stdin for "-".
func readScript(path string) ([]usecase.Action, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	actions, err := httpapi.NewDecoder(profile.NewRegistry()).DecodeScript(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	return actions, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	actions, err := readScript(args[0])
	if err != nil {
		return err
	}

	logger := createCLILogger()
	defer func() { _ = logger.Sync() }()

	sink, closeSink, err := infra.OpenSink(cfg.SinkOptions(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeSink() }()

	clock := clockwork.NewFakeClockAt(time.Now())
	emitter := daemon.NewReportEmitter(sink, uuid.NewString(), cfg.SupervisorConfig().ReportTimeout, clock, logger)

	state := domain.NewState(cfg.Settings())
	for i, a := range actions {
		next := usecase.Reduce(state, a, clock.Now())
		emitter.Observe(state, next)
		state = next
		fmt.Printf("%3d  %-26s score %3d\n", i+1, a.Kind(), usecase.SecurityScore(state))
		clock.Advance(playStep)
	}
	emitter.Wait()

	if playState {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	printOutcome(state)
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state := domain.NewState(cfg.Settings())
	if len(args) == 1 {
		actions, err := readScript(args[0])
		if err != nil {
			return err
		}
		now := time.Now()
		for _, a := range actions {
			state = usecase.Reduce(state, a, now)
		}
	}

	fmt.Printf("Security score: %d/%d\n", usecase.SecurityScore(state), usecase.MaxScore)

	res := usecase.EvaluateRubric(state)
	fmt.Printf("\nRubric: %d/%d (%d of %d tasks)\n", res.Score, res.MaxScore, res.TasksCompleted, res.TotalTasks)
	for _, d := range res.Details {
		mark := " "
		if d.Achieved {
			mark = "x"
		}
		fmt.Printf("  [%s] %-45s %3d\n", mark, d.Text, d.Points)
	}
	return nil
}

func printOutcome(s domain.State) {
	fmt.Println("\n=== Session ===")
	fmt.Printf("Security score: %d/%d\n", usecase.SecurityScore(s), usecase.MaxScore)

	ids := s.Achievements.IDs()
	fmt.Printf("Achievements: %d/%d\n", len(ids), len(domain.Catalog()))
	for _, id := range ids {
		info, _ := id.Info()
		fmt.Printf("  - %s\n", info.Name)
	}

	if s.Evaluation != nil {
		fmt.Printf("\nEvaluation: %d/%d\n", s.Evaluation.Score, s.Evaluation.MaxScore)
		fmt.Println(usecase.Summary(*s.Evaluation))
	}
	fmt.Println("===============")
}
