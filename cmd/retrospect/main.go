package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"retrospect/internal/inspect"
	"retrospect/internal/snapshot"
	"retrospect/internal/transparency"
)

var (
	// Global flags
	verbose bool

	// explain flags
	ruleFilters []string
	jsonOut     bool
	colorOut    bool

	// Logger
	logger *zap.Logger
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// log returns the configured logger, or a nop logger before setup.
func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "retrospect",
	Short: "Provenance inspector for Rete rule sessions",
	Long: `retrospect reconstructs provenance from rule engine session dumps.

For each rule or query match it answers "which facts, through which
conditions and bindings, caused this?", and for each fact a rule
inserted, "which match justified inserting it?".

The engine itself stays external: retrospect reads one static snapshot
per invocation (network node table, compiled rules and queries, working
memory) and never mutates it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// explainCmd inspects one or more session dumps and prints explanations
var explainCmd = &cobra.Command{
	Use:   "explain [snapshot.yaml...]",
	Short: "Explain why rules and queries matched in session snapshots",
	Long: `Loads each session snapshot, reconstructs rule and query provenance,
and prints a readable trace per snapshot.

Distinct snapshots are independent, so multiple files are inspected
concurrently; output order follows the argument order.

Example:
  retrospect explain session.yaml --rule temperature-alert`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()
	log().Info("starting inspection run",
		zap.String("run_id", runID),
		zap.Int("snapshots", len(args)))

	reports := make([]string, len(args))
	g, _ := errgroup.WithContext(cmd.Context())
	for i, path := range args {
		g.Go(func() error {
			report, err := explainOne(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, report := range reports {
		if len(args) > 1 {
			header := fmt.Sprintf("== %s ==", args[i])
			if colorOut {
				header = headerStyle.Render(header)
			}
			fmt.Println(header)
		}
		fmt.Print(report)
	}

	log().Debug("inspection run complete", zap.String("run_id", runID))
	return nil
}

func explainOne(path string) (string, error) {
	sess, err := snapshot.Load(path)
	if err != nil {
		return "", err
	}

	snap, err := inspect.Inspect(sess)
	if err != nil {
		return "", err
	}
	log().Debug("session inspected",
		zap.String("snapshot", path),
		zap.Int("rules", len(snap.Rules)),
		zap.Int("queries", len(snap.Queries)),
		zap.Int("conditions", len(snap.ConditionMatches)))

	if jsonOut {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}

	renderer := transparency.NewRenderer()
	if len(ruleFilters) > 0 {
		allowed := make(map[string]bool, len(ruleFilters))
		for _, name := range ruleFilters {
			allowed[name] = true
		}
		renderer.SetRuleFilter(func(identity string) bool { return allowed[identity] })
	}
	return renderer.ExplainSession(snap), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	explainCmd.Flags().StringArrayVar(&ruleFilters, "rule", nil, "restrict output to the named rules/queries (repeatable)")
	explainCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full inspection result as JSON")
	explainCmd.Flags().BoolVar(&colorOut, "color", false, "style per-snapshot headers")
	rootCmd.AddCommand(explainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
