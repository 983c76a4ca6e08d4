package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/config"
	"github.com/daniel/timetable-agent/internal/observability"
	"github.com/daniel/timetable-agent/internal/pipeline"
	"github.com/daniel/timetable-agent/internal/portal"
	"github.com/daniel/timetable-agent/internal/schemas"
	"github.com/daniel/timetable-agent/internal/store"
)

var fetchCommand = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch course lists and class schedules for current and upcoming terms",
	Long: `Fetches the published term list from the portal, keeps terms that are current or upcoming, and for each one downloads the course list and batched class schedules into the artifact directory.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runFetch,
}

var (
	fetchConfigPath   string
	fetchRootDir      string
	fetchToken        string
	fetchBaseURL      string
	fetchTerms        string
	fetchAllTerms     bool
	fetchBatchSize    int
	fetchBatchDelayMS int
	fetchTimeout      int
	fetchVerbose      bool
)

func init() {
	// Config file flag (processed first)
	fetchCommand.Flags().StringVar(&fetchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	fetchCommand.Flags().StringVarP(&fetchRootDir, "root", "r", "", "Artifact directory root")
	fetchCommand.Flags().StringVar(&fetchToken, "token", "", "Portal bearer token (optional, defaults to PORTAL_TOKEN env var)")
	fetchCommand.Flags().StringVar(&fetchBaseURL, "base-url", "", "Portal base URL")
	fetchCommand.Flags().StringVarP(&fetchTerms, "terms", "t", "", "Comma-separated term IDs to fetch (mutually exclusive with --all-terms)")
	fetchCommand.Flags().BoolVar(&fetchAllTerms, "all-terms", false, "Fetch every current and upcoming term (mutually exclusive with --terms)")
	fetchCommand.Flags().IntVar(&fetchBatchSize, "batch-size", 0, "Courses per schedule request")
	fetchCommand.Flags().IntVar(&fetchBatchDelayMS, "batch-delay-ms", 0, "Pause between schedule batches in milliseconds")
	fetchCommand.Flags().IntVar(&fetchTimeout, "timeout", 0, "HTTP timeout in seconds")
	fetchCommand.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(fetchCommand)
}

// parseTermIDs extracts numeric term IDs from a comma-separated list.
// Non-numeric entries are ignored rather than rejected, matching the
// forgiving way term pickers paste IDs with stray whitespace or labels.
func parseTermIDs(s string) []int {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if fetchConfigPath != "" {
		loadedCfg, err := config.Load(fetchConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if fetchVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", fetchConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("root") {
		cfg.RootDir = fetchRootDir
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = fetchToken
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = fetchBaseURL
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = fetchBatchSize
	}
	if cmd.Flags().Changed("batch-delay-ms") {
		cfg.BatchDelayMS = fetchBatchDelayMS
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = fetchTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = fetchVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Validate required fields
	if fetchTerms != "" && fetchAllTerms {
		return fmt.Errorf("--terms and --all-terms are mutually exclusive; provide only one")
	}
	if fetchTerms == "" && !fetchAllTerms {
		return fmt.Errorf("either --terms or --all-terms must be provided")
	}

	var termIDs []int
	if fetchTerms != "" {
		termIDs = parseTermIDs(fetchTerms)
		if len(termIDs) == 0 {
			return fmt.Errorf("no numeric term IDs found in %q", fetchTerms)
		}
	}

	// Step 5: Token handling
	if cfg.Token == "" {
		cfg.Token = os.Getenv("PORTAL_TOKEN")
	}
	if cfg.Token == "" {
		return fmt.Errorf("PORTAL_TOKEN environment variable or --token flag is required")
	}

	client := portal.NewClient(cfg.Token, &portal.Options{
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	stats, err := pipeline.Run(ctx, pipeline.RunOptions{
		Client:     client,
		Store:      store.New(cfg.RootDir),
		TermIDs:    termIDs,
		BatchSize:  cfg.BatchSize,
		BatchDelay: time.Duration(cfg.BatchDelayMS) * time.Millisecond,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return err
	}

	validateSummaryArtifact(stats.SummaryPath)

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintRunStats(stats)
	}

	return nil
}

// validateSummaryArtifact schema-checks a freshly written summary file.
// Failures only warn; the artifacts on disk are already complete.
func validateSummaryArtifact(summaryPath string) {
	if summaryPath == "" {
		return
	}
	schemaPath := schemas.ResolveSchemaPath(schemas.SummarySchemaFile)
	if schemaPath == "" {
		return
	}
	if err := schemas.ValidateJSON(schemaPath, summaryPath); err != nil {
		fmt.Printf("Warning: summary failed schema validation: %v\n", err)
	}
}
