package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/observability"
	"github.com/daniel/timetable-agent/internal/store"
	"github.com/daniel/timetable-agent/internal/summary"
)

var summarizeCommand = &cobra.Command{
	Use:   "summarize",
	Short: "Rebuild the consolidated course summary from saved captures",
	Long:  "Discovers terms from the artifact directory layout, reads the latest course capture for each, and rewrites the consolidated course summary. No portal access is needed.",
	RunE:  runSummarize,
}

var (
	summarizeRootDir string
	summarizeVerbose bool
)

func init() {
	summarizeCommand.Flags().StringVarP(&summarizeRootDir, "root", "r", "data", "Artifact directory root")
	summarizeCommand.Flags().BoolVarP(&summarizeVerbose, "verbose", "v", false, "Print summary details")

	rootCmd.AddCommand(summarizeCommand)
}

func runSummarize(_ *cobra.Command, _ []string) error {
	st := store.New(summarizeRootDir)

	termList, err := st.Terms()
	if err != nil {
		return fmt.Errorf("failed to discover terms under %s: %w", summarizeRootDir, err)
	}
	if len(termList) == 0 {
		return fmt.Errorf("no term directories found under %s; run fetch first", st.TimetablesDir())
	}

	artifact, path, err := summary.BuildAndWrite(termList, st)
	if err != nil {
		return fmt.Errorf("failed to build course summary: %w", err)
	}

	fmt.Printf("Course summary saved to %s (%d courses, %d unique codes)\n",
		path, artifact.TotalCourses, artifact.UniqueCourses)

	validateSummaryArtifact(path)

	if summarizeVerbose {
		observability.NewPrinter(os.Stdout).PrintSummary(artifact)
	}

	return nil
}
