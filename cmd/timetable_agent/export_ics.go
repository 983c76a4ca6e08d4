package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/calendar"
	"github.com/daniel/timetable-agent/internal/store"
	"github.com/daniel/timetable-agent/internal/types"
)

var exportICSCommand = &cobra.Command{
	Use:   "export-ics",
	Short: "Export selected courses as an iCalendar file",
	Long:  "Collects saved schedule events for the selected course codes and writes them as a single .ics file importable into any calendar app.",
	RunE:  runExportICS,
}

var (
	exportRootDir string
	exportCourses string
	exportOutFile string
)

func init() {
	exportICSCommand.Flags().StringVarP(&exportRootDir, "root", "r", "data", "Artifact directory root")
	exportICSCommand.Flags().StringVarP(&exportCourses, "courses", "c", "", "Comma-separated course codes to export (required)")
	exportICSCommand.Flags().StringVarP(&exportOutFile, "out", "o", "timetable.ics", "Output .ics file path")

	if err := exportICSCommand.MarkFlagRequired("courses"); err != nil {
		panic(fmt.Sprintf("failed to mark courses flag as required: %v", err))
	}

	rootCmd.AddCommand(exportICSCommand)
}

func runExportICS(_ *cobra.Command, _ []string) error {
	codes := splitCourseCodes(exportCourses)
	if len(codes) == 0 {
		return fmt.Errorf("no course codes found in %q", exportCourses)
	}

	st := store.New(exportRootDir)

	batchFiles, err := st.BatchFiles()
	if err != nil {
		return fmt.Errorf("failed to list schedule files: %w", err)
	}
	if len(batchFiles) == 0 {
		return fmt.Errorf("no schedule files found under %s; run fetch first", st.TimetablesDir())
	}

	var events []types.ScheduleEvent
	for _, file := range batchFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Warning: skipping unreadable file %s: %v\n", file, err)
			continue
		}
		var resp types.ScheduleResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			fmt.Printf("Warning: skipping unparsable file %s: %v\n", file, err)
			continue
		}
		events = append(events, resp.DataList...)
	}

	codeByID := map[int]string{}
	if summaryArtifact, err := st.LoadSummary(); err == nil {
		codeByID = summaryArtifact.CodeByCourseID()
	}

	cal, count := calendar.Build(events, codes, codeByID, time.Now())
	if count == 0 {
		return fmt.Errorf("no schedule events matched courses %s", strings.Join(codes, ", "))
	}

	if dir := filepath.Dir(exportOutFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutFile, []byte(cal.Serialize()), 0644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}

	fmt.Printf("Exported %d events for %d courses\n", count, len(codes))
	fmt.Printf("Output: %s\n", exportOutFile)

	return nil
}

func splitCourseCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
