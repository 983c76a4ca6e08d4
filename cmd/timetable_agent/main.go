// Package main provides the entry point for the campus timetable CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timetable_agent",
	Short: "Campus timetable fetcher and analyzer",
	Long:  "timetable_agent downloads published class timetables from the campus portal, persists them as JSON artifacts, and derives summaries, schedule charts and calendar exports from the saved data.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
