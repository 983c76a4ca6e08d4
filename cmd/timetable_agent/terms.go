package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/portal"
	"github.com/daniel/timetable-agent/internal/terms"
)

var termsCommand = &cobra.Command{
	Use:   "terms",
	Short: "List published terms",
	Long:  "Fetches the published term list from the portal and prints the terms that are current or upcoming. Use --all to include terms that have already ended.",
	RunE:  runTerms,
}

var (
	termsToken   string
	termsBaseURL string
	termsTimeout int
	termsAll     bool
)

func init() {
	termsCommand.Flags().StringVar(&termsToken, "token", "", "Portal bearer token (optional, defaults to PORTAL_TOKEN env var)")
	termsCommand.Flags().StringVar(&termsBaseURL, "base-url", "", "Portal base URL")
	termsCommand.Flags().IntVar(&termsTimeout, "timeout", 0, "HTTP timeout in seconds")
	termsCommand.Flags().BoolVar(&termsAll, "all", false, "Include terms that have already ended")

	rootCmd.AddCommand(termsCommand)
}

func runTerms(_ *cobra.Command, _ []string) error {
	token := termsToken
	if token == "" {
		token = os.Getenv("PORTAL_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("PORTAL_TOKEN environment variable or --token flag is required")
	}

	client := portal.NewClient(token, &portal.Options{
		BaseURL: termsBaseURL,
		Timeout: time.Duration(termsTimeout) * time.Second,
	})

	resp, _, err := client.PublishedTerms(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch published terms: %w", err)
	}

	now := time.Now()
	shown := 0
	for _, entry := range resp.DataList {
		term := entry.Term()
		current := terms.IsCurrentOrFuture(term.Name, now)
		if !current && !termsAll {
			continue
		}
		marker := " "
		if current {
			marker = "*"
		}
		fmt.Printf("%s %6d  %-8s %s\n", marker, term.ID, term.Code, term.Name)
		shown++
	}

	if shown == 0 {
		fmt.Println("No published terms found.")
		return nil
	}
	fmt.Printf("\n%d terms (* = current or upcoming)\n", shown)

	return nil
}
