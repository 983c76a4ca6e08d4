package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/schemas"
	"github.com/daniel/timetable-agent/internal/store"
)

var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Schema-check the consolidated course summary",
	Long:  "Validates the course summary artifact against its JSON schema and reports every violation.",
	RunE:  runValidate,
}

var (
	validateRootDir string
	validateFile    string
)

func init() {
	validateCommand.Flags().StringVarP(&validateRootDir, "root", "r", "data", "Artifact directory root")
	validateCommand.Flags().StringVarP(&validateFile, "file", "f", "", "Summary file to validate (defaults to <root>/course_summary.json)")

	rootCmd.AddCommand(validateCommand)
}

func runValidate(_ *cobra.Command, _ []string) error {
	target := validateFile
	if target == "" {
		target = store.New(validateRootDir).SummaryPath()
	}

	schemaPath := schemas.ResolveSchemaPath(schemas.SummarySchemaFile)
	if schemaPath == "" {
		return fmt.Errorf("schema file %s not found; run from the repository root", schemas.SummarySchemaFile)
	}

	if err := schemas.ValidateJSON(schemaPath, target); err != nil {
		return err
	}

	fmt.Printf("%s is valid\n", target)
	return nil
}
