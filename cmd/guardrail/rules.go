package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/guardrail/internal/detect"
	"github.com/boshu2/guardrail/internal/formatter"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the detector table",
	Long: `List every detector the gate evaluates: classification identifier,
weakness category, which tool kinds it applies to, and the remediation
guidance reported on a match.

The classification identifiers are the values accepted in the suppress
list of ` + "`.guardrail.yaml`" + `.

Examples:
  guardrail rules
  guardrail rules -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputRules(detect.Detectors)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

// ruleRow is the serializable view of a detector.
type ruleRow struct {
	ID        string `json:"id" yaml:"id"`
	Category  string `json:"category" yaml:"category"`
	AppliesTo string `json:"applies_to" yaml:"applies_to"`
	Guidance  string `json:"guidance" yaml:"guidance"`
}

func ruleRows(detectors []detect.Detector) []ruleRow {
	rows := make([]ruleRow, len(detectors))
	for i, d := range detectors {
		applies := "all"
		if d.ShellOnly {
			applies = "shell"
		}
		rows[i] = ruleRow{
			ID:        string(d.ID),
			Category:  string(d.Category),
			AppliesTo: applies,
			Guidance:  d.Message,
		}
	}
	return rows
}

func outputRules(detectors []detect.Detector) error {
	rows := ruleRows(detectors)

	switch GetOutput() {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		return enc.Encode(rows)

	default:
		t := formatter.NewTable(os.Stdout, "ID", "CATEGORY", "APPLIES", "GUIDANCE")
		t.SetMaxWidth(3, 64)
		for _, r := range rows {
			t.AddRow(r.ID, r.Category, r.AppliesTo, r.Guidance)
		}
		return t.Render()
	}
}
