package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	output  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "guardrail",
	Short: "Policy gate for agent tool calls",
	Long: `guardrail inspects content about to be written to disk or executed as a
shell command and blocks known-dangerous code patterns.

It runs as a Claude Code PreToolUse hook: the host pipes one tool call as
JSON on stdin, and the exit status decides the call (0 allow, 2 block).

Core Commands:
  check    Gate one tool call from stdin (the hook entrypoint)
  rules    List the detector table
  scan     Scan files or directories (advisory)
  watch    Rescan on file changes (advisory)
  hooks    Install the PreToolUse hook
  version  Show version information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
}

// GetVerbose returns the verbose flag value for use by subcommands.
func GetVerbose() bool {
	return verbose
}

// GetOutput returns the output format for use by subcommands.
func GetOutput() string {
	return output
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}
