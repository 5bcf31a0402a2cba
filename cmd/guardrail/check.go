package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/guardrail/internal/config"
	"github.com/boshu2/guardrail/internal/gate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Gate one tool call read from stdin",
	Long: `Read a single PreToolUse hook request from stdin, scan the payload for
dangerous patterns, and exit 0 (allow) or 2 (block).

The report goes to stderr; stdout stays empty so the hook protocol is not
disturbed. Project-level suppressions are read from ` + config.FileName + `,
discovered upward from $CLAUDE_PROJECT_DIR (or the working directory) and
bounded at the project root.

Set GUARDRAIL_DISABLED=1 to disable enforcement without uninstalling the
hook.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheck(os.Stdin, os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck is the whole gate pipeline, split from the cobra handler so the
// exit status and report are testable without a subprocess.
func runCheck(stdin io.Reader, stderr io.Writer) int {
	if v := os.Getenv("GUARDRAIL_DISABLED"); v == "1" || v == "true" {
		return gate.StatusAllow.ExitCode()
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		// Same fail-closed stance as an unparseable request.
		fmt.Fprintln(stderr, "guardrail: could not read hook input; refusing to allow an unverified tool call")
		return gate.StatusBlock.ExitCode()
	}

	start := config.StartDir()
	suppress := config.Suppressions(start, config.ProjectRoot(start))

	res := gate.Evaluate(raw, suppress)
	res.WriteReport(stderr)
	return res.Status.ExitCode()
}
