// Package gate is the allow/block decision boundary for intercepted tool
// calls.
//
// The asymmetry encoded here is the core safety invariant of the whole
// tool: input that cannot be parsed blocks, because the gate cannot reason
// about it, while configuration problems only disable suppression and never
// weaken detection. Both behaviors live in Evaluate so they cannot drift
// apart or be inverted independently.
package gate

import (
	"fmt"
	"io"
	"strings"

	"github.com/boshu2/guardrail/internal/config"
	"github.com/boshu2/guardrail/internal/detect"
	"github.com/boshu2/guardrail/internal/hookio"
)

// Status is the gate verdict.
type Status int

const (
	StatusAllow Status = iota
	StatusBlock
)

// ExitCode maps the verdict to the process exit contract: 0 allows the
// tool call, 2 blocks it. No other codes are defined.
func (s Status) ExitCode() int {
	if s == StatusBlock {
		return 2
	}
	return 0
}

// Result carries the verdict plus everything the report needs. The verdict
// is a pure function of the kept findings (and the parse outcome); nothing
// else feeds the decision.
type Result struct {
	Status       Status
	ParseFailure bool
	Kept         []detect.Finding
	Suppressed   []detect.Finding
}

// Evaluate runs the full pipeline over one raw hook request: parse,
// extract, detect, suppress, decide.
func Evaluate(raw []byte, suppress map[detect.Classification]bool) Result {
	req, err := hookio.Parse(raw)
	if err != nil {
		// Fail closed: an unverifiable request is more dangerous than a
		// matched pattern.
		return Result{Status: StatusBlock, ParseFailure: true}
	}
	if req.Payload == "" {
		return Result{Status: StatusAllow}
	}

	findings := detect.Evaluate(req.Payload, req.Kind == hookio.KindShell)
	kept, suppressed := partition(findings, suppress)

	res := Result{Kept: kept, Suppressed: suppressed}
	if len(kept) > 0 {
		res.Status = StatusBlock
	}
	return res
}

// partition splits findings into kept and suppressed by classification
// membership. Suppression is exact and classification-scoped.
func partition(findings []detect.Finding, suppress map[detect.Classification]bool) (kept, suppressed []detect.Finding) {
	for _, f := range findings {
		if suppress[f.Classification] {
			suppressed = append(suppressed, f)
		} else {
			kept = append(kept, f)
		}
	}
	return kept, suppressed
}

// WriteReport emits the human-readable report. A clean allowed call
// produces no output at all; suppression is never silent, even when the
// call ends up allowed.
func (r Result) WriteReport(w io.Writer) {
	if r.ParseFailure {
		fmt.Fprintln(w, "guardrail: could not parse hook input; refusing to allow an unverified tool call")
		return
	}

	if r.Status == StatusBlock {
		fmt.Fprintf(w, "guardrail: blocked: %d dangerous pattern(s) detected\n", len(r.Kept))
		for _, f := range r.Kept {
			fmt.Fprintf(w, "  [%s] %s\n", f.Classification, f.Message)
		}
	}

	if len(r.Suppressed) > 0 {
		names := make([]string, len(r.Suppressed))
		for i, f := range r.Suppressed {
			names[i] = string(f.Classification)
		}
		fmt.Fprintf(w, "guardrail: %d finding(s) suppressed by %s: %s\n",
			len(r.Suppressed), config.FileName, strings.Join(names, ", "))
		fmt.Fprintln(w, "guardrail: warning: suppressed classifications are security-critical; review the suppress list")
	}
}
