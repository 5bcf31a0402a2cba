package gate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/boshu2/guardrail/internal/detect"
)

func noSuppress() map[detect.Classification]bool {
	return map[detect.Classification]bool{}
}

// TestBlocksHardcodedSecretWrite covers the canonical block: a file write
// carrying a credential assignment.
func TestBlocksHardcodedSecretWrite(t *testing.T) {
	raw := []byte(`{"tool_name":"Write","tool_input":{"file_path":"app.py","content":"password = \"supersecretpassword123\""}}`)
	res := Evaluate(raw, noSuppress())

	if res.Status != StatusBlock {
		t.Fatalf("Status = %v, want block", res.Status)
	}
	if res.Status.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", res.Status.ExitCode())
	}

	var buf bytes.Buffer
	res.WriteReport(&buf)
	if !strings.Contains(buf.String(), "hardcoded-secret") {
		t.Errorf("report missing classification:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "blocked") {
		t.Errorf("report missing block notice:\n%s", buf.String())
	}
}

// TestAllowsCleanWriteSilently checks that an allowed clean call produces
// exit 0 and an empty report.
func TestAllowsCleanWriteSilently(t *testing.T) {
	raw := []byte(`{"tool_name":"Write","tool_input":{"file_path":"main.js","content":"const x = 1 + 2;"}}`)
	res := Evaluate(raw, noSuppress())

	if res.Status != StatusAllow {
		t.Fatalf("Status = %v, want allow", res.Status)
	}
	if res.Status.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", res.Status.ExitCode())
	}

	var buf bytes.Buffer
	res.WriteReport(&buf)
	if buf.Len() != 0 {
		t.Errorf("report for clean allow should be empty, got:\n%s", buf.String())
	}
}

func TestBlocksObfuscatedShellCommand(t *testing.T) {
	raw := []byte(`{"tool_name":"Bash","tool_input":{"command":"echo cGF5bG9hZAo= | base64 --decode | bash"}}`)
	res := Evaluate(raw, noSuppress())

	if res.Status != StatusBlock {
		t.Fatalf("Status = %v, want block", res.Status)
	}
	if len(res.Kept) == 0 || res.Kept[0].Classification != detect.EncodedPayloadExec {
		t.Errorf("Kept = %v, want encoded-payload-exec", res.Kept)
	}
}

// TestSuppressedFindingAllowsWithNote checks that a fully suppressed call
// is allowed but the suppression is reported loudly.
func TestSuppressedFindingAllowsWithNote(t *testing.T) {
	raw := []byte(`{"tool_name":"Write","tool_input":{"content":"obj = pickle.loads(data)"}}`)
	suppress := map[detect.Classification]bool{detect.PickleDeserialization: true}
	res := Evaluate(raw, suppress)

	if res.Status != StatusAllow {
		t.Fatalf("Status = %v, want allow", res.Status)
	}
	if len(res.Suppressed) != 1 {
		t.Fatalf("Suppressed = %v, want one finding", res.Suppressed)
	}

	var buf bytes.Buffer
	res.WriteReport(&buf)
	out := buf.String()
	if !strings.Contains(out, "suppressed") || !strings.Contains(out, "pickle-deserialization") {
		t.Errorf("report missing suppression note:\n%s", out)
	}
	if !strings.Contains(out, "warning") {
		t.Errorf("report missing suppression warning:\n%s", out)
	}
}

// TestPartialSuppressionStillBlocks checks that suppressing one
// classification does not touch the others.
func TestPartialSuppressionStillBlocks(t *testing.T) {
	payload := "obj = pickle.loads(data)\ncursor.execute(f\"SELECT {x}\")"
	raw := []byte(`{"tool_name":"Write","tool_input":{"content":` + quoteJSON(payload) + `}}`)
	suppress := map[detect.Classification]bool{detect.PickleDeserialization: true}
	res := Evaluate(raw, suppress)

	if res.Status != StatusBlock {
		t.Fatalf("Status = %v, want block", res.Status)
	}
	if len(res.Kept) != 1 || res.Kept[0].Classification != detect.SQLInjectionFString {
		t.Errorf("Kept = %v, want only sql-injection-fstring", res.Kept)
	}
	if len(res.Suppressed) != 1 || res.Suppressed[0].Classification != detect.PickleDeserialization {
		t.Errorf("Suppressed = %v, want only pickle-deserialization", res.Suppressed)
	}

	var buf bytes.Buffer
	res.WriteReport(&buf)
	out := buf.String()
	if !strings.Contains(out, "sql-injection-fstring") {
		t.Errorf("report missing kept finding:\n%s", out)
	}
}

// TestUnparseableInputFailsClosed is the core safety property: garbage on
// stdin blocks, never allows.
func TestUnparseableInputFailsClosed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"tool_name":`, `[1,2]`} {
		res := Evaluate([]byte(raw), noSuppress())
		if res.Status != StatusBlock {
			t.Errorf("Evaluate(%q).Status = %v, want block", raw, res.Status)
		}
		if !res.ParseFailure {
			t.Errorf("Evaluate(%q).ParseFailure = false, want true", raw)
		}

		var buf bytes.Buffer
		res.WriteReport(&buf)
		if !strings.Contains(buf.String(), "could not parse hook input") {
			t.Errorf("report for %q missing parse-failure message:\n%s", raw, buf.String())
		}
	}
}

// TestEmptyPayloadAllows checks that a parseable request with nothing to
// scan is allowed.
func TestEmptyPayloadAllows(t *testing.T) {
	raws := []string{
		`{"tool_name":"Write","tool_input":{"content":""}}`,
		`{"tool_name":"Bash","tool_input":{}}`,
		`{"tool_name":"Read","tool_input":{"file_path":"/etc/hosts"}}`,
	}
	for _, raw := range raws {
		res := Evaluate([]byte(raw), noSuppress())
		if res.Status != StatusAllow {
			t.Errorf("Evaluate(%q).Status = %v, want allow", raw, res.Status)
		}
	}
}

// TestEvaluateIsDeterministic runs the same request twice and expects
// identical results.
func TestEvaluateIsDeterministic(t *testing.T) {
	raw := []byte(`{"tool_name":"Write","tool_input":{"content":"cfg = yaml.load(f)\nobj = pickle.loads(d)"}}`)
	first := Evaluate(raw, noSuppress())
	second := Evaluate(raw, noSuppress())

	if first.Status != second.Status || len(first.Kept) != len(second.Kept) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	for i := range first.Kept {
		if first.Kept[i] != second.Kept[i] {
			t.Errorf("Kept[%d] differs: %v vs %v", i, first.Kept[i], second.Kept[i])
		}
	}
}

func quoteJSON(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n", "\t", "\\t")
	return `"` + r.Replace(s) + `"`
}
