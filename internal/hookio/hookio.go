// Package hookio parses the PreToolUse hook request piped to the gate and
// extracts the payload text to scan.
package hookio

import (
	"encoding/json"
	"fmt"
)

// ShellTool is the name of the shell-execution tool. Its payload is a
// command line; every other tool is treated as content-producing.
const ShellTool = "Bash"

// Kind classifies the intercepted tool call and selects the detector
// subset that applies.
type Kind int

const (
	// KindWrite covers content-producing tools (Write, Edit, ...).
	KindWrite Kind = iota
	// KindShell covers shell execution.
	KindShell
)

// Request is the extracted view of one intercepted tool call.
type Request struct {
	Tool    string
	Kind    Kind
	Payload string
}

// toolCall is the hook wire shape: a tool-name discriminator plus the
// tool's input object.
type toolCall struct {
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input"`
}

// Parse decodes one raw hook request. A request that cannot be parsed as a
// JSON object at all is an error — the caller must treat that as fatal and
// block, never allow.
//
// Extraction: the shell tool supplies `command`; content-producing tools
// supply `new_string` (edits) or `content` (full writes). When the input
// has no tool_input envelope, the whole object is treated as the tool
// input directly, for compatibility with older callers.
func Parse(raw []byte) (Request, error) {
	var call toolCall
	if err := json.Unmarshal(raw, &call); err != nil {
		return Request{}, fmt.Errorf("parse hook input: %w", err)
	}

	input := call.ToolInput
	if input == nil {
		if err := json.Unmarshal(raw, &input); err != nil {
			return Request{}, fmt.Errorf("parse hook input: %w", err)
		}
	}

	req := Request{Tool: call.ToolName}
	if call.ToolName == ShellTool {
		req.Kind = KindShell
		req.Payload = stringField(input, "command")
		return req, nil
	}

	req.Kind = KindWrite
	if s := stringField(input, "new_string"); s != "" {
		req.Payload = s
		return req, nil
	}
	req.Payload = stringField(input, "content")
	return req, nil
}

// stringField returns m[key] when it is a string, else "".
func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
