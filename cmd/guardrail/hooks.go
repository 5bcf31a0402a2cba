package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	// hookMatcher covers every tool kind the gate inspects.
	hookMatcher = "Write|Edit|MultiEdit|NotebookEdit|Bash"
	hookCommand = "guardrail check"
	hookEvent   = "PreToolUse"
)

var (
	hooksDryRun bool
	hooksForce  bool
)

// HookEntry represents a single hook command (e.g., {"type": "command", "command": "..."}).
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup represents a hook group with optional matcher and a hooks array.
// Claude Code format: {"matcher": "Write|Edit", "hooks": [{"type": "command", "command": "..."}]}
type HookGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the Claude Code PreToolUse hook",
	Long: `The hooks command manages the guardrail PreToolUse hook in Claude Code.

Subcommands:
  init      Print the hook configuration
  install   Install the hook to ~/.claude/settings.json
  show      Display the current hook configuration

Once installed, Claude Code pipes every matching tool call through
'guardrail check' before it runs; exit code 2 blocks the call.`,
}

var hooksInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Print the hook configuration",
	Long: `Print the hook configuration JSON for manual settings.json editing.

The hook attaches to ` + hookEvent + ` with matcher ` + hookMatcher + `.`,
	RunE: runHooksInit,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the hook to Claude Code settings",
	Long: `Install the guardrail hook to ~/.claude/settings.json.

This command:
  1. Reads existing settings.json (if any)
  2. Merges the guardrail hook with existing configuration
  3. Creates a backup of the original settings
  4. Writes the updated configuration

Hook groups installed by other tools are preserved.
Use --force to reinstall over an existing guardrail hook.`,
	RunE: runHooksInstall,
}

var hooksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current hook configuration",
	Long:  `Display the current Claude Code hooks configuration from ~/.claude/settings.json.`,
	RunE:  runHooksShow,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksInitCmd)
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksShowCmd)

	hooksInstallCmd.Flags().BoolVar(&hooksDryRun, "dry-run", false, "Show what would be installed without making changes")
	hooksInstallCmd.Flags().BoolVar(&hooksForce, "force", false, "Reinstall over an existing guardrail hook")
}

// guardrailHookGroup builds the hook group the installer manages.
func guardrailHookGroup() HookGroup {
	return HookGroup{
		Matcher: hookMatcher,
		Hooks: []HookEntry{
			{Type: "command", Command: hookCommand},
		},
	}
}

func settingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude", "settings.json"), nil
}

func loadSettings(path string) (map[string]any, error) {
	settings := make(map[string]any)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parse existing settings: %w", err)
		}
		return settings, nil
	}
	if os.IsNotExist(err) {
		return settings, nil
	}
	return nil, fmt.Errorf("read settings: %w", err)
}

func backupSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	fmt.Printf("Backed up existing settings to %s\n", backupPath)
	return nil
}

func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create .claude directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// groupIsManaged reports whether a raw hook group was installed by guardrail.
func groupIsManaged(group map[string]any) bool {
	hooks, ok := group["hooks"].([]any)
	if !ok {
		return false
	}
	for _, h := range hooks {
		hook, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if cmd, ok := hook["command"].(string); ok && strings.Contains(cmd, hookCommand) {
			return true
		}
	}
	return false
}

// filterUnmanagedGroups returns the event's hook groups that guardrail did not install.
func filterUnmanagedGroups(hooksMap map[string]any, event string) []any {
	kept := make([]any, 0)
	groups, ok := hooksMap[event].([]any)
	if !ok {
		return kept
	}
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if ok && groupIsManaged(group) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

func hasManagedHook(hooksMap map[string]any) bool {
	groups, ok := hooksMap[hookEvent].([]any)
	if !ok {
		return false
	}
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if ok && groupIsManaged(group) {
			return true
		}
	}
	return false
}

// mergeManagedGroup appends the guardrail group to the event, replacing any
// previously installed guardrail groups and keeping everything else.
func mergeManagedGroup(settings map[string]any) {
	hooksMap := make(map[string]any)
	if existing, ok := settings["hooks"].(map[string]any); ok {
		for k, v := range existing {
			hooksMap[k] = v
		}
	}

	groups := filterUnmanagedGroups(hooksMap, hookEvent)
	g := guardrailHookGroup()
	groups = append(groups, map[string]any{
		"matcher": g.Matcher,
		"hooks": []any{
			map[string]any{"type": g.Hooks[0].Type, "command": g.Hooks[0].Command},
		},
	})
	hooksMap[hookEvent] = groups
	settings["hooks"] = hooksMap
}

func runHooksInit(cmd *cobra.Command, args []string) error {
	wrapper := struct {
		Hooks map[string][]HookGroup `json:"hooks"`
	}{
		Hooks: map[string][]HookGroup{
			hookEvent: {guardrailHookGroup()},
		},
	}

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal hooks: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	if hooksMap, ok := settings["hooks"].(map[string]any); ok && hasManagedHook(hooksMap) && !hooksForce {
		fmt.Println("guardrail hook already installed. Use --force to reinstall.")
		return nil
	}

	mergeManagedGroup(settings)

	if hooksDryRun {
		fmt.Println("[dry-run] Would write to", path)
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if err := backupSettings(path); err != nil {
		return err
	}
	if err := writeSettings(path, settings); err != nil {
		return err
	}

	fmt.Printf("✓ Installed guardrail hook to %s\n", path)
	fmt.Println()
	fmt.Printf("  %s: %s -> %s\n", hookEvent, hookMatcher, hookCommand)
	fmt.Println()
	fmt.Println("Matching tool calls now pass through 'guardrail check' before running.")
	return nil
}

func runHooksShow(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No Claude settings found at", path)
			fmt.Println("Run 'guardrail hooks install' to set up the hook.")
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}

	hooksMap, ok := settings["hooks"].(map[string]any)
	if !ok {
		fmt.Println("No hooks configured in", path)
		fmt.Println("Run 'guardrail hooks install' to set up the hook.")
		return nil
	}

	if hasManagedHook(hooksMap) {
		fmt.Println("✓ guardrail hook is installed")
		fmt.Printf("  %s: %s -> %s\n", hookEvent, hookMatcher, hookCommand)
	} else {
		fmt.Println("⚠ guardrail hook not found. Run 'guardrail hooks install' to set up.")
	}

	return nil
}
