package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/guardrail/internal/detect"
	"github.com/boshu2/guardrail/internal/formatter"
)

var scanStrict bool

var scanCmd = &cobra.Command{
	Use:   "scan [path...]",
	Short: "Scan files or directories for dangerous patterns",
	Long: `Scan files on disk with the same detector table the hook uses. This is
advisory: it reports findings but never blocks anything.

Shell-only detectors run only on shell scripts (.sh, .bash, .zsh); every
other file gets the write-time detector set. Binary files, files over 1 MiB,
and well-known dependency directories are skipped.

Examples:
  guardrail scan .
  guardrail scan src/ deploy.sh
  guardrail scan --strict .   # exit 1 when anything is found`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		var findings []FileFinding
		for _, p := range paths {
			found, err := scanPath(p)
			if err != nil {
				return err
			}
			findings = append(findings, found...)
		}

		if err := outputScan(findings); err != nil {
			return err
		}
		if scanStrict && len(findings) > 0 {
			return fmt.Errorf("%d finding(s)", len(findings))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanStrict, "strict", false, "Exit non-zero when findings exist")
	rootCmd.AddCommand(scanCmd)
}

// FileFinding is one detector match located in a scanned file.
type FileFinding struct {
	Path           string `json:"path" yaml:"path"`
	Classification string `json:"classification" yaml:"classification"`
	Message        string `json:"message" yaml:"message"`
}

var scanSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".agents":      true,
}

var shellExts = map[string]bool{
	".sh":   true,
	".bash": true,
	".zsh":  true,
}

// maxScanSize bounds per-file reads; anything larger is almost certainly
// generated or vendored.
const maxScanSize = 1 << 20

func scanPath(path string) ([]FileFinding, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return scanFile(path, info.Size())
	}

	var findings []FileFinding
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if scanSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		found, err := scanFile(p, fi.Size())
		if err != nil {
			return nil
		}
		findings = append(findings, found...)
		return nil
	})
	return findings, err
}

func scanFile(path string, size int64) ([]FileFinding, error) {
	if size > maxScanSize {
		VerbosePrintf("skipping %s: too large\n", path)
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil
	}

	shell := shellExts[strings.ToLower(filepath.Ext(path))]
	raw := detect.Evaluate(string(data), shell)
	if len(raw) == 0 {
		return nil, nil
	}

	findings := make([]FileFinding, len(raw))
	for i, f := range raw {
		findings[i] = FileFinding{
			Path:           path,
			Classification: string(f.Classification),
			Message:        f.Message,
		}
	}
	return findings, nil
}

func outputScan(findings []FileFinding) error {
	switch GetOutput() {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if findings == nil {
			findings = []FileFinding{}
		}
		return enc.Encode(findings)

	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		return enc.Encode(findings)

	default:
		if len(findings) == 0 {
			fmt.Println("No findings.")
			return nil
		}
		t := formatter.NewTable(os.Stdout, "PATH", "CLASSIFICATION", "MESSAGE")
		t.SetMaxWidth(2, 64)
		for _, f := range findings {
			t.AddRow(f.Path, f.Classification, f.Message)
		}
		if err := t.Render(); err != nil {
			return err
		}
		fmt.Printf("\n%d finding(s)\n", len(findings))
		return nil
	}
}
