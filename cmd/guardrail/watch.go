package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces editor save bursts into one rescan.
const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rescan on file changes",
	Long: `Watch a directory tree and rerun the scanner whenever files change.
Advisory like scan: findings are printed, nothing is blocked.

Example:
  guardrail watch src/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		return runWatch(root, nil)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch blocks until stop is closed (or forever when stop is nil).
func runWatch(root string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n", root)
	rescan(root)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-stop:
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipWatchEvent(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			rescan(root)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if scanSkipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// skipWatchEvent drops events from directories the scanner ignores anyway.
func skipWatchEvent(name string) bool {
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if scanSkipDirs[part] {
			return true
		}
	}
	return false
}

func rescan(root string) {
	findings, err := scanPath(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		return
	}
	fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
	if err := outputScan(findings); err != nil {
		fmt.Fprintf(os.Stderr, "output error: %v\n", err)
	}
}
