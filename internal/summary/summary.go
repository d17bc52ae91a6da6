// Package summary handles display of scan results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bethropolis/dir-scanner/internal/scanner"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Scan describes one finished scan
type Scan struct {
	Root             string
	Duration         time.Duration
	Stats            scanner.Stats
	RootAccessDenied bool
	HadAccessDenied  bool
	Scopes           int
	Ecosystems       []string
}

// DisplayResults shows the end results of a scan operation
func DisplayResults(logger Logger, s Scan) {
	if s.RootAccessDenied {
		logger.Warn("Access to %s was denied, nothing was scanned.", s.Root)
		return
	}
	logger.Info("Scanned %d directories and %d files in %v.",
		s.Stats.Dirs, s.Stats.Files, s.Duration.Round(time.Millisecond))
	logger.Info("Ignored %d directories and %d files using %d ignore scope(s).",
		s.Stats.IgnoredDirs, s.Stats.IgnoredFiles, s.Scopes)
	if len(s.Ecosystems) > 0 {
		logger.Info("Smart ignore detected: %s", strings.Join(s.Ecosystems, ", "))
	}
	if s.HadAccessDenied {
		logger.Warn("%d director(ies) could not be read.", s.Stats.DeniedDirs)
	}
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(logger Logger, skippedItems []scanner.SkippedItem, output io.Writer) {
	logger.Info("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		logger.Info("No items were skipped.")
		logger.Info("--- End Skipped Items ---")
		return
	}

	items := append([]scanner.SkippedItem(nil), skippedItems...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})
	for _, item := range items {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR "
		}
		fmt.Fprintf(output, "Skipped %s: %s [%s]\n", typeStr, item.Path, item.Reason)
	}
	logger.Info("--- End Skipped Items ---")
}
