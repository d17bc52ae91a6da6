// Package app wires configuration, rules, scanner and output for each command
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/dir-scanner/internal/config"
	"github.com/bethropolis/dir-scanner/internal/logger"
	"github.com/bethropolis/dir-scanner/internal/pathcmp"
	"github.com/bethropolis/dir-scanner/internal/printer"
	"github.com/bethropolis/dir-scanner/internal/rules"
	"github.com/bethropolis/dir-scanner/internal/scanner"
	"github.com/bethropolis/dir-scanner/internal/setup"
	"github.com/bethropolis/dir-scanner/internal/summary"
	"github.com/bethropolis/dir-scanner/internal/watch"
)

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	output io.Writer
	errOut io.Writer
}

// New creates a new App instance
func New(cfg *config.Config) *App {
	color.NoColor = !cfg.UseColors
	return &App{
		cfg:    cfg,
		log:    logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.UseColors),
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

// WithOutput sets where results are written
func (a *App) WithOutput(w io.Writer) *App {
	a.output = w
	return a
}

// WithLogOutput sets where logs and skipped items are written
func (a *App) WithLogOutput(w io.Writer) *App {
	a.errOut = w
	a.log = logger.New(w, logger.ParseLevel(a.cfg.LogLevel), a.cfg.UseColors)
	return a
}

// Tree prints the visible tree under the root
func (a *App) Tree(ctx context.Context) error {
	return a.scan(ctx, "tree", func(ctx context.Context, s *scanner.Scanner, root string) (outcome, error) {
		res, err := s.Tree(ctx, root)
		return outcomeOf(res, res.Payload), err
	})
}

// Extensions prints the distinct file extensions, either of the whole tree or
// of the root's direct files only
func (a *App) Extensions(ctx context.Context, rootOnly bool) error {
	return a.scan(ctx, "extensions", func(ctx context.Context, s *scanner.Scanner, root string) (outcome, error) {
		var res scanner.Result[[]string]
		var err error
		if rootOnly {
			res, err = s.RootExtensions(ctx, root)
		} else {
			res, err = s.Extensions(ctx, root)
		}
		return outcomeOf(res, res.Payload), err
	})
}

// Folders prints the root's visible subfolders. With selected folders
// configured only those are reported.
func (a *App) Folders(ctx context.Context) error {
	return a.scan(ctx, "folders", func(ctx context.Context, s *scanner.Scanner, root string) (outcome, error) {
		res, err := s.RootFolders(ctx, root)
		return outcomeOf(res, a.selected(res.Payload)), err
	})
}

func (a *App) selected(folders []string) []string {
	if len(a.cfg.SelectedFolders) == 0 || folders == nil {
		return folders
	}
	cmp := pathcmp.Default
	out := []string{}
	for _, f := range folders {
		for _, want := range a.cfg.SelectedFolders {
			if cmp.Equal(f, want) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// outcome is the mode-independent part of a scan result
type outcome struct {
	payload          interface{}
	rootAccessDenied bool
	hadAccessDenied  bool
	stats            scanner.Stats
	skipped          []scanner.SkippedItem
}

func outcomeOf[T any](res scanner.Result[T], payload interface{}) outcome {
	return outcome{
		payload:          payload,
		rootAccessDenied: res.RootAccessDenied,
		hadAccessDenied:  res.HadAccessDenied,
		stats:            res.Stats,
		skipped:          res.Skipped,
	}
}

type scanFunc func(ctx context.Context, s *scanner.Scanner, root string) (outcome, error)

func (a *App) scan(ctx context.Context, command string, run scanFunc) error {
	plan, err := setup.BuildRules(a.cfg, a.log)
	if err != nil {
		return err
	}
	return a.scanWith(ctx, command, plan, run)
}

func (a *App) scanWith(ctx context.Context, command string, plan *setup.Plan, run scanFunc) error {
	start := time.Now()
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	a.log.Debug("Scanning %s (%s)", plan.Root, command)
	s := scanner.New(plan.Rules, setup.ScannerOptions(a.cfg, a.log)...)
	out, err := run(ctx, s, plan.Root)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("scan of %s timed out after %v", plan.Root, a.cfg.Timeout)
		}
		return err
	}

	p := printer.New().
		WithOutput(a.output).
		WithColors(a.cfg.UseColors && !a.cfg.JSONOutput).
		WithJSON(a.cfg.JSONOutput)
	err = p.Print(printer.Report{
		Command:          command,
		Root:             plan.Root,
		Payload:          out.payload,
		RootAccessDenied: out.rootAccessDenied,
		HadAccessDenied:  out.hadAccessDenied,
	})
	if err != nil {
		return err
	}

	summary.DisplayResults(a.log, summary.Scan{
		Root:             plan.Root,
		Duration:         time.Since(start),
		Stats:            out.stats,
		RootAccessDenied: out.rootAccessDenied,
		HadAccessDenied:  out.hadAccessDenied,
		Scopes:           len(plan.Rules.Scopes()),
		Ecosystems:       plan.Detection.Ecosystems,
	})
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, out.skipped, a.errOut)
	}
	return nil
}

// Watch prints the tree, then rebuilds the rules and prints it again every
// time the tree settles after a change. It returns when ctx is done.
func (a *App) Watch(ctx context.Context) error {
	tree := func(ctx context.Context, s *scanner.Scanner, root string) (outcome, error) {
		res, err := s.Tree(ctx, root)
		return outcomeOf(res, res.Payload), err
	}

	plan, err := setup.BuildRules(a.cfg, a.log)
	if err != nil {
		return err
	}
	var current atomic.Pointer[rules.IgnoreRules]
	current.Store(plan.Rules)

	if err := a.scanWith(ctx, "tree", plan, tree); err != nil {
		return err
	}

	w, err := watch.New(plan.Root,
		watch.WithDebounce(a.cfg.WatchDebounce),
		watch.WithLogger(a.log),
		watch.WithSkip(a.watchSkip(&current)),
	)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", plan.Root, err)
	}
	defer w.Close()
	a.log.Info("Watching %s for changes", plan.Root)

	err = w.Run(ctx, func(ctx context.Context) error {
		plan, err := setup.BuildRules(a.cfg, a.log)
		if err != nil {
			return err
		}
		current.Store(plan.Rules)
		return a.scanWith(ctx, "tree", plan, tree)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchSkip ignores changes the current rules would hide. Ignore files always
// count, since editing one changes the rules themselves.
func (a *App) watchSkip(current *atomic.Pointer[rules.IgnoreRules]) watch.SkipFunc {
	return func(path string, isDir bool) bool {
		r := current.Load()
		cmp := r.Comparer()
		name := filepath.Base(path)
		if cmp.Equal(name, ".git") {
			return true
		}
		for _, n := range a.cfg.IgnoreFileNames {
			if cmp.Equal(name, n) {
				return false
			}
		}
		d := r.Decide(path, name, isDir)
		return d.Ignored && !d.Traverse
	}
}
