// Package setup turns a Config into the rules and scanner for one scan
package setup

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bethropolis/dir-scanner/internal/config"
	"github.com/bethropolis/dir-scanner/internal/ignore"
	"github.com/bethropolis/dir-scanner/internal/logger"
	"github.com/bethropolis/dir-scanner/internal/pathcmp"
	"github.com/bethropolis/dir-scanner/internal/rules"
	"github.com/bethropolis/dir-scanner/internal/scanner"
	"github.com/bethropolis/dir-scanner/internal/smartignore"
)

// Plan is everything prepared for a scan of Root
type Plan struct {
	Root        string
	Candidates  []string
	IgnoreFiles []string
	Detection   smartignore.Detection
	Rules       *rules.IgnoreRules
}

// BuildRules discovers ignore files, runs artifact detection over the scan
// root and the selected folders, and assembles the rules.
func BuildRules(cfg *config.Config, log logger.Interface) (*Plan, error) {
	if log == nil {
		log = logger.Nop{}
	}
	root, err := cfg.AbsRoot()
	if err != nil {
		return nil, err
	}
	cmp := pathcmp.Default
	plan := &Plan{Root: root, Candidates: candidateRoots(root, cfg.SelectedFolders, log)}

	opts := []rules.Option{
		rules.WithComparer(cmp),
		rules.WithHiddenFolders(cfg.IgnoreHiddenFolders),
		rules.WithHiddenFiles(cfg.IgnoreHiddenFiles),
		rules.WithDotFolders(cfg.IgnoreDotFolders),
		rules.WithDotFiles(cfg.IgnoreDotFiles),
	}

	if cfg.SmartIgnore {
		plan.Detection = smartignore.NewDetector(smartignore.WithLogger(log)).Detect(plan.Candidates)
		opts = append(opts, rules.WithSmartIgnore(plan.Detection.Folders, plan.Detection.Files, plan.Detection.Roots))
	}

	// lines of every ignore file, merged per directory in discovery order
	byDir := map[string][]string{}
	var dirs []string
	addLines := func(dir string, lines []string) {
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], lines...)
	}

	if cfg.UseGitIgnore {
		// smart-ignored folders are never scanned, so their ignore files
		// cannot matter
		prune := rules.New(rules.WithComparer(cmp))
		if cfg.SmartIgnore {
			det := plan.Detection
			prune = rules.New(rules.WithComparer(cmp), rules.WithSmartIgnore(det.Folders, det.Files, det.Roots))
		}
		for _, path := range discoverIgnoreFiles(root, cfg.IgnoreFileNames, prune, log) {
			lines, err := readLines(path)
			if err != nil {
				log.Warn("Skipping unreadable ignore file %s: %v", path, err)
				continue
			}
			log.Info("Loaded %s", path)
			plan.IgnoreFiles = append(plan.IgnoreFiles, path)
			addLines(filepath.Dir(path), lines)
		}
	}
	if len(cfg.CustomIgnore) > 0 {
		addLines(root, cfg.CustomIgnore)
	}

	var matchers []*ignore.Matcher
	for _, dir := range dirs {
		m := ignore.Build(dir, byDir[dir], ignore.WithComparer(cmp))
		if m.Dropped() > 0 {
			log.Warn("%s: %d ignore pattern(s) could not be compiled", dir, m.Dropped())
		}
		matchers = append(matchers, m)
	}
	if len(matchers) > 0 {
		log.Debug("Using %d ignore scope(s)", len(matchers))
		opts = append(opts, rules.WithGitIgnore(true), rules.WithMatchers(matchers...))
	}

	plan.Rules = rules.New(opts...)
	return plan, nil
}

// ScannerOptions maps the traversal settings onto scanner options
func ScannerOptions(cfg *config.Config, log logger.Interface) []scanner.Option {
	return []scanner.Option{
		scanner.WithLogger(log),
		scanner.WithFollowSymlinks(cfg.FollowSymlinks),
		scanner.WithMaxDepth(cfg.MaxDepth),
		scanner.WithTrackSkipped(cfg.ShowSkipped),
	}
}

func candidateRoots(root string, selected []string, log logger.Interface) []string {
	out := []string{root}
	for _, name := range selected {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			log.Warn("Selected folder %s does not exist, skipping", name)
			continue
		}
		out = append(out, path)
	}
	return out
}

func discoverIgnoreFiles(root string, names []string, prune *rules.IgnoreRules, log logger.Interface) []string {
	cmp := prune.Comparer()
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[cmp.Key(n)] = struct{}{}
	}

	var found []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				log.Debug("No ignore files loaded from %s: %v", root, err)
				return filepath.SkipAll
			}
			log.Debug("Discovery skipped %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (cmp.Equal(d.Name(), ".git") || prune.IsIgnored(path, d.Name(), true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[cmp.Key(d.Name())]; ok {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ignore.ReadLines(f)
}
