package smartignore

import (
	"os"
	"path/filepath"
	"strings"
)

// Result is what one rule infers for one root
type Result struct {
	Folders []string
	Files   []string
}

// Empty reports whether the rule found nothing
func (r Result) Empty() bool {
	return len(r.Folders) == 0 && len(r.Files) == 0
}

// Rule infers ignorable artifact names for one ecosystem
type Rule interface {
	Name() string
	Evaluate(root string) Result
}

// Table is the immutable description of an ecosystem. Markers are plain names
// or single-level globs checked directly inside the candidate root.
type Table struct {
	Ecosystem string
	Markers   []string
	Folders   []string
	Files     []string
}

type markerRule struct {
	table Table
}

// NewRule wraps a table as a Rule
func NewRule(t Table) Rule {
	return markerRule{table: t}
}

func (r markerRule) Name() string { return r.table.Ecosystem }

func (r markerRule) Evaluate(root string) Result {
	if !r.hasMarker(root) {
		return Result{}
	}
	return Result{
		Folders: append([]string(nil), r.table.Folders...),
		Files:   append([]string(nil), r.table.Files...),
	}
}

func (r markerRule) hasMarker(root string) bool {
	var entries []os.DirEntry
	listed := false

	for _, marker := range r.table.Markers {
		if !strings.ContainsAny(marker, "*?[") {
			if info, err := os.Stat(filepath.Join(root, marker)); err == nil && !info.IsDir() {
				return true
			}
			continue
		}

		if !listed {
			entries, _ = os.ReadDir(root)
			listed = true
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(marker, e.Name()); ok {
				return true
			}
		}
	}
	return false
}

var defaultTables = []Table{
	{
		Ecosystem: "javascript",
		Markers:   []string{"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb", "tsconfig.json"},
		Folders:   []string{"node_modules", "dist", "build", "coverage", ".next", ".nuxt", ".svelte-kit", ".turbo", ".parcel-cache", ".cache", ".nyc_output", "out"},
		Files:     []string{"npm-debug.log", "yarn-error.log", ".eslintcache"},
	},
	{
		Ecosystem: "python",
		Markers:   []string{"pyproject.toml", "requirements.txt", "setup.py", "setup.cfg", "Pipfile", "poetry.lock"},
		Folders:   []string{"__pycache__", ".venv", "venv", "env", ".pytest_cache", ".mypy_cache", ".ruff_cache", ".tox", ".eggs", "build", "dist", "htmlcov"},
		Files:     []string{".coverage"},
	},
	{
		Ecosystem: "jvm",
		Markers:   []string{"pom.xml", "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"},
		Folders:   []string{"target", "build", ".gradle", "out"},
	},
	{
		Ecosystem: "go",
		Markers:   []string{"go.mod", "go.work"},
		Folders:   []string{"vendor", "bin"},
	},
	{
		Ecosystem: "ruby",
		Markers:   []string{"Gemfile", "Gemfile.lock"},
		Folders:   []string{".bundle", "vendor", "coverage", "tmp", "log"},
	},
	{
		Ecosystem: "php",
		Markers:   []string{"composer.json"},
		Folders:   []string{"vendor"},
	},
	{
		Ecosystem: "dotnet",
		Markers:   []string{"*.csproj", "*.fsproj", "*.vbproj", "*.sln"},
		Folders:   []string{"bin", "obj", ".vs", "packages", "TestResults"},
	},
	{
		Ecosystem: "rust",
		Markers:   []string{"Cargo.toml"},
		Folders:   []string{"target"},
	},
}

// DefaultRules returns one rule per built-in ecosystem, in a fixed order
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultTables))
	for i, t := range defaultTables {
		out[i] = NewRule(t)
	}
	return out
}
