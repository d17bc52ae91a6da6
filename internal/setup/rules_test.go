package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-scanner/internal/config"
	"github.com/bethropolis/dir-scanner/internal/scanner"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func configFor(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.RootDir = root
	return cfg
}

func TestBuildRulesDiscoversNestedIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore":                    "*.log\n",
		"sub/.gitignore":                "*.tmp\n",
		".git/info/.gitignore":          "*\n",
		"sub/deeper/file.txt":           "",
		"package.json":                  "{}",
		"web/node_modules/x/.gitignore": "*\n",
	})

	plan, err := BuildRules(configFor(root), nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, ".gitignore"),
		filepath.Join(root, "sub", ".gitignore"),
	}, plan.IgnoreFiles)
	assert.Len(t, plan.Rules.Scopes(), 2)

	r := plan.Rules
	assert.True(t, r.IsIgnored(filepath.Join(root, "a.log"), "a.log", false))
	assert.True(t, r.IsIgnored(filepath.Join(root, "sub", "b.tmp"), "b.tmp", false))
	assert.False(t, r.IsIgnored(filepath.Join(root, "b.tmp"), "b.tmp", false))
}

func TestBuildRulesSmartIgnoreUsesSelectedFolders(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"web/package.json": "{}",
		"api/Cargo.toml":   "",
	})

	cfg := configFor(root)
	cfg.SelectedFolders = []string{"web", "missing"}
	plan, err := BuildRules(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{root, filepath.Join(root, "web")}, plan.Candidates)
	assert.Equal(t, []string{"javascript"}, plan.Detection.Ecosystems)
	assert.True(t, plan.Rules.IsIgnored(filepath.Join(root, "web", "node_modules"), "node_modules", true))
	assert.NotContains(t, plan.Detection.Folders, "target")
}

func TestBuildRulesSmartIgnoreDisabled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"package.json": "{}"})

	cfg := configFor(root)
	cfg.SmartIgnore = false
	plan, err := BuildRules(cfg, nil)
	require.NoError(t, err)
	assert.False(t, plan.Rules.IsIgnored(filepath.Join(root, "node_modules"), "node_modules", true))
}

func TestBuildRulesCustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".gitignore": "*.log\n"})

	cfg := configFor(root)
	cfg.CustomIgnore = []string{"*.bak", "!keep.log"}
	plan, err := BuildRules(cfg, nil)
	require.NoError(t, err)

	r := plan.Rules
	assert.Len(t, r.Scopes(), 1)
	assert.True(t, r.IsIgnored(filepath.Join(root, "x.bak"), "x.bak", false))
	assert.True(t, r.IsIgnored(filepath.Join(root, "x.log"), "x.log", false))
	assert.False(t, r.IsIgnored(filepath.Join(root, "keep.log"), "keep.log", false))
}

func TestBuildRulesCustomPatternsWithoutGitIgnore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".gitignore": "*.log\n"})

	cfg := configFor(root)
	cfg.UseGitIgnore = false
	cfg.CustomIgnore = []string{"*.bak"}
	plan, err := BuildRules(cfg, nil)
	require.NoError(t, err)

	assert.Empty(t, plan.IgnoreFiles)
	assert.True(t, plan.Rules.IsIgnored(filepath.Join(root, "x.bak"), "x.bak", false))
	assert.False(t, plan.Rules.IsIgnored(filepath.Join(root, "x.log"), "x.log", false))
}

func TestBuildRulesMissingRoot(t *testing.T) {
	plan, err := BuildRules(configFor(filepath.Join(t.TempDir(), "gone")), nil)
	require.NoError(t, err)
	assert.Empty(t, plan.IgnoreFiles)
	assert.Empty(t, plan.Rules.Scopes())
}

func TestPlanDrivesScanner(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore":   "dist/\n",
		"dist/out.js":  "",
		"src/index.ts": "",
		".git/HEAD":    "",
	})
	cfg := configFor(root)
	plan, err := BuildRules(cfg, nil)
	require.NoError(t, err)

	s := scanner.New(plan.Rules, ScannerOptions(cfg, nil)...)
	folders, err := s.RootFolders(context.Background(), plan.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, folders.Payload)
}
