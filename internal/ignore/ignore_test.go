package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

var root = filepath.FromSlash("/repo")

func p(rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

func build(lines ...string) *Matcher {
	return Build(root, lines, WithComparer(pathcmp.CaseSensitive))
}

func TestBuildSkipsBlankAndComments(t *testing.T) {
	m := build("", "   ", "# comment", "*.log", "\t")
	assert.Equal(t, []string{"*.log"}, m.Patterns())
	assert.False(t, m.HasNegationRules())
}

func TestEscapedHashAndBang(t *testing.T) {
	m := build(`\#notes.txt`, `\!important`)
	assert.False(t, m.HasNegationRules())
	assert.True(t, m.IsIgnored(p("#notes.txt"), false, "#notes.txt"))
	assert.True(t, m.IsIgnored(p("!important"), false, "!important"))
}

func TestTrailingWhitespaceTrimmed(t *testing.T) {
	m := build("*.tmp   ")
	assert.Equal(t, []string{"*.tmp"}, m.Patterns())
	assert.True(t, m.IsIgnored(p("a.tmp"), false, "a.tmp"))
}

func TestEscapedTrailingSpaceIsKept(t *testing.T) {
	m := build(`foo\ `, "bar\\ \t ")
	assert.Equal(t, []string{`foo\ `, `bar\ `}, m.Patterns())
	assert.True(t, m.IsIgnored(p("foo "), false, "foo "))
	assert.False(t, m.IsIgnored(p("foo"), false, "foo"))
	assert.False(t, m.IsIgnored(p(`foo\`), false, `foo\`))
	assert.True(t, m.IsIgnored(p("bar "), false, "bar "))
}

func TestLastMatchWins(t *testing.T) {
	m := build("*.log", "!keep.log")
	assert.True(t, m.IsIgnored(p("app.log"), false, "app.log"))
	assert.False(t, m.IsIgnored(p("keep.log"), false, "keep.log"))

	m = build("*.log", "!keep.log", "keep.log")
	assert.True(t, m.IsIgnored(p("keep.log"), false, "keep.log"))
}

func TestAnchoring(t *testing.T) {
	m := build("/build")
	assert.True(t, m.IsIgnored(p("build"), true, "build"))
	assert.False(t, m.IsIgnored(p("src/build"), true, "build"))

	m = build("/*.txt")
	assert.True(t, m.IsIgnored(p("a.txt"), false, "a.txt"))
	assert.False(t, m.IsIgnored(p("docs/a.txt"), false, "a.txt"))
}

func TestUnanchoredNameMatchesAtAnyDepth(t *testing.T) {
	m := build("build")
	assert.True(t, m.IsIgnored(p("build"), true, "build"))
	assert.True(t, m.IsIgnored(p("src/build"), true, "build"))
	assert.True(t, m.IsIgnored(p("src/build"), false, "build"))
}

func TestInnerSlashIsRelativeToScope(t *testing.T) {
	m := build("docs/*.txt")
	assert.True(t, m.IsIgnored(p("docs/a.txt"), false, "a.txt"))
	assert.False(t, m.IsIgnored(p("sub/docs/a.txt"), false, "a.txt"))
}

func TestDirectoryOnly(t *testing.T) {
	m := build("logs/")
	assert.True(t, m.IsIgnored(p("logs"), true, "logs"))
	assert.False(t, m.IsIgnored(p("logs"), false, "logs"))
	assert.True(t, m.IsIgnored(p("logs/today.txt"), false, "today.txt"))
}

func TestDirectoryOnlyContentsKeepFiles(t *testing.T) {
	m := build("build/*/")
	assert.False(t, m.IsIgnored(p("build"), true, "build"))
	assert.False(t, m.IsIgnored(p("build/readme.txt"), false, "readme.txt"))
	assert.True(t, m.IsIgnored(p("build/sub"), true, "sub"))
	assert.True(t, m.IsIgnored(p("build/sub/a.txt"), false, "a.txt"))
}

func TestDoubleStar(t *testing.T) {
	m := build("a/**/z")
	for _, rel := range []string{"a/z", "a/b/z", "a/b/c/d/z"} {
		assert.True(t, m.IsIgnored(p(rel), false, "z"), rel)
	}
	assert.False(t, m.IsIgnored(p("b/z"), false, "z"))

	m = build("**/x")
	assert.True(t, m.IsIgnored(p("x"), false, "x"))
	assert.True(t, m.IsIgnored(p("q/r/x"), false, "x"))

	m = build("x/**")
	assert.True(t, m.IsIgnored(p("x/a"), false, "a"))
	assert.True(t, m.IsIgnored(p("x/a/b"), false, "b"))
	assert.True(t, m.IsIgnored(p("x"), true, "x"), "hidden by content inference")

	// with inference off, the directory itself is not matched
	m = build("x/**", "!unrelated")
	assert.False(t, m.IsIgnored(p("x"), true, "x"))
	assert.True(t, m.IsIgnored(p("x/a"), false, "a"))

	m = build("**/x/**", "!unrelated")
	assert.False(t, m.IsIgnored(p("a/x"), true, "x"))
	assert.True(t, m.IsIgnored(p("a/x/x"), false, "x"))
}

func TestQuestionMarkAndClasses(t *testing.T) {
	m := build("file?.txt", "[abc].md", "v[0-9].bin")
	assert.True(t, m.IsIgnored(p("file1.txt"), false, "file1.txt"))
	assert.False(t, m.IsIgnored(p("file10.txt"), false, "file10.txt"))
	assert.True(t, m.IsIgnored(p("b.md"), false, "b.md"))
	assert.False(t, m.IsIgnored(p("d.md"), false, "d.md"))
	assert.True(t, m.IsIgnored(p("v7.bin"), false, "v7.bin"))
	assert.False(t, m.IsIgnored(p("vx.bin"), false, "vx.bin"))
}

func TestMalformedLinesDoNotPanic(t *testing.T) {
	lines := []string{"[[abc]]", "[!abc].txt", "[^a]", "[unterminated", "[z-a].txt", "[]", "a**", "/", "!"}
	var m *Matcher
	require.NotPanics(t, func() { m = build(lines...) })
	require.NotPanics(t, func() {
		for _, name := range []string{"a", "[a]]", "x.txt", "[unterminated", "a.txt"} {
			m.IsIgnored(p(name), false, name)
		}
	})
	// "a**" is rejected by the parser; "/" and "!" have no pattern at all
	assert.Equal(t, 1, m.Dropped())
	assert.Equal(t, 6, m.Len())
	// unterminated and reversed classes never match
	assert.False(t, m.IsIgnored(p("[unterminated"), false, "[unterminated"))
	assert.False(t, m.IsIgnored(p("a.txt"), false, "a.txt"))
	assert.True(t, m.IsIgnored(p("x.txt"), false, "x.txt"))
}

func TestContentBasedDirectoryInference(t *testing.T) {
	m := build("**/bin/*")
	assert.True(t, m.IsIgnored(p("bin"), true, "bin"))
	assert.True(t, m.IsIgnored(p("src/bin"), true, "bin"))
	assert.True(t, m.IsIgnored(p("src/bin/tool"), false, "tool"))
	assert.False(t, m.IsIgnored(p("bin"), false, "bin"))
}

func TestNegationSuppressesDirectoryInference(t *testing.T) {
	m := build("**/bin/*", "!unrelated.txt")
	assert.True(t, m.HasNegationRules())
	assert.False(t, m.IsIgnored(p("bin"), true, "bin"))
	assert.True(t, m.IsIgnored(p("bin/tool"), false, "tool"))
}

func TestExcludedParentCannotBeReincluded(t *testing.T) {
	m := build("bin/", "*.log", "!important.log")
	assert.True(t, m.IsIgnored(p("bin"), true, "bin"))
	assert.True(t, m.IsIgnored(p("bin/x.txt"), false, "x.txt"))
	assert.True(t, m.IsIgnored(p("app.log"), false, "app.log"))
	assert.False(t, m.IsIgnored(p("important.log"), false, "important.log"))
}

func TestShouldTraverseIgnoredDirectory(t *testing.T) {
	assert.False(t, build("bin/").ShouldTraverseIgnoredDirectory(p("bin"), "bin"))
	assert.True(t, build("bin/*", "!bin/keep").ShouldTraverseIgnoredDirectory(p("bin"), "bin"))
}

func TestPathsOutsideScope(t *testing.T) {
	m := build("*")
	assert.False(t, m.IsIgnored(filepath.FromSlash("/other/a.txt"), false, "a.txt"))
	assert.False(t, m.IsIgnored(root, true, "repo"))
}

func TestCaseSensitivityFollowsComparer(t *testing.T) {
	sensitive := Build(root, []string{"*.LOG"}, WithComparer(pathcmp.CaseSensitive))
	insensitive := Build(root, []string{"*.LOG"}, WithComparer(pathcmp.CaseInsensitive))

	assert.False(t, sensitive.IsIgnored(p("a.log"), false, "a.log"))
	assert.True(t, insensitive.IsIgnored(p("a.log"), false, "a.log"))
}

func TestEmptyMatcher(t *testing.T) {
	assert.False(t, Empty.IsIgnored(p("anything"), false, "anything"))
	assert.False(t, Empty.HasNegationRules())
	assert.False(t, Empty.ShouldTraverseIgnoredDirectory(p("x"), "x"))
	assert.Zero(t, Empty.Len())
}

func TestDeterminism(t *testing.T) {
	m := build("*.log", "!keep.log", "/build", "**/obj/*")
	paths := []struct {
		rel   string
		isDir bool
	}{{"a.log", false}, {"keep.log", false}, {"build", true}, {"x/obj", true}, {"x/obj/y", false}}
	for _, c := range paths {
		first := m.IsIgnored(p(c.rel), c.isDir, "")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, m.IsIgnored(p(c.rel), c.isDir, ""), c.rel)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("*.log\n# c\n!keep.log\n"), 0o644))

	m, err := Load(path, WithComparer(pathcmp.CaseSensitive))
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), m.Root())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.IsIgnored(filepath.Join(dir, "x.log"), false, "x.log"))

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\r\nb\n\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, lines)
}

func TestAgreesWithGitignoreLibrary(t *testing.T) {
	lines := []string{"*.log", "!important.log", "/build", "bin/", "*.tmp"}
	ref := gitignore.New(strings.NewReader(strings.Join(lines, "\n")), root, nil)
	m := build(lines...)

	cases := []struct {
		rel   string
		isDir bool
	}{
		{"app.log", false},
		{"important.log", false},
		{"build", true},
		{"src/build", true},
		{"bin", true},
		{"bin", false},
		{"a/b/c.tmp", false},
		{"main.go", false},
	}
	for _, c := range cases {
		match := ref.Relative(c.rel, c.isDir)
		want := match != nil && match.Ignore()
		assert.Equal(t, want, m.IsIgnored(p(c.rel), c.isDir, ""), c.rel)
	}

	// the deciding pattern carries the polarity
	match := ref.Relative("important.log", false)
	require.NotNil(t, match)
	assert.Equal(t, "!important.log", match.String())
	assert.True(t, match.Include())
}
