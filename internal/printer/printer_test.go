package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/dir-scanner/internal/scanner"
)

func sampleTree() *scanner.Node {
	return &scanner.Node{
		Name: "repo", Path: "/repo", IsDir: true, Icon: scanner.IconFolder,
		Children: []*scanner.Node{
			{Name: "locked", Path: "/repo/locked", IsDir: true, AccessDenied: true, Icon: scanner.IconFolder},
			{Name: "src", Path: "/repo/src", IsDir: true, Icon: scanner.IconFolder, Children: []*scanner.Node{
				{Name: "main.go", Path: "/repo/src/main.go", Icon: "go"},
			}},
			{Name: "README.md", Path: "/repo/README.md", Icon: "markdown"},
		},
	}
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().WithOutput(&buf).Print(Report{Command: "tree", Payload: sampleTree()}))

	out := buf.String()
	for _, want := range []string{"repo/", "src/", "main.go", "README.md", "locked/ [access denied]"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("src/")), bytes.Index(buf.Bytes(), []byte("main.go")))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := New().WithOutput(&buf).Print(Report{Command: "extensions", Payload: []string{".go", ".md"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "EXTENSIONS")
	assert.Contains(t, out, ".go")
	assert.Contains(t, out, "2 total")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := New().WithOutput(&buf).WithJSON(true).Print(Report{
		Command:         "folders",
		Root:            "/repo",
		Payload:         []string{"src"},
		HadAccessDenied: true,
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "folders", got["command"])
	assert.Equal(t, []interface{}{"src"}, got["payload"])
	assert.Equal(t, true, got["hadAccessDenied"])
}

func TestDeniedRootNotice(t *testing.T) {
	var buf bytes.Buffer
	err := New().WithOutput(&buf).Print(Report{Command: "folders", Root: "/locked", Payload: []string{}, RootAccessDenied: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "access to /locked was denied")
}

func TestUnsupportedPayload(t *testing.T) {
	err := New().WithOutput(&bytes.Buffer{}).Print(Report{Payload: 42})
	assert.Error(t, err)
}
