// Package printer renders scan results for the command line
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/bethropolis/dir-scanner/internal/scanner"
)

// Report is one command's output
type Report struct {
	Command          string      `json:"command"`
	Root             string      `json:"root"`
	Payload          interface{} `json:"payload"`
	RootAccessDenied bool        `json:"rootAccessDenied"`
	HadAccessDenied  bool        `json:"hadAccessDenied"`
}

// Printer writes reports to the configured output destination
type Printer struct {
	output     io.Writer
	useColors  bool
	jsonOutput bool
}

// New creates a new Printer writing to stdout
func New() *Printer {
	return &Printer{output: os.Stdout}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// Print renders r as JSON, a tree or a table depending on mode and payload
func (p *Printer) Print(r Report) error {
	if p.jsonOutput {
		enc := json.NewEncoder(p.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("printer: failed to encode %s result: %w", r.Command, err)
		}
		return nil
	}

	switch payload := r.Payload.(type) {
	case *scanner.Node:
		p.printTree(payload)
	case []string:
		p.printTable(r.Command, payload)
	default:
		return fmt.Errorf("printer: unsupported payload %T", r.Payload)
	}
	if r.RootAccessDenied {
		fmt.Fprintln(p.output, p.paint(color.FgRed, "access to "+r.Root+" was denied"))
	}
	return nil
}

func (p *Printer) printTree(root *scanner.Node) {
	if root == nil {
		return
	}
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	l.AppendItem(p.label(root))
	var add func(n *scanner.Node)
	add = func(n *scanner.Node) {
		if len(n.Children) == 0 {
			return
		}
		l.Indent()
		for _, c := range n.Children {
			l.AppendItem(p.label(c))
			add(c)
		}
		l.UnIndent()
	}
	add(root)
	fmt.Fprintln(p.output, l.Render())
}

func (p *Printer) label(n *scanner.Node) string {
	if !n.IsDir {
		return n.Name
	}
	s := p.paint(color.FgBlue, n.Name+"/")
	if n.AccessDenied {
		s += " " + p.paint(color.FgRed, "[access denied]")
	}
	return s
}

func (p *Printer) printTable(title string, items []string) {
	t := table.NewWriter()
	t.SetOutputMirror(p.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", title})
	for i, item := range items {
		t.AppendRow(table.Row{i + 1, item})
	}
	t.SetCaption("%d total", len(items))
	t.Render()
}

func (p *Printer) paint(attr color.Attribute, s string) string {
	if !p.useColors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}
