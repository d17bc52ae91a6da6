// Package scanner walks a directory tree and applies the ignore rules to every
// entry, producing either the visible tree or an inventory derived from it.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bethropolis/dir-scanner/internal/pathcmp"
	"github.com/bethropolis/dir-scanner/internal/rules"
)

// Scanner is safe for concurrent use; each call walks independently
type Scanner struct {
	rules *rules.IgnoreRules
	opts  options
	cmp   pathcmp.Comparer
}

// New creates a Scanner bound to one set of rules
func New(r *rules.IgnoreRules, opts ...Option) *Scanner {
	if r == nil {
		r = rules.New()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cmp := r.Comparer()
	if o.cmp != nil {
		cmp = *o.cmp
	}
	return &Scanner{rules: r, opts: o, cmp: cmp}
}

type walkMode int

const (
	modeFull walkMode = iota
	// only the root is listed; ignored directories that may hold re-included
	// content are still probed
	modeRootFolders
	// only the root is listed
	modeRootFiles
)

// Tree returns the visible hierarchy under root
func (s *Scanner) Tree(ctx context.Context, root string) (Result[*Node], error) {
	node, w, err := s.run(ctx, root, modeFull)
	if err != nil {
		return Result[*Node]{}, err
	}
	return result(w, node), nil
}

// Extensions returns every distinct extension of a visible file
func (s *Scanner) Extensions(ctx context.Context, root string) (Result[[]string], error) {
	node, w, err := s.run(ctx, root, modeFull)
	if err != nil {
		return Result[[]string]{}, err
	}
	return result(w, s.extensions(node, -1)), nil
}

// RootExtensions returns the distinct extensions of visible files directly
// under root
func (s *Scanner) RootExtensions(ctx context.Context, root string) (Result[[]string], error) {
	node, w, err := s.run(ctx, root, modeRootFiles)
	if err != nil {
		return Result[[]string]{}, err
	}
	return result(w, s.extensions(node, 1)), nil
}

// RootFolders returns the names of visible directories directly under root
func (s *Scanner) RootFolders(ctx context.Context, root string) (Result[[]string], error) {
	node, w, err := s.run(ctx, root, modeRootFolders)
	if err != nil {
		return Result[[]string]{}, err
	}
	names := []string{}
	if node != nil {
		for _, c := range node.Children {
			if c.IsDir {
				names = append(names, c.Name)
			}
		}
	}
	return result(w, names), nil
}

func result[T any](w *walk, payload T) Result[T] {
	return Result[T]{
		Payload:          payload,
		RootAccessDenied: w.rootDenied,
		HadAccessDenied:  w.denied,
		Stats:            w.stats,
		Skipped:          w.skipped,
	}
}

func (s *Scanner) extensions(root *Node, maxDepth int) []string {
	seen := map[string]struct{}{}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		for _, c := range n.Children {
			if !c.IsDir {
				if ext := Ext(c.Name); ext != "" {
					seen[ext] = struct{}{}
				}
				continue
			}
			if maxDepth < 0 || depth < maxDepth {
				visit(c, depth+1)
			}
		}
	}
	if root != nil {
		visit(root, 1)
	}

	out := make([]string, 0, len(seen))
	for ext := range seen {
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool { return s.cmp.Less(out[i], out[j]) })
	return out
}

// run lists the root and walks below it according to mode. A nil node with a
// nil error means the root could not be listed.
func (s *Scanner) run(ctx context.Context, root string, mode walkMode) (*Node, *walk, error) {
	w := &walk{s: s, ctx: ctx, mode: mode}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		s.opts.logger.Warn("Cannot resolve %s: %v", root, err)
		abs = filepath.Clean(root)
	}

	entries, err := s.opts.readDir(abs)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			s.opts.logger.Warn("Access denied to scan root %s", abs)
			w.rootDenied, w.denied = true, true
		case errors.Is(err, fs.ErrNotExist):
			s.opts.logger.Debug("Scan root %s does not exist", abs)
		default:
			s.opts.logger.Warn("Cannot list scan root %s: %v", abs, err)
		}
		return nil, w, nil
	}

	realRoot := abs
	if s.opts.followSymlinks {
		w.visited = map[string]struct{}{}
		if r, err := filepath.EvalSymlinks(abs); err == nil {
			realRoot = r
		}
		w.visited[s.cmp.Key(realRoot)] = struct{}{}
	}

	node := &Node{Name: filepath.Base(abs), Path: abs, IsDir: true, Icon: IconFolder}
	w.stats.Dirs++
	if err := w.children(node, realRoot, entries, 1); err != nil {
		return nil, nil, err
	}
	s.opts.logger.Debug("Scanned %s: %d dirs, %d files, %d ignored", abs,
		w.stats.Dirs, w.stats.Files, w.stats.IgnoredDirs+w.stats.IgnoredFiles)
	return node, w, nil
}

type walk struct {
	s          *Scanner
	ctx        context.Context
	mode       walkMode
	visited    map[string]struct{}
	rootDenied bool
	denied     bool
	stats      Stats
	skipped    []SkippedItem
}

// enter lists dir and fills its children. depth is the depth of the
// children; the root's children are at depth 1.
func (w *walk) enter(dir *Node, realPath string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if w.visited != nil {
		key := w.s.cmp.Key(realPath)
		if _, ok := w.visited[key]; ok {
			w.s.opts.logger.Debug("Already visited %s, not descending", dir.Path)
			return nil
		}
		w.visited[key] = struct{}{}
	}

	entries, err := w.s.opts.readDir(dir.Path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			w.s.opts.logger.Warn("Access denied: %s", dir.Path)
			dir.AccessDenied = true
			w.denied = true
			w.stats.DeniedDirs++
			w.track(dir.Path, reasonAccessDenied, true)
		} else {
			w.s.opts.logger.Warn("Cannot list %s: %v", dir.Path, err)
		}
		return nil
	}
	w.stats.Dirs++
	return w.children(dir, realPath, entries, depth)
}

func (w *walk) children(dir *Node, realPath string, entries []fs.DirEntry, depth int) error {
	var dirs, files []*Node
	for _, e := range entries {
		n, err := w.entry(dir.Path, realPath, e, depth)
		if err != nil {
			return err
		}
		switch {
		case n == nil:
		case n.IsDir:
			dirs = append(dirs, n)
		default:
			files = append(files, n)
		}
	}
	w.sortNodes(dirs)
	w.sortNodes(files)
	dir.Children = append(dirs, files...)
	return nil
}

func (w *walk) entry(parent, parentReal string, e fs.DirEntry, depth int) (*Node, error) {
	name := e.Name()
	full := filepath.Join(parent, name)
	isDir, realPath := w.resolve(full, filepath.Join(parentReal, name), e)

	d := w.s.rules.Decide(full, name, isDir)
	if d.Ignored && !d.Traverse {
		w.s.opts.logger.Debug("Ignored %s (%s)", full, d.Reason)
		w.skip(full, string(d.Reason), isDir)
		return nil, nil
	}

	n := &Node{Name: name, Path: full, IsDir: isDir, Icon: IconFor(name, isDir)}
	if !isDir {
		w.stats.Files++
		return n, nil
	}
	if !w.canDescend(depth, d.Ignored) {
		if d.Ignored {
			w.skip(full, reasonNothingKept, true)
			return nil, nil
		}
		return n, nil
	}

	if err := w.enter(n, realPath, depth+1); err != nil {
		return nil, err
	}
	if d.Ignored && len(n.Children) == 0 {
		w.s.opts.logger.Debug("Ignored %s (%s), nothing re-included below it", full, d.Reason)
		w.skip(full, reasonNothingKept, true)
		return nil, nil
	}
	return n, nil
}

// resolve reports whether the entry is a directory to descend into, and its
// real path. Symlinks are leaves unless following is enabled.
func (w *walk) resolve(full, joinedReal string, e fs.DirEntry) (bool, string) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), joinedReal
	}
	if !w.s.opts.followSymlinks {
		return false, ""
	}
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return false, ""
	}
	target, err := filepath.EvalSymlinks(full)
	if err != nil {
		return false, ""
	}
	return true, target
}

func (w *walk) canDescend(depth int, ignored bool) bool {
	if limit := w.s.opts.maxDepth; limit > 0 && depth >= limit {
		return false
	}
	switch w.mode {
	case modeRootFiles:
		return false
	case modeRootFolders:
		return ignored
	}
	return true
}

func (w *walk) sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return w.s.cmp.Less(nodes[i].Name, nodes[j].Name) })
}

func (w *walk) skip(path, reason string, isDir bool) {
	if isDir {
		w.stats.IgnoredDirs++
	} else {
		w.stats.IgnoredFiles++
	}
	w.track(path, reason, isDir)
}

func (w *walk) track(path, reason string, isDir bool) {
	if w.s.opts.trackSkipped {
		w.skipped = append(w.skipped, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
	}
}
