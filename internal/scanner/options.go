package scanner

import (
	"io/fs"
	"os"

	"github.com/bethropolis/dir-scanner/internal/logger"
	"github.com/bethropolis/dir-scanner/internal/pathcmp"
)

// DirReader lists a directory. os.ReadDir is the default.
type DirReader func(path string) ([]fs.DirEntry, error)

type options struct {
	logger         logger.Interface
	readDir        DirReader
	followSymlinks bool
	maxDepth       int
	cmp            *pathcmp.Comparer
	trackSkipped   bool
}

func defaultOptions() options {
	return options{
		logger:  logger.Nop{},
		readDir: os.ReadDir,
	}
}

// Option is a functional option for configuring a Scanner
type Option func(*options)

// WithLogger sets the logger for access problems and per-entry decisions
func WithLogger(l logger.Interface) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDirReader replaces the directory listing function
func WithDirReader(read DirReader) Option {
	return func(o *options) {
		if read != nil {
			o.readDir = read
		}
	}
}

// WithFollowSymlinks descends into symlinked directories. Each real
// directory is entered at most once.
func WithFollowSymlinks(enabled bool) Option {
	return func(o *options) {
		o.followSymlinks = enabled
	}
}

// WithMaxDepth bounds recursion; entries at depth n are listed but
// directories at that depth are not entered. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithComparer overrides the ordering comparer, which otherwise comes from
// the rules.
func WithComparer(cmp pathcmp.Comparer) Option {
	return func(o *options) {
		o.cmp = &cmp
	}
}

// WithTrackSkipped records every pruned entry in the result
func WithTrackSkipped(enabled bool) Option {
	return func(o *options) {
		o.trackSkipped = enabled
	}
}
