package ignore

import "github.com/bethropolis/dir-scanner/internal/pathcmp"

// Option configures a Matcher at build time
type Option func(*Matcher)

// WithComparer overrides the platform path comparer. Tests use it to pin the
// case policy independently of the host.
func WithComparer(cmp pathcmp.Comparer) Option {
	return func(m *Matcher) {
		m.cmp = cmp
	}
}
