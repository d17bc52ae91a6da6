package scanner

// Node is one visible entry of the tree
type Node struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	IsDir        bool    `json:"isDir"`
	AccessDenied bool    `json:"accessDenied,omitempty"`
	Icon         string  `json:"icon"`
	Children     []*Node `json:"children,omitempty"`
}

// Result is the outcome of one scan
type Result[T any] struct {
	Payload          T
	RootAccessDenied bool
	HadAccessDenied  bool
	Stats            Stats
	Skipped          []SkippedItem
}

// Stats counts what a scan looked at
type Stats struct {
	Dirs         int `json:"dirs"`
	Files        int `json:"files"`
	IgnoredDirs  int `json:"ignoredDirs"`
	IgnoredFiles int `json:"ignoredFiles"`
	DeniedDirs   int `json:"deniedDirs"`
}

// SkippedItem holds information about a pruned path
type SkippedItem struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	IsDir  bool   `json:"is_dir"`
}

const (
	reasonAccessDenied = "access denied"
	reasonNothingKept  = "ignored, no re-included content"
)
