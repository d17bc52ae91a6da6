// Package cli defines the dir-scanner command tree
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bethropolis/dir-scanner/internal/app"
	"github.com/bethropolis/dir-scanner/internal/config"
)

type flags struct {
	configPath string

	root     string
	selected []string

	hiddenFolders bool
	hiddenFiles   bool
	dotFolders    bool
	dotFiles      bool

	smartIgnore bool
	gitIgnore   bool
	ignoreFiles []string
	ignore      []string

	followSymlinks bool
	maxDepth       int
	timeout        time.Duration
	debounce       time.Duration

	logLevel    string
	noColor     bool
	jsonOutput  bool
	showSkipped bool

	rootOnly bool
}

// NewRootCommand builds the command tree writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	f := &flags{}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:           "dir-scanner",
		Short:         "List a directory tree the way git sees it, minus build artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&f.root, "dir", "d", defaults.RootDir, "directory to scan")
	pf.StringSliceVar(&f.selected, "select", nil, "top-level folders to focus on (repeatable)")
	pf.BoolVar(&f.hiddenFolders, "ignore-hidden-folders", defaults.IgnoreHiddenFolders, "skip folders with the hidden attribute")
	pf.BoolVar(&f.hiddenFiles, "ignore-hidden-files", defaults.IgnoreHiddenFiles, "skip files with the hidden attribute")
	pf.BoolVar(&f.dotFolders, "ignore-dot-folders", defaults.IgnoreDotFolders, "skip folders whose name starts with '.'")
	pf.BoolVar(&f.dotFiles, "ignore-dot-files", defaults.IgnoreDotFiles, "skip files whose name starts with '.'")
	pf.BoolVar(&f.smartIgnore, "smart-ignore", defaults.SmartIgnore, "skip build artifacts of detected ecosystems")
	pf.BoolVar(&f.gitIgnore, "gitignore", defaults.UseGitIgnore, "respect ignore files")
	pf.StringSliceVar(&f.ignoreFiles, "ignore-file", defaults.IgnoreFileNames, "ignore file names to load (repeatable)")
	pf.StringSliceVarP(&f.ignore, "ignore", "i", nil, "extra ignore patterns for the scan root (repeatable)")
	pf.BoolVarP(&f.followSymlinks, "follow-symlinks", "L", defaults.FollowSymlinks, "descend into symlinked directories")
	pf.IntVar(&f.maxDepth, "max-depth", defaults.MaxDepth, "maximum depth to descend, 0 for unlimited")
	pf.DurationVar(&f.timeout, "timeout", defaults.Timeout, "abort a scan after this long, 0 for no limit")
	pf.DurationVar(&f.debounce, "debounce", defaults.WatchDebounce, "quiet period before a watch rescan")
	pf.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "debug, info, warn, error or none")
	pf.BoolVar(&f.noColor, "no-color", defaults.NoColor, "disable colored output")
	pf.BoolVar(&f.jsonOutput, "json", defaults.JSONOutput, "print results as JSON")
	pf.BoolVar(&f.showSkipped, "show-skipped", defaults.ShowSkipped, "list every ignored path on stderr")

	run := func(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return fn(ctx, app.New(cfg).WithOutput(cmd.OutOrStdout()))
		}
	}

	extensions := &cobra.Command{
		Use:   "extensions",
		Short: "List the distinct extensions of visible files",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app.App) error {
			return a.Extensions(ctx, f.rootOnly)
		}),
	}
	extensions.Flags().BoolVar(&f.rootOnly, "root-only", false, "only look at files directly under the root")

	root.AddCommand(
		&cobra.Command{
			Use:   "tree",
			Short: "Print the visible directory tree",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app.App) error {
				return a.Tree(ctx)
			}),
		},
		extensions,
		&cobra.Command{
			Use:   "folders",
			Short: "List the visible folders directly under the root",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app.App) error {
				return a.Folders(ctx)
			}),
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print the tree and print it again whenever it changes",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app.App) error {
				return a.Watch(ctx)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "dir-scanner version %s\n", config.Version)
			},
		},
	)
	return root
}

// load reads the config file, then applies only the flags given on the
// command line
func (f *flags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("dir", func() { cfg.RootDir = f.root })
	set("select", func() { cfg.SelectedFolders = f.selected })
	set("ignore-hidden-folders", func() { cfg.IgnoreHiddenFolders = f.hiddenFolders })
	set("ignore-hidden-files", func() { cfg.IgnoreHiddenFiles = f.hiddenFiles })
	set("ignore-dot-folders", func() { cfg.IgnoreDotFolders = f.dotFolders })
	set("ignore-dot-files", func() { cfg.IgnoreDotFiles = f.dotFiles })
	set("smart-ignore", func() { cfg.SmartIgnore = f.smartIgnore })
	set("gitignore", func() { cfg.UseGitIgnore = f.gitIgnore })
	set("ignore-file", func() { cfg.IgnoreFileNames = f.ignoreFiles })
	set("ignore", func() { cfg.CustomIgnore = append(cfg.CustomIgnore, f.ignore...) })
	set("follow-symlinks", func() { cfg.FollowSymlinks = f.followSymlinks })
	set("max-depth", func() { cfg.MaxDepth = f.maxDepth })
	set("timeout", func() { cfg.Timeout = f.timeout })
	set("debounce", func() { cfg.WatchDebounce = f.debounce })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("no-color", func() { cfg.NoColor = f.noColor })
	set("json", func() { cfg.JSONOutput = f.jsonOutput })
	set("show-skipped", func() { cfg.ShowSkipped = f.showSkipped })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.DetectColors(os.Stderr)
	return cfg, nil
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
