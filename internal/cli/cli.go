package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/buildinfo"
	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/observability"
	"github.com/matzehuels/railroad/pkg/pipeline"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "railroad"

	// configFile is read from the working directory when --config is not given.
	configFile = "railroad.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results, Err progress and diagnostics.
	Out io.Writer
	Err io.Writer

	configPath string
	config     *Config
}

// New creates a CLI writing results to out and logs to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errw, level),
		Out:    out,
		Err:    errw,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Railroad draws syntax diagrams as SVG",
		Long: `Railroad lays out syntax (railroad) diagrams from JSON, YAML or TOML
descriptions and renders them to SVG, PNG or PDF.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case verbose:
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Register()
			case quiet:
				c.SetLogLevel(LogWarn)
			}

			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+configFile+" when present)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue(c.Out, "version", buildinfo.Version)
			printKeyValue(c.Out, "commit", buildinfo.Commit)
			printKeyValue(c.Out, "built", buildinfo.Date)
		},
	}
}

// cfg returns the loaded config, or the defaults before PersistentPreRunE.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		return defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is logged and replaced by no caching. font, when set, is a font
// file that replaces the named measurer.
func (c *CLI) newRunner(ctx context.Context, noCache bool, font string) (*pipeline.Runner, error) {
	runner := pipeline.NewRunner(c.newCache(ctx, noCache), cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger)
	runner.TTL = c.cfg().Cache.TTL.Duration

	if font != "" {
		m, id, err := loadFont(font)
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.Measurer, runner.MeasurerID = m, id
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cc := c.cfg().Cache
	opts := cache.Options{Backend: cc.Backend, Dir: cc.Dir, RedisURL: cc.RedisURL}
	if noCache {
		opts.Backend = cache.BackendNone
	}
	if (opts.Backend == "" || opts.Backend == cache.BackendFile) && opts.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			opts.Dir = dir
		}
	}

	ch, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache unavailable, rendering without it", "backend", opts.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// loadFont reads a font file for measuring. The returned id keys the cache
// by the font's content.
func loadFont(path string) (textwidth.Measurer, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read font %s", path)
	}
	m, err := textwidth.ParseFont(data)
	if err != nil {
		return nil, "", err
	}
	return m, cache.Hash(data), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/railroad/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
