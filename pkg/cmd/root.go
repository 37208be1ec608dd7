package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/clirack/clirack/pkg/cli"
	"github.com/clirack/clirack/pkg/config"
	"github.com/clirack/clirack/pkg/extension"
	"github.com/clirack/clirack/pkg/loader"
)

var (
	flagVerbose  bool
	flagNoColor  bool
	flagCacheDir string

	// DevCfg holds the resolved developer configuration, available to all
	// subcommands after PersistentPreRunE completes.
	DevCfg *config.DevConfig
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clirack",
		Short: "Toolkit CLI for fetching and caching external resources",
		Long: `clirack fetches resources identified by locators (local paths, git
repositories, GitHub archives) into a local cache and keeps the cache fresh.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Flags{
				CacheDir: flagCacheDir,
				NoColor:  flagNoColor,
				Verbose:  flagVerbose,
			})
			if err != nil {
				return err
			}
			DevCfg = cfg
			cli.Setup(cli.Options{Verbose: cfg.Verbose, NoColor: cfg.NoColor})
			applyConfig(loader.Default(), cfg)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug output")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "loader cache directory (default ~/.clirack/cache)")

	root.AddCommand(newFetchCmd())
	root.AddCommand(newCacheCmd())

	return root
}

// applyConfig points the registry at the configured cache root and aligns
// every loader's progress logger with the console settings.
func applyConfig(reg *loader.Registry, cfg *config.DevConfig) {
	reg.SetTargetDir(cfg.CacheDir)
	for _, l := range reg.Loaders() {
		if s, ok := l.(interface{ SetLogger(*log.Logger) }); ok {
			s.SetLogger(cli.NewLogger("loader." + l.LocatorType()))
		}
	}
}

func Execute() {
	root := NewRootCmd()
	if err := extension.Attach(root); err != nil {
		cli.Fail(err, 1)
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
