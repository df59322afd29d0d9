// Package cli defines the cobra command tree for the xaheen CLI.
package cli

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/config"
	"github.com/xaheen/xaheen/internal/logging"
)

var (
	dbPath     string
	jsonOutput bool
	verbose    bool

	// cfg is the configuration loaded before each command runs.
	cfg = &config.Config{}
	// logger writes diagnostics to stderr.
	logger = logging.Discard()
	// logOut is where component loggers write; set before each command.
	logOut io.Writer
)

// configPath is the path to the config file, settable for testing.
var configPath = config.Path()

func defaultDBPath() string {
	return filepath.Join(config.Dir(), "xaheen.db")
}

// rootCmd is the top-level xaheen command. Arguments that do not name a
// subcommand are dispatched as xaheen commands.
var rootCmd = &cobra.Command{
	Use:   "xaheen [command] [args...]",
	Short: "Xaheen - project generator with forgiving command routing",
	Long: `xaheen scaffolds components, services, infrastructure and tenants.

Commands are addressed as domain:action (make:component, helm:chart) or as
two words (make component). Short aliases like "mc" and legacy commands from
other tools ("ng g c", "php artisan make:model") resolve to the same routes.
Anything that does not resolve is matched fuzzily against the registered
commands and ranked using your project, recent history and usage counts.

Usage history and user aliases are stored in ~/.xaheen/xaheen.db
(configurable via --db or "xaheen config db_path"). Listing commands
support --json for machine-readable output.`,
	Example: `  # Run a generator
  xaheen make:component Button
  xaheen make model User --field name:string -m

  # Aliases and typos
  xaheen mc Button
  xaheen make:componnt Button

  # Explore
  xaheen suggest "helm chrt"
  xaheen next
  xaheen routes --domain make`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logOut = cmd.ErrOrStderr()
		logger = componentLogger("cli")
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			logger.Warn("ignoring unreadable config", "path", configPath, "error", err)
			loaded = &config.Config{}
		}
		cfg = loaded
		if cfg.DBPath != "" && !cmd.Flags().Changed("db") {
			dbPath = cfg.DBPath
		}
		if cfg.DefaultFormat == "json" && !cmd.Flags().Changed("json") {
			jsonOutput = true
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runDispatch(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to SQLite database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	// Flags after the command name belong to the generator, not to xaheen.
	rootCmd.Flags().SetInterspersed(false)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
