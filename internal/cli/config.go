package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Show or modify configuration",
	Long: `View or change xaheen configuration stored in ~/.xaheen/config.toml.

With no arguments, shows all configuration settings.
With one argument, shows the value of that key.
With two arguments, sets the key to the given value. An empty value unsets it.

Settings:
  db_path             Path to the SQLite database
  default_format      Default output format: "table" or "json"
  max_suggestions     Suggestions shown for unknown commands (default 5)
  min_similarity      Minimum score in [0,1] for a suggestion (default 0.3)
  include_aliases     Whether exact alias hits are suggested (default true)
  contextual_boost    Whether history and project boost scores (default true)
  framework           Override the detected framework (react, laravel, ...)
  features            Comma-separated project features (typescript,tailwind)
  preferred_commands  Comma-separated commands to rank higher
  category_weights    Per-category boosts, e.g. "generator=0.1,devops=0.05"
  catalog_path        YAML file extending the built-in command catalog`,
	Example: `  xaheen config
  xaheen config min_similarity
  xaheen config min_similarity 0.5
  xaheen config framework laravel
  xaheen config preferred_commands make:model,make:controller
  xaheen config category_weights generator=0.1
  xaheen config framework ""`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		w := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return showConfig(w, c)
		case 1:
			return getConfigValue(w, c, args[0])
		default:
			return setConfigValue(w, c, args[0], args[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func showConfig(w io.Writer, c *config.Config) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	tbl := NewTable(w, "KEY", "VALUE")
	for _, key := range config.ValidKeys() {
		val, _ := c.Get(key)
		if val == "" {
			val = tbl.Dim("(not set)")
		}
		tbl.Row(key, val)
	}
	return tbl.Flush()
}

func getConfigValue(w io.Writer, c *config.Config, key string) error {
	val, err := c.Get(key)
	if err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	fmt.Fprintln(w, val)
	return nil
}

func setConfigValue(w io.Writer, c *config.Config, key, value string) error {
	if err := c.Set(key, value); err != nil {
		return err
	}
	if err := c.SaveTo(configPath); err != nil {
		return err
	}
	if value == "" {
		fmt.Fprintf(w, "%s unset\n", key)
		return nil
	}
	val, _ := c.Get(key)
	fmt.Fprintf(w, "%s = %s\n", key, val)
	return nil
}
