package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"clip-remix/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration values",
	Long: `Show and change values in the configuration file.

Examples:
  clip-remix config show
  clip-remix config get remix.max_clip_length
  clip-remix config set remix.max_clip_length 6
  clip-remix config set remix.extensions .mp4,.mov,.mkv`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show every configuration value",
	Args:    cobra.NoArgs,
	RunE:    runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if !cfgLoaded {
		fmt.Fprintf(DefaultOutput, "No config file at %s; showing defaults.\n\n", cfgFile)
	}
	return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		value := e.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Key, value)
	}
	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigGetWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	value, err := config.NewConfigManager(cfg, configPath).Get(key)
	if err != nil {
		return unknownKeyHint(err)
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one configuration value and save the file",
	Long: `Change one configuration value, validate the result and save the file.
The file is created with defaults if it does not exist yet.

Examples:
  clip-remix config set paths.input_directory ~/Videos/holiday
  clip-remix config set remix.max_total_length 01:30
  clip-remix config set remix.seed 42
  clip-remix config set remix.seed ""`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return unknownKeyHint(err)
	}

	saved, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %s\n", strings.ToLower(strings.TrimSpace(key)), saved)
	return nil
}

func unknownKeyHint(err error) error {
	if errors.Is(err, config.ErrUnknownKey) {
		return fmt.Errorf("%w\n\nKnown keys:\n  %s", err, strings.Join(config.Keys(), "\n  "))
	}
	return err
}
