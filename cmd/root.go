package cmd

import (
	"errors"
	"fmt"
	"os"

	"clip-remix/infrastructure/config"
	"clip-remix/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	cfg       *config.Config
	cfgLoaded bool
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "clip-remix",
	Short: "Build a remix video from a folder of clips",
	Long: `clip-remix samples short, non-overlapping segments from the videos in a folder
and joins them with a crossfade into a single remix:

  - Scan a folder recursively for .mp4, .avi and .mov files
  - Pick random segments without reusing footage
  - Render them with ffmpeg into one file
  - Optionally publish the result to Google Drive

Example:
  clip-remix generate --input ~/Videos/holiday --clip-length 8 --total-length 90`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if cfg != nil {
			level = cfg.Logging.Level
		}
		logging.Init(level, verbose)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	loaded, err := config.Load(cfgFile)
	switch {
	case err == nil:
		cfg, cfgLoaded, cfgErr = loaded, true, nil
	case errors.Is(err, os.ErrNotExist):
		// Every setting has a default, so generate works without a file
		cfg, cfgLoaded, cfgErr = config.Default(), false, nil
	default:
		cfg, cfgLoaded, cfgErr = nil, false, err
	}
}

// GetConfig returns the loaded configuration, or defaults when no file exists
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
