package root

import (
	"kapsel/internal/config"
	"kapsel/internal/logger"
	"kapsel/services"

	"github.com/spf13/cobra"
)

var (
	bundlePath string
	debug      bool
)

var RootCmd = &cobra.Command{
	Use:   "kapselctl",
	Short: "Inspect kapsel bundles and application caches",
	Long:  `kapselctl reads the manifest of a kapsel bundle and manages the cache the launcher extracts it into. It never starts the application.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if debug {
			level = "debug"
		}
		logger.InitLogger(cmd.ErrOrStderr(), level)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

/**
 * Load settings from the environment, with --bundle taking precedence over KAPSEL_BUNDLE
 * @returns {*config.Settings} Returns settings snapshot
 */
func Settings() (*config.Settings, error) {
	s, err := config.Load()
	if err != nil {
		return nil, err
	}
	if bundlePath != "" {
		s.Bundle = bundlePath
	}
	return s, nil
}

// NewLauncher builds a launcher from Settings
func NewLauncher() (*services.Launcher, *config.Settings, error) {
	s, err := Settings()
	if err != nil {
		return nil, nil, err
	}
	return services.NewLauncher(s), s, nil
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&bundlePath, "bundle", "b", "", "Bundle path (zip, executable with appended zip, or directory), default KAPSEL_BUNDLE")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Trace every stage on stderr")
}
