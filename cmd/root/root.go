package root

import (
	"context"
	"os"

	"kapsel/internal/config"
	"kapsel/internal/env"
	"kapsel/internal/logger"
	"kapsel/services"

	"github.com/spf13/cobra"
)

// ExitCode is the exit code of the process once RootCmd has run
var ExitCode = env.ExitFailure

var RootCmd = &cobra.Command{
	Use:   "kapsel [-J<runtime flag>...] [args...]",
	Short: "Launch the Java application bundled with this executable",
	Long: `kapsel extracts the application bundled with this executable into a per-user
cache and runs it on the Java runtime. Arguments starting with -J are passed
to the runtime with the prefix removed, every other argument is passed to the
application unchanged.`,
	DisableFlagParsing:    true,
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	SilenceErrors:         true,
	Args:                  cobra.ArbitraryArgs,
	CompletionOptions:     cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := launch(cmd.Context(), args)
		ExitCode = code
		return err
	},
}

func launch(ctx context.Context, args []string) (int, error) {
	settings, err := config.Load()
	if err != nil {
		logger.InitLogger(os.Stderr, "warn")
		return env.ExitFailure, err
	}
	level := "warn"
	if settings.DebugEnabled() {
		level = "debug"
	}
	logger.InitLogger(os.Stderr, level)

	return services.Launch(ctx, settings, args)
}

// Execute runs the launcher with the process arguments and returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:])
}

/**
 * Run the launcher with args and return the exit code
 * @param {[]string} args - Arguments, program name excluded
 * @returns {int} Returns the application's exit code, 128 when the launcher failed
 * @description
 * - RunE is called directly, cobra never routes the arguments, so tokens such as
 *   "completion" or "__complete" reach the application like any other
 */
func ExecuteArgs(args []string) int {
	ExitCode = env.ExitFailure
	RootCmd.SetContext(context.Background())
	if err := RootCmd.RunE(RootCmd, args); err != nil {
		logger.Error(err)
		if ExitCode == 0 {
			ExitCode = env.ExitFailure
		}
	}
	return ExitCode
}
