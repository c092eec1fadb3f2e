package cache

import (
	"fmt"

	"kapsel/cmd/ctl/root"
	"kapsel/internal/config"
	"kapsel/internal/models"

	"github.com/spf13/cobra"
)

var refresh string

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Extract the payload into the cache without launching",
	Long:  "Materialize every payload item of the bundle into the application cache, the same way the launcher does before it starts the runtime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return warm(cmd)
	},
}

/**
 * Warm the application cache
 * @description
 * - --refresh overrides KAPSEL_REFRESH
 * - Prints one line per item: copied or up to date
 * @throws
 * - ConfigurationError when the bundle or refresh policy is invalid
 * - MaterializationError when the payload cannot be written
 */
func warm(cmd *cobra.Command) error {
	l, s, err := root.NewLauncher()
	if err != nil {
		return err
	}
	if refresh != "" {
		if refresh != config.RefreshAlways && refresh != config.RefreshChanged {
			return models.ErrInvalidSettings("--refresh", refresh, "refresh policy must be 'always' or 'changed'")
		}
		s.Refresh = refresh
	}

	b, err := l.OpenBundle()
	if err != nil {
		return err
	}
	defer b.Close()

	cfg, err := b.LaunchConfig()
	if err != nil {
		return err
	}
	res, err := l.Materialize(cfg, b)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, it := range res.Items {
		state := "up to date"
		if it.Copied {
			state = fmt.Sprintf("copied (%d bytes)", it.Bytes)
		}
		fmt.Fprintf(out, "%s: %s\n", it.Path, state)
	}
	fmt.Fprintf(out, "%s ready, %d items\n", res.Layout.Dir, len(res.Items))
	return nil
}

func init() {
	cacheCmd.AddCommand(warmCmd)
	warmCmd.Flags().StringVar(&refresh, "refresh", "", "Refresh policy (always/changed), default KAPSEL_REFRESH")
}
