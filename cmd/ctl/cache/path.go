package cache

import (
	"fmt"

	"kapsel/cmd/ctl/root"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory of the bundled application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := root.NewLauncher()
		if err != nil {
			return err
		}
		cfg, err := l.LoadConfig()
		if err != nil {
			return err
		}
		layout, err := l.Layout(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), layout.Dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(pathCmd)
}
