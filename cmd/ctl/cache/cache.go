package cache

import (
	"kapsel/cmd/ctl/root"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Application cache operations (path/warm/verify)",
	Long:  `Application cache operations (path/warm/verify)`,
}

const cacheExample = `  # show where the application is extracted
  kapselctl cache path --bundle app
  kapselctl cache warm --bundle app
  kapselctl cache warm --bundle app --refresh changed
  kapselctl cache verify --bundle app`

func init() {
	root.RootCmd.AddCommand(cacheCmd)

	cacheCmd.Example = cacheExample
}
