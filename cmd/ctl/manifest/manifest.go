package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"kapsel/cmd/ctl/root"
	"kapsel/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var output string

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the launch configuration of a bundle",
	Long:  "Parse META-INF/MANIFEST.MF of the bundle and print the launch configuration the launcher would use",
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
		return Print(cmd.OutOrStdout(), cfg, output)
	},
}

/**
 * Print a launch configuration in the requested format
 * @param {io.Writer} w - Destination
 * @param {*models.LaunchConfig} cfg - Launch configuration
 * @param {string} format - yaml or json
 * @returns {error} Returns error for an unknown format
 */
func Print(w io.Writer, cfg *models.LaunchConfig, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unknown output format '%s', use yaml or json", format)
	}
}

func init() {
	root.RootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format (yaml/json)")

	manifestCmd.Example = `  kapselctl manifest --bundle app
  kapselctl manifest -o json`
}
