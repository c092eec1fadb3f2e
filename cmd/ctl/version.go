package ctl

import (
	"fmt"
	"io"
	"runtime/debug"

	"kapsel/cmd/ctl/root"

	"github.com/spf13/cobra"
)

// Set through -ldflags "-X kapsel/cmd/ctl.SoftwareVer=..." by release builds
var (
	SoftwareVer   = ""
	BuildTime     = ""
	BuildCommitId = ""
)

// BuildInfo is what kapselctl knows about its own build.
type BuildInfo struct {
	Version   string
	GoVersion string
	Commit    string
	Time      string
	Modified  bool
}

/**
 * Collect build information
 * @returns {BuildInfo} Returns ldflags values, completed from the embedded module build info
 * @description
 * - ldflags win, the VCS stamps of `go build` fill whatever they left empty
 */
func CollectBuildInfo() BuildInfo {
	bi := BuildInfo{Version: SoftwareVer, Commit: BuildCommitId, Time: BuildTime}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	if bi.Version == "" {
		bi.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Time == "" {
				bi.Time = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func PrintVersions(out io.Writer, bi BuildInfo) {
	version := orUnknown(bi.Version)
	if bi.Modified {
		version += " (modified)"
	}
	fmt.Fprintf(out, "kapselctl %s\n", version)
	fmt.Fprintf(out, "  commit: %s\n", orUnknown(bi.Commit))
	fmt.Fprintf(out, "  built:  %s\n", orUnknown(bi.Time))
	fmt.Fprintf(out, "  go:     %s\n", orUnknown(bi.GoVersion))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersions(cmd.OutOrStdout(), CollectBuildInfo())
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)
}
