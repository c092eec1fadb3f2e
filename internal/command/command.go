package command

import (
	"path/filepath"
	"strings"

	"kapsel/internal/models"
)

/**
 * Split command line arguments into runtime flags and application arguments
 * @param {[]string} args - Arguments given to the launcher, program name excluded
 * @param {string} marker - Prefix that addresses an argument to the runtime ("-J")
 * @returns {[]string} runtimeFlags - Marked arguments with the marker stripped, in order
 * @returns {[]string} appArgs - Every other argument, in order
 * @description
 * - Only the first occurrence of the marker is removed: "-J-J" becomes "-J"
 * - A bare marker yields an empty flag, which is dropped
 */
func SplitArgs(args []string, marker string) (runtimeFlags, appArgs []string) {
	runtimeFlags = []string{}
	appArgs = []string{}
	for _, arg := range args {
		if !strings.HasPrefix(arg, marker) {
			appArgs = append(appArgs, arg)
			continue
		}
		if flag := strings.TrimPrefix(arg, marker); flag != "" {
			runtimeFlags = append(runtimeFlags, flag)
		}
	}
	return runtimeFlags, appArgs
}

// ClassPath joins the materialized items with the platform list separator.
func ClassPath(layout *models.CacheLayout) string {
	paths := make([]string, 0, len(layout.Items))
	for _, item := range layout.Items {
		paths = append(paths, layout.Path(item))
	}
	return strings.Join(paths, string(filepath.ListSeparator))
}

// Input holds everything needed to build the runtime command line.
type Input struct {
	Executable     string
	RuntimeOptions []string //from the manifest
	RuntimeFlags   []string //from the command line
	ClassPath      string
	EntryPoint     string
	AppArgs        []string
}

/**
 * Assemble the runtime command line
 * @param {Input} in - Command parts
 * @returns {models.LaunchCommand} Returns argv, executable first
 * @description
 * - Order: executable, manifest options, command line runtime flags,
 *   "-cp" and the class path, entry point, application arguments
 * - Every element is passed verbatim, no shell is involved
 */
func Assemble(in Input) models.LaunchCommand {
	cmd := make(models.LaunchCommand, 0, 4+len(in.RuntimeOptions)+len(in.RuntimeFlags)+len(in.AppArgs))
	cmd = append(cmd, in.Executable)
	cmd = append(cmd, in.RuntimeOptions...)
	cmd = append(cmd, in.RuntimeFlags...)
	cmd = append(cmd, "-cp", in.ClassPath)
	cmd = append(cmd, in.EntryPoint)
	cmd = append(cmd, in.AppArgs...)
	return cmd
}
