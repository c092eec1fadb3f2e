package env

import (
	"os"
)

// ProductName names the per-user cache directory of every kapsel application.
const ProductName = "kapsel"

// EnvPrefix is the prefix of every kapsel environment variable (KAPSEL_JAVA, KAPSEL_CACHE, ...)
const EnvPrefix = "KAPSEL"

// ExitFailure is returned when the launcher itself fails, so callers can tell
// a broken launch apart from an application that exited with an error.
const ExitFailure = 128

// ManifestPath is the location of the manifest inside a bundle
const ManifestPath = "META-INF/MANIFEST.MF"

// LockDirName is the directory under the cache base holding per-application
// lock files. No application id may take this name.
const LockDirName = ".locks"

// RuntimeArgMarker marks command line arguments addressed to the runtime
const RuntimeArgMarker = "-J"

/**
 * Get the home directory of the current user
 * @returns {string} Returns home directory, empty when it cannot be determined
 */
func HomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return homeDir
}
