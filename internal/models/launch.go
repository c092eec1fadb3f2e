package models

import (
	"path/filepath"
	"strings"
)

/**
 * Launch configuration read from the bundle manifest
 * @property {string} ApplicationID - Cache sub-directory name, never empty
 * @property {[]string} RuntimeOptions - Options passed to the runtime before anything else
 * @property {string} EntryPoint - Fully-qualified class the runtime executes
 * @property {[]string} PayloadItems - Relative paths of bundled files to materialize
 */
type LaunchConfig struct {
	ApplicationID  string   `json:"applicationId" yaml:"applicationId"`
	RuntimeOptions []string `json:"runtimeOptions" yaml:"runtimeOptions"`
	EntryPoint     string   `json:"entryPoint" yaml:"entryPoint"`
	PayloadItems   []string `json:"payloadItems" yaml:"payloadItems"`
}

// CacheLayout describes a materialized application cache.
type CacheLayout struct {
	Base  string   //cache base directory
	Dir   string   //Base joined with the application id
	Items []string //payload items present in Dir, in declaration order
}

// Path resolves a payload item against the cache directory.
func (cl *CacheLayout) Path(item string) string {
	return filepath.Join(cl.Dir, filepath.FromSlash(item))
}

// LaunchCommand is the full argv of the runtime child process, executable first.
type LaunchCommand []string

func (lc LaunchCommand) Executable() string {
	if len(lc) == 0 {
		return ""
	}
	return lc[0]
}

func (lc LaunchCommand) Args() []string {
	if len(lc) == 0 {
		return nil
	}
	return lc[1:]
}

func (lc LaunchCommand) String() string {
	return strings.Join(lc, " ")
}
