// Package platform classifies the host operating system and derives the
// default per-user cache location for it.
package platform

import (
	"path/filepath"
	"runtime"
	"strings"

	"kapsel/internal/config"
	"kapsel/internal/env"
	"kapsel/internal/models"
)

// Kind is the closed set of platforms the launcher distinguishes.
type Kind int

const (
	Unknown Kind = iota
	Linux
	BSD
	MacOS
	Windows
)

func (k Kind) String() string {
	switch k {
	case Linux:
		return "linux"
	case BSD:
		return "bsd"
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// Classify maps an OS name to a Kind by case-insensitive substring match.
// Precedence is linux, bsd, mac, windows; anything else is Unknown.
func Classify(name string) Kind {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "linux"):
		return Linux
	case strings.Contains(name, "bsd"):
		return BSD
	case strings.Contains(name, "mac"), strings.Contains(name, "darwin"):
		return MacOS
	case strings.Contains(name, "windows"):
		return Windows
	default:
		return Unknown
	}
}

// Resolve classifies the platform the launcher was built for.
func Resolve() Kind {
	return Classify(runtime.GOOS)
}

// RuntimeBinary is the name of the runtime executable on the platform.
// Windows uses javaw so no console window is opened.
func RuntimeBinary(kind Kind) string {
	if kind == Windows {
		return "javaw"
	}
	return "java"
}

/**
 * Derive the OS-conventional cache base directory
 * @param {Kind} kind - Platform kind
 * @param {*config.Settings} s - Environment settings
 * @returns {string} Returns cache base directory
 * @description
 * - Linux/BSD: ${XDG_CACHE_HOME:-~/.cache}/kapsel
 * - MacOS: ~/Library/Caches/kapsel
 * - Windows: ${LOCALAPPDATA or APPDATA or ~}/kapsel/cache
 * - Unknown: ~/.kapsel
 * @throws
 * - ConfigurationError when the home directory is needed but unknown
 */
func DefaultCacheBase(kind Kind, s *config.Settings) (string, error) {
	home := func() (string, error) {
		if s.Home == "" {
			return "", models.ErrInvalidSettings("HOME", "", "home directory of the current user is unknown")
		}
		return s.Home, nil
	}

	switch kind {
	case Linux, BSD:
		if s.XDGCacheHome != "" {
			return filepath.Join(s.XDGCacheHome, env.ProductName), nil
		}
		h, err := home()
		if err != nil {
			return "", err
		}
		return filepath.Join(h, ".cache", env.ProductName), nil
	case MacOS:
		h, err := home()
		if err != nil {
			return "", err
		}
		return filepath.Join(h, "Library", "Caches", env.ProductName), nil
	case Windows:
		root := s.LocalAppData
		if root == "" {
			root = s.AppData
		}
		if root == "" {
			h, err := home()
			if err != nil {
				return "", err
			}
			root = h
		}
		return filepath.Join(root, env.ProductName, "cache"), nil
	default:
		h, err := home()
		if err != nil {
			return "", err
		}
		return filepath.Join(h, "."+env.ProductName), nil
	}
}

// CacheBase returns KAPSEL_CACHE when set, otherwise the platform default.
func CacheBase(kind Kind, s *config.Settings) (string, error) {
	if s.Cache != "" {
		return s.Cache, nil
	}
	return DefaultCacheBase(kind, s)
}
