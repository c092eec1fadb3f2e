package command

import (
	"os"
	"os/exec"
	"path/filepath"

	"kapsel/internal/config"
	"kapsel/internal/env"
	"kapsel/internal/logger"
	"kapsel/internal/models"
	"kapsel/internal/platform"
)

/**
 * Locate the runtime executable
 * @param {platform.Kind} kind - Platform kind
 * @param {*config.Settings} s - Environment settings
 * @returns {string} Returns path (or name) of the runtime executable
 * @description
 * - KAPSEL_JAVA wins and is used as given, even when it does not exist
 * - Then $JAVA_HOME/bin/<binary> if that file exists
 * - Then <binary> on PATH
 * @throws
 * - LaunchError when no runtime can be found
 */
func ResolveRuntime(kind platform.Kind, s *config.Settings) (string, error) {
	if s.Java != "" {
		logger.Debugf("runtime from %s_JAVA: %s", env.EnvPrefix, s.Java)
		return s.Java, nil
	}

	binary := platform.RuntimeBinary(kind)
	if s.JavaHome != "" {
		name := binary
		if kind == platform.Windows {
			name += ".exe"
		}
		candidate := filepath.Join(s.JavaHome, "bin", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			logger.Debugf("runtime from JAVA_HOME: %s", candidate)
			return candidate, nil
		}
		logger.Debugf("JAVA_HOME has no %s, searching PATH", candidate)
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return "", models.ErrRuntimeNotFound(binary, err)
	}
	logger.Debugf("runtime from PATH: %s", path)
	return path, nil
}
