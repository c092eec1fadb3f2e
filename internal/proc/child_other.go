//go:build !unix && !windows

package proc

import (
	"os"

	"kapsel/internal/env"
)

var forwardedSignals = []os.Signal{os.Interrupt}

func terminate(p *os.Process) error {
	return p.Kill()
}

func exitCode(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return env.ExitFailure
}
