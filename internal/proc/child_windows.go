//go:build windows

package proc

import (
	"os"
)

var forwardedSignals = []os.Signal{os.Interrupt}

// Windows has no SIGTERM, the child is killed
func terminate(p *os.Process) error {
	return p.Kill()
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
