//go:build unix

package proc

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

var forwardedSignals = []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGHUP}

func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}

// 被信号终止的子进程按JVM惯例返回128+信号值
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
