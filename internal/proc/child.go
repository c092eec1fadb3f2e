package proc

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"time"

	"kapsel/internal/env"
	"kapsel/internal/logger"
	"kapsel/internal/models"
)

/**
 * Child is the runtime process started by the launcher
 * @property {models.LaunchCommand} Command - argv, executable first
 * @property {io.Reader} Stdin - Defaults to the launcher's stdin
 * @property {io.Writer} Stdout - Defaults to the launcher's stdout
 * @property {io.Writer} Stderr - Defaults to the launcher's stderr
 * @property {models.RunStatus} Status - not-started/running/terminated
 * @property {int} ExitCode - Valid once Status is terminated
 * @property {time.Time} StartTime - 启动时间
 * @property {time.Time} ExitTime - 退出时间
 */
type Child struct {
	Command   models.LaunchCommand
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Status    models.RunStatus
	ExitCode  int
	StartTime time.Time
	ExitTime  time.Time
	process   *os.Process
	cmd       *exec.Cmd
	mutex     sync.Mutex
}

// NewChild prepares a child that shares the launcher's standard streams.
func NewChild(command models.LaunchCommand) *Child {
	return &Child{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Status:  models.StatusNotStarted,
	}
}

func (c *Child) Pid() int {
	if c.process == nil {
		return 0
	}
	return c.process.Pid
}

func (c *Child) State() models.RunStatus {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.Status
}

/**
 * Start the child process
 * @returns {error} Returns error when the process cannot be created
 * @description
 * - Arguments are passed verbatim, no shell is involved
 * - Working directory and environment are inherited
 * - On failure the child stays not-started
 * @throws
 * - LaunchError when the operating system refuses to create the process
 */
func (c *Child) Start() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Status != models.StatusNotStarted {
		return nil
	}
	if len(c.Command) == 0 {
		return models.ErrSpawnFailed("", fmt.Errorf("empty command"))
	}
	logger.Debugf("executing command: %s", c.Command)

	cmd := exec.Command(c.Command.Executable(), c.Command.Args()...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Start(); err != nil {
		return models.ErrSpawnFailed(c.Command.Executable(), err)
	}
	c.cmd = cmd
	c.process = cmd.Process
	c.Status = models.StatusRunning
	c.StartTime = time.Now()
	logger.Debugf("child started (PID: %d)", c.Pid())
	return nil
}

/**
 * Wait blocks until the child exits, with no timeout
 * @returns {int} Returns the child's exit code
 * @description
 * - A child killed by a signal reports 128+signal on Unix
 */
func (c *Child) Wait() (int, error) {
	c.mutex.Lock()
	cmd := c.cmd
	status := c.Status
	c.mutex.Unlock()

	if status == models.StatusTerminated {
		return c.ExitCode, nil
	}
	if cmd == nil {
		return env.ExitFailure, fmt.Errorf("child not started")
	}

	err := cmd.Wait()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.Status = models.StatusTerminated
	c.ExitTime = time.Now()
	if cmd.ProcessState == nil {
		c.ExitCode = env.ExitFailure
		return c.ExitCode, fmt.Errorf("wait for child: %w", err)
	}
	c.ExitCode = exitCode(cmd.ProcessState)
	logger.Debugf("child (PID: %d) exited with code %d", c.Pid(), c.ExitCode)
	return c.ExitCode, nil
}

// Terminate asks a running child to stop, forcibly where the platform has no gentler way.
func (c *Child) Terminate() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Status != models.StatusRunning || c.process == nil {
		return nil
	}
	logger.Debugf("terminating child (PID: %d)", c.Pid())
	return terminate(c.process)
}

/**
 * Run the child to completion
 * @param {context.Context} ctx - Cancelling it terminates the child
 * @returns {int} Returns the child's exit code
 * @description
 * - Interrupt/termination signals received by the launcher are forwarded to the child
 * - The child is terminated if the launcher leaves before the child has exited
 * @throws
 * - LaunchError when the child cannot be started
 */
func (c *Child) Run(ctx context.Context) (int, error) {
	// 先注册信号，启动期间收到的信号在子进程启动后转发
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals...)
	defer signal.Stop(sigs)

	if err := c.Start(); err != nil {
		return env.ExitFailure, err
	}
	defer c.Terminate()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-sigs:
				logger.Debugf("received %v, forwarding to child", sig)
				c.Terminate()
			case <-ctx.Done():
				c.Terminate()
				return
			case <-done:
				return
			}
		}
	}()

	return c.Wait()
}

// Run starts command with inherited stdio and waits for it to exit.
func Run(ctx context.Context, command models.LaunchCommand) (int, error) {
	return NewChild(command).Run(ctx)
}
