package proc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"kapsel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperCommand runs this test binary as the child, see TestHelperProcess.
func helperCommand(t *testing.T, args ...string) models.LaunchCommand {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return append(models.LaunchCommand{os.Args[0], "-test.run=^TestHelperProcess$", "--"}, args...)
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		return
	}
	switch args[1] {
	case "exit":
		code, _ := strconv.Atoi(args[2])
		os.Exit(code)
	case "echo":
		for _, a := range args[2:] {
			fmt.Printf("[%s]\n", a)
		}
		os.Exit(0)
	case "stderr":
		fmt.Fprint(os.Stderr, strings.Join(args[2:], " "))
		os.Exit(0)
	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(2)
}

func TestChildExitCode(t *testing.T) {
	for _, code := range []int{0, 1, 3} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			c := NewChild(helperCommand(t, "exit", strconv.Itoa(code)))
			got, err := c.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, code, got)
			assert.Equal(t, models.StatusTerminated, c.State())
		})
	}
}

func TestChildArgumentsVerbatim(t *testing.T) {
	var out bytes.Buffer
	c := NewChild(helperCommand(t, "echo", "run", "with space", "", "$HOME", "*"))
	c.Stdout = &out

	code, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "[run]\n[with space]\n[]\n[$HOME]\n[*]\n", out.String())
}

func TestChildStderr(t *testing.T) {
	var errOut bytes.Buffer
	c := NewChild(helperCommand(t, "stderr", "boom"))
	c.Stderr = &errOut

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "boom", errOut.String())
}

func TestChildSpawnFailure(t *testing.T) {
	c := NewChild(models.LaunchCommand{"/nonexistent/kapsel/java", "-version"})
	code, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 128, code)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeLaunch))
	assert.Equal(t, models.StatusNotStarted, c.State())
	assert.Zero(t, c.Pid())
}

func TestChildEmptyCommand(t *testing.T) {
	err := NewChild(nil).Start()
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeLaunch))
}

func TestChildWaitBeforeStart(t *testing.T) {
	code, err := NewChild(models.LaunchCommand{"java"}).Wait()
	assert.Error(t, err)
	assert.Equal(t, 128, code)
}

func TestChildTerminate(t *testing.T) {
	c := NewChild(helperCommand(t, "sleep"))
	require.NoError(t, c.Start())
	assert.Equal(t, models.StatusRunning, c.State())
	assert.NotZero(t, c.Pid())

	require.NoError(t, c.Terminate())
	code, err := c.Wait()
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, 128+15, code, "SIGTERM")
	} else {
		assert.NotZero(t, code)
	}
	assert.Equal(t, models.StatusTerminated, c.State())

	// no-op once terminated
	assert.NoError(t, c.Terminate())
}

func TestChildContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewChild(helperCommand(t, "sleep"))

	go func() {
		for c.State() != models.StatusRunning {
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
	}()

	code, err := c.Run(ctx)
	require.NoError(t, err)
	assert.NotZero(t, code)
}
