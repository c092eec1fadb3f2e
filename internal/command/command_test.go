package command

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"kapsel/internal/config"
	"kapsel/internal/models"
	"kapsel/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		flags   []string
		appArgs []string
	}{
		{"empty", nil, []string{}, []string{}},
		{"mixed", []string{"-Jfoo=1", "run", "x"}, []string{"foo=1"}, []string{"run", "x"}},
		{"order kept", []string{"a", "-J-Xmx1g", "b", "-J-Dk=v", "c"}, []string{"-Xmx1g", "-Dk=v"}, []string{"a", "b", "c"}},
		{"marker stripped once", []string{"-J-J"}, []string{"-J"}, []string{}},
		{"bare marker dropped", []string{"-J", "x"}, []string{}, []string{"x"}},
		{"case sensitive", []string{"-j-Xmx1g"}, []string{}, []string{"-j-Xmx1g"}},
		{"marker not at start", []string{"x-J"}, []string{}, []string{"x-J"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, appArgs := SplitArgs(tt.args, "-J")
			assert.Equal(t, tt.flags, flags)
			assert.Equal(t, tt.appArgs, appArgs)
		})
	}
}

func TestClassPath(t *testing.T) {
	dir := filepath.Join(string(filepath.Separator)+"tmp", "c", "app1")
	layout := &models.CacheLayout{Dir: dir, Items: []string{"a.dat", "b.dat"}}

	expected := filepath.Join(dir, "a.dat") + string(filepath.ListSeparator) + filepath.Join(dir, "b.dat")
	assert.Equal(t, expected, ClassPath(layout))
	if runtime.GOOS != "windows" {
		assert.Equal(t, "/tmp/c/app1/a.dat:/tmp/c/app1/b.dat", ClassPath(layout))
	}
}

func TestClassPathNested(t *testing.T) {
	layout := &models.CacheLayout{Dir: "cache", Items: []string{"lib/x.jar"}}
	assert.Equal(t, filepath.Join("cache", "lib", "x.jar"), ClassPath(layout))
}

func TestClassPathEmpty(t *testing.T) {
	assert.Equal(t, "", ClassPath(&models.CacheLayout{Dir: "cache"}))
}

func TestAssemble(t *testing.T) {
	flags, appArgs := SplitArgs([]string{"-Jfoo=1", "run", "x"}, "-J")
	cmd := Assemble(Input{
		Executable:     "/usr/bin/java",
		RuntimeOptions: []string{"-Xmx512m", "-Dapp=1"},
		RuntimeFlags:   flags,
		ClassPath:      "cp",
		EntryPoint:     "com.example.Main",
		AppArgs:        appArgs,
	})
	assert.Equal(t, models.LaunchCommand{
		"/usr/bin/java", "-Xmx512m", "-Dapp=1", "foo=1", "-cp", "cp", "com.example.Main", "run", "x",
	}, cmd)
}

func TestAssembleMinimal(t *testing.T) {
	cmd := Assemble(Input{Executable: "java", ClassPath: "", EntryPoint: "Main"})
	assert.Equal(t, models.LaunchCommand{"java", "-cp", "", "Main"}, cmd)
}

func TestResolveRuntimeOverride(t *testing.T) {
	s := &config.Settings{Java: "/does/not/exist/java", JavaHome: t.TempDir()}
	exe, err := ResolveRuntime(platform.Linux, s)
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist/java", exe)
}

func TestResolveRuntimeJavaHome(t *testing.T) {
	home := t.TempDir()
	bin := filepath.Join(home, "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "java"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "javaw.exe"), []byte("MZ"), 0755))

	exe, err := ResolveRuntime(platform.Linux, &config.Settings{JavaHome: home})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "java"), exe)

	exe, err = ResolveRuntime(platform.Windows, &config.Settings{JavaHome: home})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "javaw.exe"), exe)
}

func TestResolveRuntimeSearchPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit lookup")
	}
	dir := t.TempDir()
	java := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(java, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", dir)

	// JAVA_HOME without a runtime falls through to PATH
	exe, err := ResolveRuntime(platform.Linux, &config.Settings{JavaHome: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, java, exe)
}

func TestResolveRuntimeNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveRuntime(platform.Linux, &config.Settings{})
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeLaunch))
	assert.Contains(t, err.Error(), "java")
}
