package bundle

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"kapsel/internal/models"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, b *Bundle, name string) string {
	t.Helper()
	f, err := b.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestOpenZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.zip")
	require.NoError(t, os.WriteFile(path, writeZip(t, map[string]string{
		"META-INF/MANIFEST.MF": "Kapsel-Application-Id: app1\n",
		"lib/a.jar":            "AAA",
	}), 0644))

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "AAA", readAll(t, b, "lib/a.jar"))

	m, err := b.Manifest()
	require.NoError(t, err)
	data, _ := io.ReadAll(m)
	m.Close()
	assert.Contains(t, string(data), "app1")
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "a.jar"), []byte("DIR"), 0644))

	b, err := Open(dir)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "DIR", readAll(t, b, "lib/a.jar"))

	_, err = b.Manifest()
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeConfiguration))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeConfiguration))
}

func TestOpenNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, []byte("just some bytes"), 0644))
	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeConfiguration))
}

func TestOpenDefaultOverride(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenDefault(dir)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, dir, b.Path)
}

func TestOpenAppendedToExecutable(t *testing.T) {
	stub := bytes.Repeat([]byte{0x7f, 'E', 'L', 'F'}, 1024)

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	zw.SetOffset(int64(len(stub)))
	w, err := zw.Create("lib/a.jar")
	require.NoError(t, err)
	_, err = w.Write([]byte("APPENDED"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(path, append(stub, archive.Bytes()...), 0755))

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "APPENDED", readAll(t, b, "lib/a.jar"))
}

func TestLaunchConfig(t *testing.T) {
	b := FromFS(fstest.MapFS{
		"META-INF/MANIFEST.MF": {Data: []byte("Manifest-Version: 1.0\r\n" +
			"Kapsel-Application-Id: app1\r\n" +
			"Kapsel-Main-Class: com.example.Main\r\n" +
			"Kapsel-Class-Path: lib/a.jar lib/b.jar\r\n\r\n")},
	}, "mem")

	cfg, err := b.LaunchConfig()
	require.NoError(t, err)
	assert.Equal(t, "app1", cfg.ApplicationID)
	assert.Equal(t, "com.example.Main", cfg.EntryPoint)
	assert.Equal(t, []string{"lib/a.jar", "lib/b.jar"}, cfg.PayloadItems)
	assert.Empty(t, cfg.RuntimeOptions)
}

func TestLaunchConfigMissingManifest(t *testing.T) {
	_, err := FromFS(fstest.MapFS{}, "mem").LaunchConfig()
	require.Error(t, err)
	assert.True(t, models.IsErrorCode(err, models.ErrorCodeConfiguration))
}
