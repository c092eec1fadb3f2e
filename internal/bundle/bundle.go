// Package bundle opens the resource source a launcher reads its manifest and
// payload from.
//
// A bundle is a zip archive laid out like a jar: the manifest lives at
// META-INF/MANIFEST.MF and every payload item at its declared path. The
// archive is normally appended to the launcher executable itself
// (cat kapsel app.zip > app); a stand-alone archive or a plain directory with
// the same layout is accepted through KAPSEL_BUNDLE.
package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"kapsel/internal/env"
	"kapsel/internal/manifest"
	"kapsel/internal/models"

	"github.com/klauspost/compress/zip"
)

// Bundle is a read-only view of the bundled resources.
type Bundle struct {
	fs.FS
	Path   string
	closer io.Closer
}

/**
 * Open a bundle from a zip file, an executable with an appended zip, or a directory
 * @param {string} path - Bundle location
 * @returns {*Bundle} Returns opened bundle, must be closed by caller
 * @throws
 * - ConfigurationError when the path does not exist or holds no zip archive
 */
func Open(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, models.ErrInvalidManifest("bundle not found", err).WithContext("bundle", path)
	}
	if info.IsDir() {
		return &Bundle{FS: os.DirFS(path), Path: path}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, models.ErrInvalidManifest("bundle not readable", err).WithContext("bundle", path)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, models.ErrInvalidManifest("bundle is not a zip archive", err).
			WithContext("bundle", path).
			WithSuggestion("Append the application archive to the launcher: cat kapsel app.zip > app")
	}
	return &Bundle{FS: zr, Path: path, closer: f}, nil
}

// OpenSelf opens the bundle appended to the running executable.
func OpenSelf() (*Bundle, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, models.ErrInvalidManifest("cannot locate the launcher executable", err)
	}
	return Open(exe)
}

// OpenDefault opens override when it is set, the running executable otherwise.
func OpenDefault(override string) (*Bundle, error) {
	if override != "" {
		return Open(override)
	}
	return OpenSelf()
}

// FromFS wraps an existing file system, used by tests and embedders.
func FromFS(fsys fs.FS, path string) *Bundle {
	return &Bundle{FS: fsys, Path: path}
}

// Manifest opens the bundle manifest.
func (b *Bundle) Manifest() (io.ReadCloser, error) {
	f, err := b.Open(env.ManifestPath)
	if err != nil {
		return nil, models.ErrInvalidManifest(fmt.Sprintf("%s not found in the bundle", env.ManifestPath), err).
			WithContext("bundle", b.Path)
	}
	return f, nil
}

// LaunchConfig reads and validates the bundle manifest.
func (b *Bundle) LaunchConfig() (*models.LaunchConfig, error) {
	r, err := b.Manifest()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return manifest.Load(r)
}

func (b *Bundle) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
