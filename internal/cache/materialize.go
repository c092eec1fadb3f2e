package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"kapsel/internal/config"
	"kapsel/internal/env"
	"kapsel/internal/logger"
	"kapsel/internal/models"
)

/**
 * Options of a materialization run
 * @property {string} Base - Cache base directory
 * @property {string} ApplicationID - Sub-directory of Base owned by the application
 * @property {[]string} Items - Payload items, slash-separated relative paths
 * @property {fs.FS} Source - Bundle the payload is copied from
 * @property {string} Policy - config.RefreshAlways or config.RefreshChanged
 * @property {bool} Lock - Serialize concurrent launchers through a lock file
 */
type Options struct {
	Base          string
	ApplicationID string
	Items         []string
	Source        fs.FS
	Policy        string
	Lock          bool
}

// ItemResult is the outcome of one payload item.
type ItemResult struct {
	Item   string
	Path   string
	Copied bool  //false when the changed policy found identical content
	Bytes  int64 //bytes written, 0 when skipped
}

type Result struct {
	Layout *models.CacheLayout
	Items  []ItemResult
}

// CopiedBytes sums the bytes written during the run.
func (r *Result) CopiedBytes() int64 {
	var n int64
	for _, it := range r.Items {
		n += it.Bytes
	}
	return n
}

// LockPath is the advisory lock file of an application, kept outside its cache directory.
func LockPath(base, applicationID string) string {
	return filepath.Join(base, env.LockDirName, applicationID+".lock")
}

// Layout is the cache layout of an application under base.
func Layout(base, applicationID string, items []string) *models.CacheLayout {
	return &models.CacheLayout{Base: base, Dir: filepath.Join(base, applicationID), Items: items}
}

/**
 * Materialize the payload of an application into its cache directory
 * @param {Options} opts - Materialization options
 * @returns {*Result} Returns cache layout and per-item outcome
 * @description
 * - Creates Base/ApplicationID and all missing ancestors
 * - Copies every item in declared order to the same relative path in the cache directory
 * - The always policy overwrites every item on every run
 * - The changed policy skips items whose BLAKE3 digest matches the cached copy
 * - Each file is written to a temp file and renamed into place
 * @throws
 * - MaterializationError when an item is missing from the bundle
 * - MaterializationError when the cache directory cannot be written
 */
func Materialize(opts Options) (*Result, error) {
	layout := Layout(opts.Base, opts.ApplicationID, opts.Items)
	dir := layout.Dir

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, models.ErrPayloadWrite(dir, err)
	}

	if opts.Lock {
		lock, err := acquireLock(LockPath(opts.Base, opts.ApplicationID))
		if err != nil {
			return nil, models.ErrPayloadWrite(LockPath(opts.Base, opts.ApplicationID), err)
		}
		defer lock.release()
	}

	result := &Result{Layout: layout}
	for _, item := range opts.Items {
		ir, err := materializeItem(opts.Source, item, layout.Path(item), opts.Policy)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, ir)
	}
	return result, nil
}

func materializeItem(src fs.FS, item, dst, policy string) (ItemResult, error) {
	ir := ItemResult{Item: item, Path: dst}

	info, err := fs.Stat(src, item)
	if err != nil {
		return ir, models.ErrPayloadMissing(item, err)
	}
	if info.IsDir() {
		return ir, models.ErrPayloadMissing(item, fmt.Errorf("%s is a directory", item))
	}

	if policy == config.RefreshChanged {
		same, err := sameContent(src, item, dst)
		if err != nil {
			return ir, err
		}
		if same {
			logger.Debugf("payload up to date: %s", dst)
			return ir, nil
		}
	}

	logger.Debugf("copying payload: %s -> %s", item, dst)
	n, err := copyItem(src, item, dst)
	if err != nil {
		return ir, err
	}
	ir.Copied = true
	ir.Bytes = n
	return ir, nil
}

func sameContent(src fs.FS, item, dst string) (bool, error) {
	cached, err := DigestFile(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		// 缓存文件不可读时直接覆盖
		logger.Debugf("cannot hash cached payload %s: %v", dst, err)
		return false, nil
	}
	bundled, err := DigestFS(src, item)
	if err != nil {
		return false, models.ErrPayloadMissing(item, err)
	}
	return cached == bundled, nil
}

// copyItem streams item into a temp file next to dst and renames it over dst.
func copyItem(src fs.FS, item, dst string) (int64, error) {
	in, err := src.Open(item)
	if err != nil {
		return 0, models.ErrPayloadMissing(item, err)
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, models.ErrPayloadWrite(dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, models.ErrPayloadWrite(dst, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, in)
	if err != nil {
		return 0, models.ErrPayloadWrite(dst, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return 0, models.ErrPayloadWrite(dst, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, models.ErrPayloadWrite(dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return 0, models.ErrPayloadWrite(dst, err)
	}
	committed = true
	return n, nil
}
