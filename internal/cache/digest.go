package cache

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is the BLAKE3-256 digest of a payload file.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func digestReader(r io.Reader) (Digest, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Digest{}, err
	}
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d, nil
}

// DigestFile hashes a file on disk. A missing file yields an error matching fs.ErrNotExist.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	d, err := digestReader(f)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return d, nil
}

// DigestFS hashes a file inside a bundle.
func DigestFS(fsys fs.FS, name string) (Digest, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	d, err := digestReader(f)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", name, err)
	}
	return d, nil
}
