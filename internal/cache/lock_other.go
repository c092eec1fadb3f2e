//go:build !unix && !windows

package cache

import "os"

// 不支持的构建目标上不加锁
func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) error {
	return nil
}
