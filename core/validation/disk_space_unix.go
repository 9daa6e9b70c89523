//go:build !windows

package validation

import (
	"syscall"
)

// getDiskSpace reports total and free bytes for the filesystem containing
// path. Unix implementation using syscall.Statfs. Free space uses Bavail so
// the figure matches what an unprivileged process can actually write.
func getDiskSpace(path string) (total int64, free int64, err error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}

	total = int64(stat.Blocks) * int64(stat.Bsize)
	free = int64(stat.Bavail) * int64(stat.Bsize)

	return total, free, nil
}
