//go:build linux

package vg

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts the closest thing to a creation timestamp the
// platform offers. Linux exposes the inode change time; when the metadata is
// not a Stat_t the modification time stands in.
func createdTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
