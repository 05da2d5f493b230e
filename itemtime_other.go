//go:build !linux

package vg

import (
	"os"
	"time"
)

// createdTime falls back to the modification time on platforms without an
// accessible creation timestamp.
func createdTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
