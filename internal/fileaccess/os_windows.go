//go:build windows

package fileaccess

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

func canReadWrite(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".sheetsync-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	return true
}

// The read-only attribute is the only bit Elevate can flip here.
func ownedByCurrentUser(os.FileInfo) bool {
	return true
}

// osReplace uses MoveFileEx with REPLACE_EXISTING|WRITE_THROUGH for best-effort atomic replace.
func osReplace(tmpPath, dest string) error {
	from, err := windows.UTF16PtrFromString(tmpPath)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dest)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// syncDir is a no-op on Windows; directory fsync is not generally available.
func syncDir(string) error { return nil }
