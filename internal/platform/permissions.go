package platform

import (
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MakeExecutable adds execute bits wherever the file already has read bits,
// so a 0644 script becomes 0755 and a 0600 one becomes 0700.
func MakeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	return Chmod(path, mode|(mode&0o444)>>2)
}
