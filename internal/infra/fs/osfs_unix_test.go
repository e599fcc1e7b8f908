//go:build unix

package fs

import (
	"os"
	"syscall"
	"testing"
)

func TestRenameCrossDeviceEXDEV(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	err := (OSFS{}).Rename("/a", "/b")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !IsCrossDevice(err) {
		t.Fatalf("expected CrossDeviceError, got %T %v", err, err)
	}
}
