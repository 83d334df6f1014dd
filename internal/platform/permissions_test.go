package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0600); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want %o", perm, 0600)
		}
	}
}

func TestChmodDir(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "secure")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(dir, 0700); err != nil {
		t.Fatalf("Chmod on dir failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("permissions = %o, want %o", perm, 0700)
		}
	}
}

func TestMakeExecutable(t *testing.T) {
	tests := []struct {
		start, want os.FileMode
	}{
		{0644, 0755},
		{0600, 0700},
		{0755, 0755},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "run.sh")
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), tt.start); err != nil {
			t.Fatal(err)
		}
		if err := Chmod(path, tt.start); err != nil {
			t.Fatal(err)
		}
		if err := MakeExecutable(path); err != nil {
			t.Fatalf("MakeExecutable failed: %v", err)
		}
		if runtime.GOOS == "windows" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != tt.want {
			t.Errorf("MakeExecutable(%o) = %o, want %o", tt.start, perm, tt.want)
		}
	}
}

func TestMakeExecutable_Missing(t *testing.T) {
	if err := MakeExecutable(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing file")
	}
}
