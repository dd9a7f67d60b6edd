package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_WriteOpenStat(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "samples.txt")

	if err := fsys.WriteFile(path, []byte("0 1 2 3 4\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 10 {
		t.Errorf("expected size 10, got %d", info.Size())
	}

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "0 1 2 3 4\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestMemoryFileSystem_WriteAndOpen(t *testing.T) {
	mfs := NewMemoryFileSystem()

	want := []byte("hello, world")
	if err := mfs.WriteFile("/data/test.txt", want, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Mutating the caller's slice must not leak into the stored file.
	want[0] = 'H'

	f, err := mfs.Open("/data/../data/test.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "hello, world" {
		t.Errorf("expected %q, got %q", "hello, world", got)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name() != "test.txt" || info.Size() != 12 || info.IsDir() {
		t.Errorf("unexpected file info: name=%s size=%d dir=%v", info.Name(), info.Size(), info.IsDir())
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Open("/missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open: expected fs.ErrNotExist, got %v", err)
	}
	if _, err := mfs.Stat("/missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat: expected fs.ErrNotExist, got %v", err)
	}
}
