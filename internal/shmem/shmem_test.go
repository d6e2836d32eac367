package shmem

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := Create(t.TempDir(), "frame", size); err == nil {
			t.Errorf("Create with size %d: expected error, got nil", size)
		}
	}
}

func TestWriteSizeContract(t *testing.T) {
	r, err := Create(t.TempDir(), "camera_frame_0", 16)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer func() { _ = r.Release() }()

	if r.Size() != 16 {
		t.Fatalf("Size = %d, want 16", r.Size())
	}
	if err := r.Write(make([]byte, 15)); err == nil {
		t.Error("short write: expected error, got nil")
	}
	if err := r.Write(make([]byte, 17)); err == nil {
		t.Error("long write: expected error, got nil")
	}
	if err := r.Write(make([]byte, 16)); err != nil {
		t.Errorf("exact write failed: %v", err)
	}
}

func TestWriteVisibleThroughSecondMapping(t *testing.T) {
	dir := t.TempDir()

	writer, err := Create(dir, "camera_frame_1", 8)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer func() { _ = writer.Release() }()

	reader, err := Open(dir, "camera_frame_1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	payload := []byte("frame-01")
	if err := writer.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !bytes.Equal(reader.Bytes(), payload) {
		t.Errorf("reader sees %q, want %q", reader.Bytes(), payload)
	}
}

func TestReadOnlyMappingRejectsWrite(t *testing.T) {
	dir := t.TempDir()

	writer, err := Create(dir, "camera_frame_2", 4)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer func() { _ = writer.Release() }()

	reader, err := Open(dir, "camera_frame_2")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	if err := reader.Write(make([]byte, 4)); err == nil {
		t.Error("expected write through a read-only mapping to fail")
	}
}

func TestReleaseRemovesName(t *testing.T) {
	dir := t.TempDir()

	r, err := Create(dir, "camera_frame_3", 4)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "camera_frame_3")); !os.IsNotExist(err) {
		t.Error("expected region file to be gone after Release")
	}

	// The name must be reusable without collision.
	again, err := Create(dir, "camera_frame_3", 4)
	if err != nil {
		t.Fatalf("re-Create after Release failed: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
}

func TestCloseAndUnlinkAreIdempotent(t *testing.T) {
	r, err := Create(t.TempDir(), "camera_frame_4", 4)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close after Release failed: %v", err)
	}
	if err := r.Unlink(); err != nil {
		t.Errorf("Unlink after Release failed: %v", err)
	}
}

func TestOpenMissingRegion(t *testing.T) {
	if _, err := Open(t.TempDir(), "no_such_region"); err == nil {
		t.Error("expected error opening a missing region")
	}
}
