package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	osfs "imgsel/internal/infra/fs"
)

func TestProcessorIsolatesFailures(t *testing.T) {
	mock := &mockFS{
		copyErrs: map[string]error{"/src/b.jpg": fs.ErrNotExist},
	}
	ops := []domain.FileOperation{
		domain.Copy("/src/a.jpg", "/dst/a.jpg"),
		domain.Copy("/src/b.jpg", "/dst/b.jpg"),
		domain.Copy("/src/c.jpg", "/dst/c.jpg"),
	}

	result := Processor{FS: mock}.Process(context.Background(), ops)
	if result.SuccessCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "copy /src/b.jpg to /dst/b.jpg failed:") {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
}

func TestProcessorDirectoryCreationFailureCountsAsFailure(t *testing.T) {
	mock := &mockFS{mkdirErrs: map[string]error{"/readonly": fs.ErrPermission}}
	result := Processor{FS: mock}.Process(context.Background(), []domain.FileOperation{
		domain.Move("/src/a.jpg", "/readonly/a.jpg"),
	})
	if result.FailedCount != 1 || !strings.Contains(result.Errors[0], "create target directory") {
		t.Fatalf("unexpected result %+v", result)
	}
	for _, call := range mock.calls {
		if strings.HasPrefix(call, "rename") {
			t.Fatalf("rename must not run after mkdir failure")
		}
	}
}

func TestProcessorCrossDeviceMoveFallsBackToCopy(t *testing.T) {
	mock := &mockFS{
		renameErrs: map[string]error{"/mnt/a/x.png": fmt.Errorf("rename: %w", appErrors.ErrCrossDevice)},
	}
	result := Processor{FS: mock}.Process(context.Background(), []domain.FileOperation{
		domain.Move("/mnt/a/x.png", "/mnt/b/x.png"),
	})
	if result.SuccessCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	want := []string{"mkdir /mnt/b", "rename /mnt/a/x.png /mnt/b/x.png", "copy /mnt/a/x.png /mnt/b/x.png", "remove /mnt/a/x.png"}
	if fmt.Sprint(mock.calls) != fmt.Sprint(want) {
		t.Fatalf("expected calls %v, got %v", want, mock.calls)
	}
}

func TestProcessorCrossDeviceRemoveFailureIsWarning(t *testing.T) {
	mock := &mockFS{
		renameErrs: map[string]error{"/mnt/a/x.png": appErrors.ErrCrossDevice},
		removeErrs: map[string]error{"/mnt/a/x.png": fs.ErrPermission},
	}
	result := Processor{FS: mock}.Process(context.Background(), []domain.FileOperation{
		domain.Move("/mnt/a/x.png", "/mnt/b/x.png"),
	})
	if result.SuccessCount != 1 || len(result.Errors) != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "could not remove the source") {
		t.Fatalf("expected removal warning, got %v", result.Warnings)
	}
}

func TestProcessorParallelKeepsErrorOrder(t *testing.T) {
	mock := &mockFS{copyErrs: map[string]error{}}
	var ops []domain.FileOperation
	for i := 0; i < 40; i++ {
		src := fmt.Sprintf("/src/%02d.jpg", i)
		if i%3 == 0 {
			mock.copyErrs[src] = errors.New("boom")
		}
		ops = append(ops, domain.Copy(src, fmt.Sprintf("/dst/%02d.jpg", i)))
	}

	result := Processor{FS: mock, Workers: 8}.Process(context.Background(), ops)
	if result.Total() != len(ops) || len(result.Errors) != result.FailedCount {
		t.Fatalf("invariant violated: %+v", result)
	}
	if result.FailedCount != 14 {
		t.Fatalf("expected 14 failures, got %d", result.FailedCount)
	}
	for i, msg := range result.Errors {
		want := fmt.Sprintf("/src/%02d.jpg", i*3)
		if !strings.Contains(msg, want) {
			t.Fatalf("error %d out of order: %q", i, msg)
		}
	}
}

func TestProcessorCancelledBatchKeepsInvariant(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ops := []domain.FileOperation{
		domain.Copy("/src/a.jpg", "/dst/a.jpg"),
		domain.Move("/src/b.jpg", "/dst/b.jpg"),
	}
	var reported int
	result := Processor{FS: &mockFS{}, OnProgress: func(current, total int) { reported = current }}.Process(ctx, ops)
	if result.FailedCount != 2 || len(result.Errors) != 2 || result.SuccessCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if reported != 2 {
		t.Fatalf("expected progress for every operation, got %d", reported)
	}
}

func TestProcessorEmptyBatch(t *testing.T) {
	result := Processor{FS: &mockFS{}}.Process(context.Background(), nil)
	if result.Total() != 0 || result.Errors == nil {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestProcessorOnDiskCopyAndMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst", "nested")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	copySrc := filepath.Join(src, "keep.jpg")
	moveSrc := filepath.Join(src, "go.png")
	if err := os.WriteFile(copySrc, []byte("copy me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(moveSrc, []byte("move me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ops := []domain.FileOperation{
		domain.Copy(copySrc, filepath.Join(dst, "keep.jpg")),
		domain.Move(moveSrc, filepath.Join(dst, "go.png")),
		domain.Move(filepath.Join(src, "missing.gif"), filepath.Join(dst, "missing.gif")),
	}
	result := Processor{FS: osfs.OSFS{}}.Process(context.Background(), ops)
	if result.SuccessCount != 2 || result.FailedCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !strings.HasPrefix(result.Errors[0], "move ") || !strings.Contains(result.Errors[0], " failed: ") {
		t.Fatalf("unexpected error message %q", result.Errors[0])
	}

	assertContent(t, copySrc, "copy me")
	assertContent(t, filepath.Join(dst, "keep.jpg"), "copy me")
	assertContent(t, filepath.Join(dst, "go.png"), "move me")
	if _, err := os.Stat(moveSrc); !os.IsNotExist(err) {
		t.Fatalf("expected moved source to be gone, got %v", err)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.Equal(got, []byte(want)) {
		t.Fatalf("%s: expected %q, got %q", path, want, got)
	}
}
