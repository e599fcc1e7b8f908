package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	notExist := &os.PathError{Op: "stat", Path: "/missing", Err: fs.ErrNotExist}
	denied := &os.PathError{Op: "open", Path: "/root", Err: fs.ErrPermission}

	if got := Classify(notExist); got != NotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
	if got := Classify(denied); got != PermissionDenied {
		t.Fatalf("expected permission_denied, got %s", got)
	}
	if got := Classify(stderrors.New("disk on fire")); got != IOFailure {
		t.Fatalf("expected io_failure, got %s", got)
	}
	if got := Classify(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %s", got)
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("scan: %w", Wrap(DecodeFailure, "decode", "/a.png", stderrors.New("bad header")))
	if got := KindOf(err); got != DecodeFailure {
		t.Fatalf("expected decode_failure, got %s", got)
	}
	if got := KindOf(stderrors.New("plain")); got != Internal {
		t.Fatalf("expected internal for plain errors, got %s", got)
	}
}

func TestUserMessageIncludesCause(t *testing.T) {
	err := WrapIO("stat", "/photos/a.jpg", &os.PathError{Op: "stat", Path: "/photos/a.jpg", Err: fs.ErrPermission})
	msg := UserMessage(err)
	if !strings.Contains(msg, "Permission denied") || !strings.Contains(msg, "/photos/a.jpg") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected wrapped error to match fs.ErrPermission")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(IOFailure, "op", "", nil) != nil {
		t.Fatalf("expected nil")
	}
}
