package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

type Kind string

const (
	InvalidConfig    Kind = "invalid_config"
	NotFound         Kind = "not_found"
	IOFailure        Kind = "io_failure"
	PermissionDenied Kind = "permission_denied"
	DecodeFailure    Kind = "decode_failure"
	Internal         Kind = "internal"
)

// ErrCrossDevice matches rename failures caused by source and target living on different volumes.
var ErrCrossDevice = stderrors.New("cross-device link")

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// WrapIO wraps a filesystem error, narrowing the kind when the cause is recognisable.
func WrapIO(op, path string, err error) error {
	return Wrap(Classify(err), op, path, err)
}

// Classify infers the kind of a raw filesystem error.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, fs.ErrNotExist):
		return NotFound
	case stderrors.Is(err, fs.ErrPermission):
		return PermissionDenied
	default:
		return IOFailure
	}
}

// KindOf returns the kind of the outermost AppError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case PermissionDenied:
		return fmt.Sprintf("Permission denied: %s (%v)", appErr.Path, appErr.Err)
	case DecodeFailure:
		return fmt.Sprintf("Could not decode image: %s (%v)", appErr.Path, appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s (%v)", appErr.Path, appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
