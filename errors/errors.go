package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// New creates an error annotated with the caller's file and line.
func New(format string, a ...interface{}) error {
	return fmt.Errorf("[%s] %s", caller(), fmt.Sprintf(format, a...))
}

// Wrap adds a short context message (plus the caller's file and line) to an
// existing error. Returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %s: %w", caller(), msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %s: %w", caller(), fmt.Sprintf(format, a...), err)
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
