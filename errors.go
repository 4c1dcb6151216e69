package easystore

import (
	"errors"
	"fmt"

	"github.com/hupe1980/easystore/disk"
)

var (
	// ErrUnknownDisk is returned when a disk name has no registry entry.
	// It is never swallowed by the failure policy.
	ErrUnknownDisk = disk.ErrUnknownDisk

	// ErrNotFound is returned by Download when the source path does not exist.
	// It is never swallowed by the failure policy.
	ErrNotFound = disk.ErrNotFound

	// ErrUnsupportedOperation is matched by *UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrBackendFailure is matched by *OperationError.
	ErrBackendFailure = errors.New("storage backend failure")

	// ErrInvalidArgument is matched by *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnexpectedResult is matched by *ResultError.
	ErrUnexpectedResult = errors.New("unexpected driver result")
)

// UnknownDiskError indicates that a disk name could not be resolved.
//
// The registry error can be accessed via errors.Unwrap.
type UnknownDiskError struct {
	Disk  string
	cause error
}

func (e *UnknownDiskError) Error() string {
	return fmt.Sprintf("unknown disk %q", e.Disk)
}

func (e *UnknownDiskError) Unwrap() error { return e.cause }

// Is reports ErrUnknownDisk even when the cause is missing.
func (e *UnknownDiskError) Is(target error) bool { return target == ErrUnknownDisk }

// UnsupportedOperationError indicates that a disk lacks the requested capability.
// The disk is never called when this error is produced.
type UnsupportedOperationError struct {
	Disk string
	Op   disk.Op
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("disk %q does not support operation %q", e.Disk, e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// OperationError wraps a failure reported by a disk driver.
//
// The original driver error can be accessed via errors.Unwrap, so
// errors.Is(err, disk.ErrNotFound) and errors.As on driver error types work.
type OperationError struct {
	Disk  string
	Op    disk.Op
	cause error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s on disk %q: %v", e.Op, e.Disk, e.cause)
}

func (e *OperationError) Unwrap() error { return e.cause }

// Is matches ErrBackendFailure.
func (e *OperationError) Is(target error) bool { return target == ErrBackendFailure }

// ArgumentError indicates that the arguments of an operation do not match its
// signature. It is reported as the cause of an *OperationError.
type ArgumentError struct {
	Op     disk.Op
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Op, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// ResultError indicates that a driver returned no result, or a result of the
// wrong type. It is reported as the cause of an *OperationError.
type ResultError struct {
	Op   disk.Op
	Want string
	Got  string
}

func (e *ResultError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s returned no result", e.Op)
	}
	return fmt.Sprintf("%s returned %s, want %s", e.Op, e.Got, e.Want)
}

func (e *ResultError) Unwrap() error { return ErrUnexpectedResult }

// NotFoundError is returned by Download when the explicit existence check fails.
type NotFoundError struct {
	Disk string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %q not found on disk %q", e.Path, e.Disk)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
