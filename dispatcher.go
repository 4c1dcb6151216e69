package easystore

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/easystore/disk"
)

// Dispatcher resolves named disks and runs operations against them under a
// uniform failure policy.
//
// A Dispatcher never changes after construction. OnDisk, WithLog and
// WithError return modified copies, so one instance can be shared by any
// number of goroutines.
type Dispatcher struct {
	registry     *disk.Registry
	defaultDisk  string
	logOnError   bool
	raiseOnError bool
	logger       *Logger
	metrics      MetricsCollector
}

// New creates a dispatcher over registry. The registry is only read.
func New(registry *disk.Registry, optFns ...Option) *Dispatcher {
	o := applyOptions(optFns)
	return &Dispatcher{
		registry:     registry,
		defaultDisk:  o.defaultDisk,
		logOnError:   o.logOnError,
		raiseOnError: o.raiseOnError,
		logger:       o.logger,
		metrics:      o.metricsCollector,
	}
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *disk.Registry { return d.registry }

// DefaultDisk returns the name of the disk used when a call names none.
func (d *Dispatcher) DefaultDisk() string { return d.defaultDisk }

// LogOnError reports whether failures are logged.
func (d *Dispatcher) LogOnError() bool { return d.logOnError }

// RaiseOnError reports whether failures are returned to the caller.
func (d *Dispatcher) RaiseOnError() bool { return d.raiseOnError }

// OnDisk returns a copy of d whose default disk is name.
func (d *Dispatcher) OnDisk(name string) *Dispatcher {
	c := *d
	c.defaultDisk = name
	return &c
}

// WithLog returns a copy of d with logging of failures switched on or off.
func (d *Dispatcher) WithLog(enabled bool) *Dispatcher {
	c := *d
	c.logOnError = enabled
	return &c
}

// WithError returns a copy of d that returns failures (true) or swallows them
// into the sentinel zero value (false).
func (d *Dispatcher) WithError(enabled bool) *Dispatcher {
	c := *d
	c.raiseOnError = enabled
	return &c
}

func (d *Dispatcher) diskName(name string) string {
	if name == "" {
		return d.defaultDisk
	}
	return name
}

// ResolveDisk returns the disk registered under name, or the default disk when
// name is empty. An unregistered name yields an *UnknownDiskError regardless
// of the failure policy.
func (d *Dispatcher) ResolveDisk(name string) (disk.Disk, error) {
	name = d.diskName(name)
	dk, err := d.registry.Get(name)
	if err != nil {
		return nil, &UnknownDiskError{Disk: name, cause: err}
	}
	return dk, nil
}

// Invoke runs op on the default disk. See InvokeOn.
func (d *Dispatcher) Invoke(ctx context.Context, op disk.Op, args ...any) (any, error) {
	return d.InvokeOn(ctx, "", op, args...)
}

// InvokeOn runs op with args on the named disk ("" for the default).
//
// On success the driver's result is returned unchanged; operations without a
// natural result report true. When the disk lacks op, or the driver fails,
// the failure policy applies: with logging on one error record is written,
// with raising on the typed error is returned, otherwise InvokeOn returns
// (nil, nil).
func (d *Dispatcher) InvokeOn(ctx context.Context, diskName string, op disk.Op, args ...any) (any, error) {
	name := d.diskName(diskName)
	dk, err := d.ResolveDisk(name)
	if err != nil {
		return nil, err
	}
	return d.call(ctx, name, dk, op, args)
}

func (d *Dispatcher) call(ctx context.Context, name string, dk disk.Disk, op disk.Op, args []any) (any, error) {
	if !disk.Supports(dk, op) {
		d.metrics.RecordUnsupported(name, op.String())
		return nil, d.fail(ctx, &UnsupportedOperationError{Disk: name, Op: op})
	}

	start := time.Now()
	res, err := operations[op](ctx, dk, op, args)
	if err == nil && res == nil {
		err = &ResultError{Op: op}
	}
	d.metrics.RecordOperation(name, op.String(), time.Since(start), err)
	if err != nil {
		return nil, d.fail(ctx, &OperationError{Disk: name, Op: op, cause: err})
	}
	return res, nil
}

// fail applies the failure policy to err. It returns err when raising is on
// and nil otherwise.
func (d *Dispatcher) fail(ctx context.Context, err error) error {
	if d.logOnError {
		switch e := err.(type) {
		case *UnsupportedOperationError:
			d.logger.LogUnsupported(ctx, e.Disk, e.Op.String(), e)
		case *OperationError:
			d.logger.LogFailure(ctx, e.Disk, e.Op.String(), e.cause)
		}
	}
	if d.raiseOnError {
		return err
	}
	return nil
}

// invokeAs runs op on the default disk and converts the result to T.
func invokeAs[T any](ctx context.Context, d *Dispatcher, op disk.Op, args ...any) (T, error) {
	res, err := d.Invoke(ctx, op, args...)
	return as[T](ctx, d, d.defaultDisk, op, res, err)
}

// as converts a call result to T. A nil res is a swallowed failure and yields
// the zero value of T. A result of another type goes through the failure
// policy as a *ResultError.
func as[T any](ctx context.Context, d *Dispatcher, name string, op disk.Op, res any, err error) (T, error) {
	var zero T
	if err != nil || res == nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, d.fail(ctx, &OperationError{
			Disk:  name,
			Op:    op,
			cause: &ResultError{Op: op, Want: fmt.Sprintf("%T", (*T)(nil))[1:], Got: fmt.Sprintf("%T", res)},
		})
	}
	return v, nil
}
