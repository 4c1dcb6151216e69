package easystore

import (
	"context"
	"slices"

	"github.com/hupe1980/easystore/disk"
)

// Call is a prepared operation that runs when Execute is called.
// Calls are values: WithArgs and OnDisk return modified copies.
type Call struct {
	d    *Dispatcher
	op   disk.Op
	disk string
	args []any
}

// Custom prepares op with args on the dispatcher's default disk.
//
// Only the enumerated disk.Op values can run. Any other name, or an op the
// disk does not implement, is an unsupported operation at Execute time.
func (d *Dispatcher) Custom(op disk.Op, args ...any) *Call {
	return &Call{d: d, op: op, args: slices.Clone(args)}
}

// WithArgs returns a copy of c with its arguments replaced.
func (c *Call) WithArgs(args ...any) *Call {
	n := *c
	n.args = slices.Clone(args)
	return &n
}

// OnDisk returns a copy of c that targets the named disk.
func (c *Call) OnDisk(name string) *Call {
	n := *c
	n.disk = name
	return &n
}

func (c *Call) Op() disk.Op { return c.op }

// Disk returns the target disk name, "" meaning the dispatcher default.
func (c *Call) Disk() string { return c.disk }

func (c *Call) Args() []any { return slices.Clone(c.args) }

// Execute runs the call once, with the same rules as Dispatcher.InvokeOn.
func (c *Call) Execute(ctx context.Context) (any, error) {
	return c.d.InvokeOn(ctx, c.disk, c.op, c.args...)
}
