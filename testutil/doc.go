// Package testutil provides testing utilities for easystore.
//
// This package is intended for use in tests only.
//
// # Log Recording
//
//	rec := testutil.NewLogRecorder()
//	store := easystore.New(reg, easystore.WithLogger(easystore.NewLogger(rec)))
//	// ...
//	rec.Records() // every record written, with flattened attributes
//
// # Fault Injection
//
//	d := testutil.NewFaultyDisk()
//	d.Fail(disk.OpCopy, errors.New("boom"))
//	d.Calls(disk.OpCopy) // number of times the driver was reached
//
// CoreOnly hides every optional capability of a disk, which is how tests
// exercise unsupported operations.
package testutil
