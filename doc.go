// Package easystore provides a storage dispatcher over named disks.
//
// A disk is a storage target: a local directory, an in-memory map, an S3
// bucket, any S3-compatible store or a Google Cloud Storage bucket. Disks are
// registered once at startup in a disk.Registry; a Dispatcher resolves them by
// name and applies one failure policy to every call.
//
// # Quick Start
//
//	registry := disk.NewRegistry(map[string]disk.Disk{
//	    "local": disk.NewLocalDisk("storage/app"),
//	})
//	store := easystore.New(registry,
//	    easystore.WithLogger(easystore.NewJSONLogger(slog.LevelInfo)),
//	    easystore.WithLogOnError(true),
//	)
//
//	stored, err := store.Upload(ctx, easystore.File{Name: "report.pdf", Body: f}, "reports")
//
// # Failure Policy
//
// Two switches control what happens when a disk lacks an operation or the
// driver returns an error:
//
//	WithLogOnError(true)   // write one error record per failure
//	WithRaiseOnError(true) // return the typed error to the caller
//
// With raising off, the call returns the zero value of its result type
// (false, "", nil) and a nil error. Two conditions ignore the policy and are
// always returned: an unknown disk name (*UnknownDiskError) and a Download of
// a missing file (*NotFoundError).
//
//	ok, err := store.WithError(true).Copy(ctx, "a.txt", "b.txt")
//	var opErr *easystore.OperationError
//	if errors.As(err, &opErr) {
//	    // driver failure, errors.Unwrap(opErr) is the original error
//	}
//
// # Switching Disks
//
// Dispatchers are immutable; OnDisk, WithLog and WithError return copies:
//
//	s3Store := store.OnDisk("s3")
//	url, _ := s3Store.TemporaryURL(ctx, "invoices/2024.pdf", 15*time.Minute)
//
// # Custom Operations
//
// Any enumerated disk.Op can be prepared and run later:
//
//	call := store.Custom(disk.OpMimeType, "logo.png").OnDisk("s3")
//	res, err := call.Execute(ctx)
//
// An op the disk does not implement is reported as an unsupported operation
// without calling the disk.
package easystore
