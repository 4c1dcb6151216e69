package easystore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/easystore/disk"
)

// operation adapts positional arguments to a typed disk call.
type operation func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error)

// operations holds one entry per disk.Op. Supports is checked before lookup,
// so the type assertions on optional capabilities cannot fail.
var operations = map[disk.Op]operation{
	disk.OpPutFileAs: func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 3); err != nil {
			return nil, err
		}
		dir, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		body, err := readerArg(op, args, 1)
		if err != nil {
			return nil, err
		}
		name, err := stringArg(op, args, 2)
		if err != nil {
			return nil, err
		}
		return dk.PutFileAs(ctx, dir, body, name)
	},
	disk.OpPut: func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		p, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		content, err := bytesArg(op, args, 1)
		if err != nil {
			return nil, err
		}
		return done(dk.Put(ctx, p, content))
	},
	disk.OpGet: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.Get(ctx, p)
	}),
	disk.OpReadStream: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.ReadStream(ctx, p)
	}),
	disk.OpDelete: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return done(dk.Delete(ctx, p))
	}),
	disk.OpExists: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.Exists(ctx, p)
	}),
	disk.OpFiles: pathOp(func(ctx context.Context, dk disk.Disk, dir string) (any, error) {
		return dk.Files(ctx, dir)
	}),
	disk.OpURL: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.(disk.URLResolver).URL(ctx, p)
	}),
	disk.OpTemporaryURL: func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		p, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		ttl, ok := args[1].(time.Duration)
		if !ok || ttl <= 0 {
			return nil, &ArgumentError{Op: op, Reason: fmt.Sprintf("argument 1: expected positive time.Duration, got %T(%v)", args[1], args[1])}
		}
		return dk.(disk.TemporaryURLResolver).TemporaryURL(ctx, p, ttl)
	},
	disk.OpCopy: pairOp(func(ctx context.Context, dk disk.Disk, src, dst string) error {
		return dk.(disk.Copier).Copy(ctx, src, dst)
	}),
	disk.OpMove: pairOp(func(ctx context.Context, dk disk.Disk, from, to string) error {
		return dk.(disk.Mover).Move(ctx, from, to)
	}),
	disk.OpGetMetadata: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.(disk.MetadataReader).Metadata(ctx, p)
	}),
	disk.OpSetMetadata: func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		p, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		attrs, ok := args[1].(map[string]string)
		if !ok {
			return nil, &ArgumentError{Op: op, Reason: fmt.Sprintf("argument 1: expected map[string]string, got %T", args[1])}
		}
		return done(dk.(disk.MetadataWriter).SetMetadata(ctx, p, attrs))
	},
	disk.OpPrepend: pairOp(func(ctx context.Context, dk disk.Disk, p, data string) error {
		return dk.(disk.Prepender).Prepend(ctx, p, data)
	}),
	disk.OpAppend: pairOp(func(ctx context.Context, dk disk.Disk, p, data string) error {
		return dk.(disk.Appender).Append(ctx, p, data)
	}),
	disk.OpMakeDirectory: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return done(dk.(disk.DirectoryMaker).MakeDirectory(ctx, p))
	}),
	disk.OpDeleteDirectory: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return done(dk.(disk.DirectoryDeleter).DeleteDirectory(ctx, p))
	}),
	disk.OpPath: pathOp(func(_ context.Context, dk disk.Disk, p string) (any, error) {
		return dk.(disk.PathResolver).Path(p)
	}),
	disk.OpMimeType: pathOp(func(ctx context.Context, dk disk.Disk, p string) (any, error) {
		return dk.(disk.MimeTyper).MimeType(ctx, p)
	}),
}

// done maps an error-only driver result to (true, nil) on success.
func done(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return true, nil
}

func pathOp(fn func(ctx context.Context, dk disk.Disk, p string) (any, error)) operation {
	return func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 1); err != nil {
			return nil, err
		}
		p, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(ctx, dk, p)
	}
}

func pairOp(fn func(ctx context.Context, dk disk.Disk, a, b string) error) operation {
	return func(ctx context.Context, dk disk.Disk, op disk.Op, args []any) (any, error) {
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		a, err := stringArg(op, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := stringArg(op, args, 1)
		if err != nil {
			return nil, err
		}
		return done(fn(ctx, dk, a, b))
	}
}

func arity(op disk.Op, args []any, n int) error {
	if len(args) != n {
		return &ArgumentError{Op: op, Reason: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
	}
	return nil
}

func stringArg(op disk.Op, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", &ArgumentError{Op: op, Reason: fmt.Sprintf("argument %d: expected string, got %T", i, args[i])}
	}
	return s, nil
}

func bytesArg(op disk.Op, args []any, i int) ([]byte, error) {
	switch v := args[i].(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, &ArgumentError{Op: op, Reason: fmt.Sprintf("argument %d: expected []byte or string, got %T", i, args[i])}
	}
}

func readerArg(op disk.Op, args []any, i int) (io.Reader, error) {
	r, ok := args[i].(io.Reader)
	if !ok || r == nil {
		return nil, &ArgumentError{Op: op, Reason: fmt.Sprintf("argument %d: expected io.Reader, got %T", i, args[i])}
	}
	return r, nil
}
