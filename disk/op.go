package disk

// Op names a storage primitive a disk may support.
type Op string

const (
	OpPutFileAs       Op = "putFileAs"
	OpPut             Op = "put"
	OpGet             Op = "get"
	OpReadStream      Op = "readStream"
	OpDelete          Op = "delete"
	OpExists          Op = "exists"
	OpURL             Op = "url"
	OpTemporaryURL    Op = "temporaryUrl"
	OpFiles           Op = "files"
	OpCopy            Op = "copy"
	OpMove            Op = "move"
	OpGetMetadata     Op = "getMetadata"
	OpSetMetadata     Op = "setMetadata"
	OpPrepend         Op = "prepend"
	OpAppend          Op = "append"
	OpMakeDirectory   Op = "makeDirectory"
	OpDeleteDirectory Op = "deleteDirectory"
	OpPath            Op = "path"
	OpMimeType        Op = "mimeType"
)

// AllOps lists every known operation in a stable order.
var AllOps = []Op{
	OpPutFileAs, OpPut, OpGet, OpReadStream, OpDelete, OpExists, OpFiles,
	OpURL, OpTemporaryURL, OpCopy, OpMove, OpGetMetadata, OpSetMetadata,
	OpPrepend, OpAppend, OpMakeDirectory, OpDeleteDirectory, OpPath, OpMimeType,
}

func (op Op) String() string { return string(op) }

// Known reports whether op is one of the enumerated operations.
func (op Op) Known() bool {
	for _, o := range AllOps {
		if o == op {
			return true
		}
	}
	return false
}

// Supports reports whether d implements op.
// Unknown operations are never supported.
func Supports(d Disk, op Op) bool {
	if d == nil {
		return false
	}
	switch op {
	case OpPutFileAs, OpPut, OpGet, OpReadStream, OpDelete, OpExists, OpFiles:
		return true
	case OpURL:
		_, ok := d.(URLResolver)
		return ok
	case OpTemporaryURL:
		_, ok := d.(TemporaryURLResolver)
		return ok
	case OpCopy:
		_, ok := d.(Copier)
		return ok
	case OpMove:
		_, ok := d.(Mover)
		return ok
	case OpGetMetadata:
		_, ok := d.(MetadataReader)
		return ok
	case OpSetMetadata:
		_, ok := d.(MetadataWriter)
		return ok
	case OpPrepend:
		_, ok := d.(Prepender)
		return ok
	case OpAppend:
		_, ok := d.(Appender)
		return ok
	case OpMakeDirectory:
		_, ok := d.(DirectoryMaker)
		return ok
	case OpDeleteDirectory:
		_, ok := d.(DirectoryDeleter)
		return ok
	case OpPath:
		_, ok := d.(PathResolver)
		return ok
	case OpMimeType:
		_, ok := d.(MimeTyper)
		return ok
	default:
		return false
	}
}

// Capabilities returns the operations d supports, in AllOps order.
func Capabilities(d Disk) []Op {
	var ops []Op
	for _, op := range AllOps {
		if Supports(d, op) {
			ops = append(ops, op)
		}
	}
	return ops
}
