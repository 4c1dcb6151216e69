package disk

import (
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// SniffContentType detects the MIME type of body from its first bytes.
// The returned reader yields the complete, unconsumed body.
func SniffContentType(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), body), nil
}

// Clean normalizes a disk path: forward slashes, no leading slash, no dot segments.
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Join joins a directory and a file name into a clean disk path.
func Join(dir, name string) string {
	return Clean(path.Join(dir, name))
}
