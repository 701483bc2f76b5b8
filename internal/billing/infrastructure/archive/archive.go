// Package archive stores rendered statements for later retrieval.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Driver names.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// ErrInvalidKey is returned for empty or escaping keys.
var ErrInvalidKey = errors.New("archive: invalid key")

// Archive persists one rendered statement under a key.
type Archive interface {
	Driver() string
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// StatementKey returns the archive key for an invoice statement.
// The id is path-escaped so it always stays one segment under statements/.
func StatementKey(invoiceID, extension string) string {
	return fmt.Sprintf("statements/%s.%s", url.PathEscape(invoiceID), extension)
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// FS writes statements below a root directory.
type FS struct {
	root string
}

// NewFS creates the root directory if needed.
func NewFS(root string) (*FS, error) {
	if root == "" {
		return nil, errors.New("archive: empty root")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("archive: create root: %w", err)
	}
	return &FS{root: root}, nil
}

// Driver returns DriverFS.
func (a *FS) Driver() string { return DriverFS }

// Put writes data atomically through a temp file.
func (a *FS) Put(ctx context.Context, key, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	path := filepath.Join(a.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
