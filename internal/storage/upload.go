// Package storage persists uploaded product images under a public directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

var ErrInvalidFilename = errors.New("invalid upload filename")

// Uploader stores a file and returns the public path to record with a product.
type Uploader interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// DiskUploader writes uploads into Dir and exposes them below PublicPrefix.
type DiskUploader struct {
	fs           afero.Fs
	dir          string
	publicPrefix string
	now          func() time.Time
}

// NewDiskUploader creates an uploader on fs. Use afero.NewOsFs in production.
func NewDiskUploader(fs afero.Fs, dir, publicPrefix string) *DiskUploader {
	return &DiskUploader{
		fs:           fs,
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		now:          time.Now,
	}
}

// Dir returns the directory uploads are written to.
func (u *DiskUploader) Dir() string {
	return u.dir
}

// Save writes r as "<unix-millis>-<basename>". Two uploads of the same name
// within one millisecond overwrite each other.
func (u *DiskUploader) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := sanitize(filename)
	if base == "" {
		return "", ErrInvalidFilename
	}

	if err := u.fs.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := strconv.FormatInt(u.now().UnixMilli(), 10) + "-" + base

	target := filepath.Join(u.dir, name)
	f, err := u.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", u.discard(target, fmt.Errorf("failed to write upload: %w", err))
	}

	if err := f.Close(); err != nil {
		return "", u.discard(target, fmt.Errorf("failed to close upload: %w", err))
	}

	return path.Join(u.publicPrefix, name), nil
}

// Remove deletes an upload by the public path Save returned. A path outside
// the public prefix is rejected; a file that is already gone is not an error.
func (u *DiskUploader) Remove(ctx context.Context, publicPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := strings.CutPrefix(publicPath, strings.TrimSuffix(u.publicPrefix, "/")+"/")
	if !ok || name == "" || sanitize(name) != name {
		return ErrInvalidFilename
	}

	if err := u.fs.Remove(filepath.Join(u.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// discard removes a partly written file and returns cause, joined with any
// removal failure.
func (u *DiskUploader) discard(target string, cause error) error {
	if err := u.fs.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(cause, fmt.Errorf("failed to remove partial upload: %w", err))
	}
	return cause
}

// sanitize strips any directory part a client may have sent.
func sanitize(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}
