package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive keeps a copy of every imported workbook on disk so an import can be inspected or
// replayed later.
type Archive struct {
	baseDir string
	now     func() time.Time
}

// NewArchive ensures baseDir exists.
func NewArchive(baseDir string) (*Archive, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("archive directory is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archive{baseDir: baseDir, now: time.Now}, nil
}

// Save copies r to a timestamped file named after the upload and returns its relative name.
func (a *Archive) Save(original string, r io.Reader) (string, error) {
	base := filepath.Base(original)
	if base == "." || base == string(filepath.Separator) {
		base = "workbook.xlsx"
	}
	name := a.now().UTC().Format("20060102T150405") + "_" + strings.ReplaceAll(base, " ", "_")
	dir := filepath.Join(a.baseDir, a.now().UTC().Format("2006-01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare archive directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close() //nolint:errcheck
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	rel, _ := filepath.Rel(a.baseDir, f.Name())
	return rel, nil
}

// PurgeBefore removes archived files last modified before cutoff and reports how many went.
func (a *Archive) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := filepath.WalkDir(a.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		deleted++
		return nil
	})
	if err != nil {
		return deleted, fmt.Errorf("purge archive: %w", err)
	}
	return deleted, nil
}
