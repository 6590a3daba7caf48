package querystring

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

// ErrTargetNotRegular is returned if the name without the query string is taken by a directory,
// a symlink or another non-regular file.
var ErrTargetNotRegular = errors.New("existing target is not a regular file")

// Result counts what a Clean run did.
type Result struct {
	Renamed int
	Removed int
	// Skipped counts files consisting of nothing but a query string, like "?v=4.2".
	Skipped int
}

// Cleaner strips query strings, as left behind by `wget -p -k`, from file names.
type Cleaner struct {
	Log logr.Logger
}

// NewCleaner returns a Cleaner that logs to the given logger.
func NewCleaner(log logr.Logger) *Cleaner {
	return &Cleaner{Log: log}
}

// TruncatedName returns name up to the first '?' and whether there was one.
func TruncatedName(name string) (string, bool) {
	i := strings.IndexByte(name, '?')
	if i < 0 {
		return name, false
	}
	return name[:i], true
}

// Clean walks the tree below root and renames every regular file whose name contains a '?'
// to the part before the '?'. If a file with that name already exists, the file with the
// query string is removed instead.
func (c *Cleaner) Clean(root string) (Result, error) {
	result := Result{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name, found := TruncatedName(d.Name())
		if !found {
			return nil
		}
		if name == "" {
			c.Log.Info("Skipping file without name", "path", path)
			result.Skipped++
			return nil
		}

		target := filepath.Join(filepath.Dir(path), name)
		existing, err := lstatIfExists(target)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.Mode().IsRegular() {
				return fmt.Errorf("cannot replace %s with %s: %w", target, path, ErrTargetNotRegular)
			}
			c.Log.Info("Removing duplicate", "path", path, "existing", target)
			if err := os.Remove(path); err != nil {
				return err
			}
			result.Removed++
			return nil
		}

		c.Log.V(1).Info("Renaming", "path", path, "target", target)
		if err := os.Rename(path, target); err != nil {
			return err
		}
		result.Renamed++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("cannot clean query strings below %s: %w", root, err)
	}

	c.Log.Info("query strings cleaned", "root", root, "renamed", result.Renamed, "removed", result.Removed, "skipped", result.Skipped)
	return result, nil
}

// lstatIfExists returns nil without an error if there is nothing at path.
func lstatIfExists(path string) (fs.FileInfo, error) {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return fi, err
}
