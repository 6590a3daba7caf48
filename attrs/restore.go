package attrs

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

// Attribute names a group of attributes that is corrected as a whole.
type Attribute string

const (
	AttributeOwnership   Attribute = "ownership"
	AttributePermissions Attribute = "permissions"
	AttributeMtime       Attribute = "mtime"
)

// Summary describes what a restore run did.
type Summary struct {
	// Paths is the number of recorded paths that were looked at.
	Paths int
	// Skipped is the number of recorded paths that no longer exist.
	Skipped int
	Updates map[Attribute]int
}

// Changed returns the total number of attribute updates.
func (s Summary) Changed() int {
	n := 0
	for _, count := range s.Updates {
		n += count
	}
	return n
}

// Restorer re-applies recorded attributes that differ from the live filesystem.
type Restorer struct {
	Log logr.Logger
}

// NewRestorer returns a Restorer that logs to the given logger.
func NewRestorer(log logr.Logger) *Restorer {
	return &Restorer{Log: log}
}

// Restore processes the recorded paths in lexicographic order.
// Missing paths are skipped, the first failing update aborts the run.
func (r *Restorer) Restore(snap Snapshot) (Summary, error) {
	summary := Summary{Updates: map[Attribute]int{}}

	for _, path := range snap.Paths() {
		summary.Paths++

		current, err := lstat(path)
		if isNotExist(err) {
			r.Log.Info("Skipping non-existent file", "path", path)
			summary.Skipped++
			continue
		}
		if err != nil {
			return summary, err
		}

		if err := r.apply(path, snap[path], current, summary.Updates); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Restorer) apply(path string, rec Record, current fileStat, updates map[Attribute]int) error {
	uid, gid := -1, -1
	if rec.UID != nil && *rec.UID != current.uid {
		uid = int(*rec.UID)
	}
	if rec.GID != nil && *rec.GID != current.gid {
		gid = int(*rec.GID)
	}
	if uid != -1 || gid != -1 {
		r.Log.Info("Updating UID, GID", "path", path, "uid", uid, "gid", gid)
		if err := unix.Lchown(path, uid, gid); err != nil {
			return &os.PathError{Op: "lchown", Path: path, Err: err}
		}
		updates[AttributeOwnership]++
	}

	if rec.Mode != nil && *rec.Mode&permissionBits != current.mode&permissionBits {
		if current.isSymlink() {
			// Linux has no way to change the permissions of a symlink itself.
			r.Log.V(1).Info("Ignoring permissions of symlink", "path", path)
		} else {
			mode := *rec.Mode & permissionBits
			r.Log.Info("Updating permissions", "path", path, "mode", fmt.Sprintf("%04o", mode))
			if err := unix.Chmod(path, mode); err != nil {
				return &os.PathError{Op: "chmod", Path: path, Err: err}
			}
			updates[AttributePermissions]++
		}
	}

	if !sameTime(rec.Mtime, current.mtime) {
		r.Log.Info("Updating mtime", "path", path)
		times := []unix.Timespec{toTimespec(rec.Atime), toTimespec(rec.Mtime)}
		if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, unix.AT_SYMLINK_NOFOLLOW); err != nil {
			return &os.PathError{Op: "utimensat", Path: path, Err: err}
		}
		updates[AttributeMtime]++
	}
	return nil
}
