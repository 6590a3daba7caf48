package attrs

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Profile selects the set of attributes that end up in a snapshot.
type Profile string

const (
	// ProfileFull records ownership, permission bits and timestamps.
	ProfileFull Profile = "full"
	// ProfileTimestamps records only timestamps.
	ProfileTimestamps Profile = "timestamps"
)

// ParseProfile returns the Profile with the given name.
func ParseProfile(name string) (Profile, error) {
	switch p := Profile(strings.ToLower(name)); p {
	case ProfileFull, ProfileTimestamps:
		return p, nil
	default:
		return "", fmt.Errorf("the profile '%s' is unknown", name)
	}
}

func (p Profile) record(st fileStat) Record {
	r := Record{
		Ctime: toSeconds(st.ctime),
		Mtime: toSeconds(st.mtime),
		Atime: toSeconds(st.atime),
	}
	if p == ProfileFull {
		mode, uid, gid := st.mode, st.uid, st.gid
		r.Mode, r.UID, r.GID = &mode, &uid, &gid
	}
	return r
}

// Collect walks the tree below root and records every file and directory in it.
// The root itself is not recorded, symlinks are recorded but never followed.
// Paths in exclude, usually the snapshot file itself, are left out.
func Collect(root string, profile Profile, exclude ...string) (Snapshot, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, path := range exclude {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		excluded[abs] = true
	}

	snap := Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if len(excluded) > 0 {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if excluded[abs] {
				return nil
			}
		}

		st, err := lstat(path)
		if err != nil {
			return err
		}
		snap[path] = profile.record(st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot collect attributes below %s: %w", root, err)
	}
	return snap, nil
}
