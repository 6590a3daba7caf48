package attrs

import (
	"errors"
	"io/fs"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

const permissionBits = 0o7777

// fileStat is the subset of lstat(2) that is recorded and compared.
type fileStat struct {
	mode  uint32
	uid   uint32
	gid   uint32
	atime unix.Timespec
	mtime unix.Timespec
	ctime unix.Timespec
}

func (s fileStat) isSymlink() bool {
	return s.mode&unix.S_IFMT == unix.S_IFLNK
}

func lstat(path string) (fileStat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return fileStat{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return newFileStat(&st), nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, unix.ENOTDIR)
}

func toSeconds(ts unix.Timespec) float64 {
	return float64(ts.Nano()) / 1e9
}

func toTimespec(seconds float64) unix.Timespec {
	return unix.NsecToTimespec(int64(math.Round(seconds * 1e9)))
}

// sameTime compares a recorded timestamp with a live one.
// Float seconds cannot hold every nanosecond value, so anything closer than a microsecond is equal.
func sameTime(recorded float64, live unix.Timespec) bool {
	return math.Abs(recorded-toSeconds(live)) < 1e-6
}
