//go:build darwin || netbsd
// +build darwin netbsd

package attrs

import "golang.org/x/sys/unix"

func newFileStat(st *unix.Stat_t) fileStat {
	return fileStat{
		mode:  uint32(st.Mode),
		uid:   st.Uid,
		gid:   st.Gid,
		atime: st.Atimespec,
		mtime: st.Mtimespec,
		ctime: st.Ctimespec,
	}
}
