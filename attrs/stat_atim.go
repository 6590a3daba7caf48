//go:build linux || freebsd || openbsd || dragonfly || solaris
// +build linux freebsd openbsd dragonfly solaris

package attrs

import "golang.org/x/sys/unix"

func newFileStat(st *unix.Stat_t) fileStat {
	return fileStat{
		mode:  uint32(st.Mode),
		uid:   st.Uid,
		gid:   st.Gid,
		atime: st.Atim,
		mtime: st.Mtim,
		ctime: st.Ctim,
	}
}
