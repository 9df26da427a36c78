//go:build linux

package filesystem

import (
	"errors"
	"time"

	"github.com/hsaliak/lsgo/pkg/models"
	"golang.org/x/sys/unix"
)

const statxMask = unix.STATX_BASIC_STATS | unix.STATX_BTIME

// statPath captures metadata with statx so birth time is available where the
// filesystem records it. Kernels without statx fall back to lstat/stat.
func statPath(path string, follow bool) (models.Metadata, error) {
	flags := unix.AT_STATX_SYNC_AS_STAT
	if !follow {
		flags |= unix.AT_SYMLINK_NOFOLLOW
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, flags, statxMask, &stx)
	if errors.Is(err, unix.ENOSYS) {
		return statLegacy(path, follow)
	}
	if err != nil {
		return models.Metadata{}, err
	}

	major, minor := splitDevice(unix.Mkdev(stx.Rdev_major, stx.Rdev_minor))
	m := models.Metadata{
		Mode:       uint32(stx.Mode),
		Size:       int64(stx.Size),
		Nlink:      uint64(stx.Nlink),
		UID:        stx.Uid,
		GID:        stx.Gid,
		Inode:      stx.Ino,
		Blocks:     int64(stx.Blocks),
		RdevMajor:  major,
		RdevMinor:  minor,
		ModTime:    statxTime(stx.Mtime),
		ChangeTime: statxTime(stx.Ctime),
		AccessTime: statxTime(stx.Atime),
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		m.BirthTime = statxTime(stx.Btime)
		m.HasBirthTime = true
	}
	return m, nil
}

func statLegacy(path string, follow bool) (models.Metadata, error) {
	var st unix.Stat_t
	var err error
	if follow {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		return models.Metadata{}, err
	}

	major, minor := splitDevice(uint64(st.Rdev))
	return models.Metadata{
		Mode:       st.Mode,
		Size:       st.Size,
		Nlink:      uint64(st.Nlink),
		UID:        st.Uid,
		GID:        st.Gid,
		Inode:      st.Ino,
		Blocks:     st.Blocks,
		RdevMajor:  major,
		RdevMinor:  minor,
		ModTime:    time.Unix(st.Mtim.Unix()),
		ChangeTime: time.Unix(st.Ctim.Unix()),
		AccessTime: time.Unix(st.Atim.Unix()),
	}, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}
