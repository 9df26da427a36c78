//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package filesystem

import (
	"time"

	"github.com/hsaliak/lsgo/pkg/models"
	"golang.org/x/sys/unix"
)

// statPath captures metadata with lstat, or stat when following links.
// Birth time is not read here and falls back to change time.
func statPath(path string, follow bool) (models.Metadata, error) {
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
		Mode:       uint32(st.Mode),
		Size:       st.Size,
		Nlink:      uint64(st.Nlink),
		UID:        st.Uid,
		GID:        st.Gid,
		Inode:      uint64(st.Ino),
		Blocks:     st.Blocks,
		RdevMajor:  major,
		RdevMinor:  minor,
		ModTime:    time.Unix(st.Mtim.Unix()),
		ChangeTime: time.Unix(st.Ctim.Unix()),
		AccessTime: time.Unix(st.Atim.Unix()),
	}, nil
}
