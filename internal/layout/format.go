package layout

import (
	"strconv"
	"time"

	"github.com/hsaliak/lsgo/pkg/models"
)

const (
	// sixMonths is the age past which timestamps show the year
	sixMonths = 180 * 24 * time.Hour

	recentLayout = "Jan _2 15:04"
	olderLayout  = "Jan _2  2006"
)

var sizeUnits = []string{"B", "K", "M", "G", "T", "P"}

// permission bits in owner/group/other × read/write/execute order
var permBits = [9]struct {
	bit  uint32
	char byte
}{
	{0o400, 'r'}, {0o200, 'w'}, {0o100, 'x'},
	{0o040, 'r'}, {0o020, 'w'}, {0o010, 'x'},
	{0o004, 'r'}, {0o002, 'w'}, {0o001, 'x'},
}

// ModeString renders a raw mode word as a 10-character type and permission string
func ModeString(mode uint32) string {
	buf := make([]byte, 10)

	switch mode & models.TypeMask {
	case models.TypeDir:
		buf[0] = 'd'
	case models.TypeSymlink:
		buf[0] = 'l'
	case models.TypeChar:
		buf[0] = 'c'
	case models.TypeBlock:
		buf[0] = 'b'
	case models.TypeFIFO:
		buf[0] = 'p'
	case models.TypeSocket:
		buf[0] = 's'
	default:
		buf[0] = '-'
	}

	for i, p := range permBits {
		if mode&p.bit != 0 {
			buf[i+1] = p.char
		} else {
			buf[i+1] = '-'
		}
	}

	return string(buf)
}

// FormatSize renders a byte count, optionally scaled to a binary unit
func FormatSize(size int64, human bool) string {
	if !human {
		return strconv.FormatInt(size, 10)
	}
	if size == 0 {
		return "0B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	switch {
	case unit == 0:
		return strconv.FormatInt(size, 10) + sizeUnits[0]
	case value >= 10:
		return strconv.FormatFloat(value, 'f', 0, 64) + sizeUnits[unit]
	default:
		return strconv.FormatFloat(value, 'f', 1, 64) + sizeUnits[unit]
	}
}

// FormatTime renders t in local time. Timestamps older than six months or in
// the future show the year instead of the time of day.
func FormatTime(t, now time.Time) string {
	age := now.Sub(t)
	if age > sixMonths || age < 0 {
		return t.Local().Format(olderLayout)
	}
	return t.Local().Format(recentLayout)
}

// Indicator returns the type suffix for an entry. Directories always get "/";
// the other suffixes only appear when classify is set.
func Indicator(m *models.Metadata, classify bool) string {
	switch m.Type() {
	case models.TypeDir:
		return "/"
	case models.TypeSymlink:
		if classify {
			return "@"
		}
	case models.TypeSocket:
		if classify {
			return "="
		}
	case models.TypeFIFO:
		if classify {
			return "|"
		}
	default:
		if classify && m.IsExecutable() {
			return "*"
		}
	}
	return ""
}

// deviceField renders device numbers in place of a size
func deviceField(m *models.Metadata) string {
	return strconv.FormatUint(uint64(m.RdevMajor), 10) + ", " + strconv.FormatUint(uint64(m.RdevMinor), 10)
}
