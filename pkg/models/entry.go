package models

import (
	"time"
)

// Mode word type bits (S_IFMT and friends)
const (
	TypeMask    uint32 = 0o170000
	TypeFIFO    uint32 = 0o010000
	TypeChar    uint32 = 0o020000
	TypeDir     uint32 = 0o040000
	TypeBlock   uint32 = 0o060000
	TypeRegular uint32 = 0o100000
	TypeSymlink uint32 = 0o120000
	TypeSocket  uint32 = 0o140000

	// ExecMask covers the owner, group and other execute bits
	ExecMask uint32 = 0o111
)

// Metadata is a snapshot of an inode taken once when the entry is collected
type Metadata struct {
	Mode      uint32 // Raw mode word: type bits + permission bits
	Size      int64  // Length in bytes
	Nlink     uint64 // Hard link count
	UID       uint32 // Owner ID
	GID       uint32 // Group ID
	Inode     uint64 // Inode number
	Blocks    int64  // Allocated 512-byte blocks
	RdevMajor uint32 // Device major number (device files only)
	RdevMinor uint32 // Device minor number (device files only)

	ModTime    time.Time // Content modification time
	ChangeTime time.Time // Inode change time
	AccessTime time.Time // Last access time
	BirthTime  time.Time // Creation time, valid only if HasBirthTime

	HasBirthTime bool
}

// Type returns the type bits of the mode word
func (m *Metadata) Type() uint32 {
	return m.Mode & TypeMask
}

// IsDir reports whether the snapshot describes a directory
func (m *Metadata) IsDir() bool {
	return m.Type() == TypeDir
}

// IsSymlink reports whether the snapshot describes a symbolic link
func (m *Metadata) IsSymlink() bool {
	return m.Type() == TypeSymlink
}

// IsDevice reports whether the snapshot describes a block or character device
func (m *Metadata) IsDevice() bool {
	t := m.Type()
	return t == TypeChar || t == TypeBlock
}

// IsExecutable reports whether any execute bit is set
func (m *Metadata) IsExecutable() bool {
	return m.Mode&ExecMask != 0
}

// Entry is one filesystem object being listed
type Entry struct {
	Name          string   // Display name (base name, not a full path)
	Path          string   // Path used for metadata and recursion
	Metadata      Metadata // Snapshot captured at collection time
	IsSymlink     bool     // Raw entry is itself a symbolic link
	SymlinkTarget string   // Raw link target, empty unless IsSymlink and readable
}
