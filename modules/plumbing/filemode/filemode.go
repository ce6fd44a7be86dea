// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

// Package filemode implements the file modes used by the object database's
// tree encoding, mirroring the POSIX-derived bit patterns Git uses so that
// modes can be compared and preserved verbatim through tree surgery.
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode carries the exact bit pattern used by the tree encoding.
type FileMode uint32

const (
	sIFMT  FileMode = 0170000
	sIFDIR FileMode = 0040000
	sIFREG FileMode = 0100000
	sIFLNK FileMode = 0120000
	sIFGIT FileMode = 0160000
)

const (
	// Empty represents the absence of an entry: an (OID=zero, any mode)
	// tree entry is normalized to "entry removed" regardless of what mode
	// bits it carries, so Empty is mostly useful as a recognizable marker.
	Empty FileMode = 0
	// Dir is a sub-tree.
	Dir FileMode = sIFDIR
	// Regular is an ordinary, non-executable file.
	Regular FileMode = sIFREG | 0644
	// Deprecated is the legacy non-executable regular file mode (0100664).
	// New accepts it as is; nothing in this module normalizes it to Regular.
	Deprecated FileMode = sIFREG | 0664
	// Executable is an executable regular file.
	Executable FileMode = sIFREG | 0755
	// Symlink is a symbolic link, whose blob content is the link target.
	Symlink FileMode = sIFLNK
	// Submodule (gitlink) records a pointer to another repository's commit.
	Submodule FileMode = sIFGIT
	// Fragments is an extension bit layered on top of one of the modes
	// above, marking a blob that is split into content-addressed chunks.
	Fragments FileMode = 0004000
)

// New parses a mode the way the tree encoding stores it: an octal string,
// e.g. "100644", "40000", "120000".
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("filemode: invalid mode %q: %w", s, err)
	}
	return FileMode(n), nil
}

// Bytes returns the mode encoded the same way the hash comparisons in the
// merge engine expect: as raw big-endian bytes, so two entries whose only
// difference is mode hash differently even when content is identical.
func (m FileMode) Bytes() []byte {
	return []byte{byte(m >> 24), byte(m >> 16), byte(m >> 8), byte(m)}
}

func (m FileMode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// IsDir reports whether m denotes a sub-tree.
func (m FileMode) IsDir() bool {
	return m&sIFMT == sIFDIR
}

// IsRegular reports whether m denotes an ordinary (non-symlink) blob,
// executable or not.
func (m FileMode) IsRegular() bool {
	return m&sIFMT == sIFREG
}

// IsSymlink reports whether m denotes a symlink.
func (m FileMode) IsSymlink() bool {
	return m&sIFMT == sIFLNK
}

// IsSubmodule reports whether m denotes a gitlink.
func (m FileMode) IsSubmodule() bool {
	return m&sIFMT == sIFGIT
}

// IsExecutable reports whether m is a regular file with any execute bit set.
func (m FileMode) IsExecutable() bool {
	return m.IsRegular() && m&0111 != 0
}

// ToOSFileMode converts m to the nearest os.FileMode, for working-copy
// materialization.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch {
	case m.IsDir():
		return os.ModeDir | 0755, nil
	case m.IsSymlink():
		return os.ModeSymlink | 0777, nil
	case m.IsSubmodule():
		return 0, fmt.Errorf("filemode: submodules have no OS file mode")
	case m.IsExecutable():
		return 0755, nil
	case m.IsRegular():
		return 0644, nil
	default:
		return 0, fmt.Errorf("filemode: unsupported mode %s", m)
	}
}
