// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version parses the "major.minor.patch[-rcN]" version strings
// reported by a remote zeta server's capability handshake, the same
// format and parsing rules the teacher's git-version detector uses for
// the local git binary.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor.patch version, optionally a release
// candidate.
type Version struct {
	versionString       string
	major, minor, patch uint32
	rc                  bool
}

// New constructs a Version from its components.
func New(major, minor, patch uint32) Version {
	return Version{
		versionString: fmt.Sprintf("%d.%d.%d", major, minor, patch),
		major:         major,
		minor:         minor,
		patch:         patch,
	}
}

func (v Version) String() string {
	return v.versionString
}

// LessThan reports whether v is older than other.
func (v Version) LessThan(other Version) bool {
	switch {
	case v.major != other.major:
		return v.major < other.major
	case v.minor != other.minor:
		return v.minor < other.minor
	case v.patch != other.patch:
		return v.patch < other.patch
	case v.rc != other.rc:
		return v.rc
	default:
		return false
	}
}

// Equal reports whether v and other parse to the same version.
func (v Version) Equal(other Version) bool {
	return v.major == other.major && v.minor == other.minor && v.patch == other.patch && v.rc == other.rc
}

// GreaterOrEqual reports whether v is at least other.
func (v Version) GreaterOrEqual(other Version) bool {
	return !v.LessThan(other)
}

// Parse parses a version string in "major.minor.patch[-rcN]" form. A
// component of "GIT" (the sentinel a dirty working tree falls back to when
// it cannot describe its own version) parses as 0, matching upstream git's
// own convention. Parse requires at least three dot-separated components
// and ignores any beyond the fourth.
func Parse(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 4)
	if len(parts) < 3 {
		return Version{}, fmt.Errorf("version: expected major.minor.patch in %q", s)
	}

	v := Version{versionString: s}
	fields := []*uint32{&v.major, &v.minor, &v.patch}
	for i, field := range fields {
		if parts[i] == "GIT" {
			*field = 0
			continue
		}
		numeric, rcSuffix, _ := strings.Cut(parts[i], "-")
		n, err := strconv.ParseUint(numeric, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("version: %w", err)
		}
		*field = uint32(n)
		if strings.HasPrefix(rcSuffix, "rc") {
			v.rc = true
		}
	}
	if len(parts) == 4 && strings.HasPrefix(parts[3], "rc") {
		v.rc = true
	}
	return v, nil
}
