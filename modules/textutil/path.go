// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package textutil renders raw path bytes as text for diagnostics, e.g.
// conflicted paths embedded in a merge-conflict error.
package textutil

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripControl replaces C0 control characters (below U+0020) and DEL with
// U+FFFD; other runes pass through unchanged. A path containing control bytes (e.g. from a corrupt tree entry) can still
// be embedded in a one-line error message without breaking a terminal.
var stripControl = runes.Map(func(r rune) rune {
	if r == utf8.RuneError {
		return utf8.RuneError
	}
	if r < 0x20 || r == 0x7f {
		return utf8.RuneError
	}
	return r
})

// DecodePath renders raw path bytes for display in an error message,
// normalizing to NFC and replacing control bytes and invalid UTF-8 with the
// Unicode replacement character rather than failing outright.
func DecodePath(path []byte) (string, error) {
	out, _, err := transform.Bytes(transform.Chain(stripControl, norm.NFC), path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
