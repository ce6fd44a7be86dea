// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package trace provides the logging idiom used throughout this module:
// Errorf both logs the failure (with its call site) and returns a plain
// error for the caller to propagate, so a log line always exists next to
// every error that bubbles out of the rewrite engine or object store.
package trace

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Location resolves the function name and line number skip frames up the
// call stack, used to tag log lines with their origin the way panics do.
func Location(skip int) (string, int) {
	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		return "?", line
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "?", line
	}
	return fn.Name(), line
}

// Errorf logs format/a at the call site and returns it as a plain error.
func Errorf(format string, a ...any) error {
	fn, line := Location(2)
	msg := fmt.Sprintf(format, a...)
	logrus.Errorf("%s:%d %s", fn, line, msg)
	return errors.New(msg)
}
