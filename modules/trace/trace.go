// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package trace provides the logging and step-timing primitives used
// throughout zeta-blame, wrapping logrus the same way the rest of the
// zeta tool family does.
package trace

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false})
}

// SetVerbose raises or lowers the logrus level for the process.
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

func location(skip int) (string, int) {
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

// Errorf logs an error at the call site and returns it as a plain error,
// so callers can both propagate and surface it in one line.
func Errorf(format string, a ...any) error {
	fn, line := location(2)
	msg := fmt.Sprintf(format, a...)
	logrus.Errorf("%s:%d %s", fn, line, msg)
	return errors.New(msg)
}

// Debugf logs a debug line, a no-op unless SetVerbose(true) was called.
func Debugf(format string, a ...any) {
	logrus.Debugf(format, a...)
}

// Tracker reports elapsed wall time between successive driver steps when
// debug mode is on, the same stderr timing output long-running zeta
// commands print.
type Tracker struct {
	debug bool
	last  time.Time
}

// NewTracker creates a Tracker; debugMode gates all output.
func NewTracker(debugMode bool) *Tracker {
	return &Tracker{debug: debugMode, last: time.Now()}
}

// StepNext records the name of the step just finished and prints its
// duration since the previous call.
func (t *Tracker) StepNext(format string, a ...any) {
	if !t.debug {
		return
	}
	s := fmt.Sprintf(format, a...)
	now := time.Now()
	fmt.Fprintf(os.Stderr, "\x1b[35m* %s use time: %v\x1b[0m\n", strings.Trim(s, "\n"), now.Sub(t.last))
	t.last = now
}
