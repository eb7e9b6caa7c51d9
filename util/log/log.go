// Package log is the process logger. It writes through the standard library
// logger so output destinations are configured in one place, and adds a debug
// level that can be switched at runtime.
package log

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

const debugPrefix = "[DEBUG] "

var debug atomic.Bool

// SetDebug enables or disables Debug and Debugf output.
func SetDebug(on bool) {
	debug.Store(on)
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debug.Load()
}

func output(msg string) {
	_ = log.Output(3, msg)
}

func Print(v ...interface{}) {
	output(fmt.Sprint(v...))
}

func Printf(format string, v ...interface{}) {
	output(fmt.Sprintf(format, v...))
}

func Println(v ...interface{}) {
	output(fmt.Sprintln(v...))
}

// Fatal logs and exits with status 1. Deferred calls do not run.
func Fatal(v ...interface{}) {
	output(fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	output(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func Debug(v ...interface{}) {
	if debug.Load() {
		output(debugPrefix + fmt.Sprint(v...))
	}
}

func Debugf(format string, v ...interface{}) {
	if debug.Load() {
		output(debugPrefix + fmt.Sprintf(format, v...))
	}
}
