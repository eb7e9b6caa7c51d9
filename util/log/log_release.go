//go:build release

package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dixieflatline76/jukebox/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Release builds log to stderr and to a rotating file under JUKEBOX_LOG_DIR,
// or ~/.jukebox when unset. JUKEBOX_LOG_DIR=- keeps stderr only.
func init() {
	debugOn, _ := strconv.ParseBool(os.Getenv("JUKEBOX_DEBUG"))
	SetDebug(debugOn)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	dir := os.Getenv("JUKEBOX_LOG_DIR")
	if dir == "-" {
		return
	}
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Failed to create log directory %s, logging to stderr only: %v", dir, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   filepath.Join(dir, config.AppName+config.LogExt),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}))
}
