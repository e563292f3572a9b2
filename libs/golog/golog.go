// Package golog implements a leveled logger with pluggable handlers.
package golog

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents a log level (CRIT, ERR, ...)
type Level int32

// Log levels
const (
	CRIT  Level = iota // For panics (code bugs)
	ERR                // General errors (e.g. errors from storage, etc)
	WARN               // e.g. correctable but inconsistent state
	INFO               // e.g. access logs, analytics, ...
	DEBUG              // Normally turned off but can help to track down issues
)

// Levels maps log level to a string
var Levels = map[Level]string{
	CRIT:  "CRIT",
	ERR:   "ERR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
}

func (l Level) String() string {
	if s := Levels[l]; s != "" {
		return s
	}
	return strconv.Itoa(int(l))
}

type Logger interface {
	Context(ctx ...interface{}) Logger

	SetLevel(l Level) Level
	Level() Level
	// L returns true if the current level is greater than or equal to 'l'
	L(l Level) bool

	SetHandler(h Handler)

	Logf(l Level, format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	mu  sync.Mutex
	ctx []interface{}
	hnd Handler
	lvl Level
}

var defaultL = &logger{
	hnd: DefaultHandler,
	lvl: INFO,
}

// DefaultHandler writes logfmt entries to stdout/stderr.
var DefaultHandler = IOHandler(os.Stdout, os.Stderr)

// Default returns the process-wide logger.
func Default() Logger {
	return defaultL
}

func (l *logger) Context(ctx ...interface{}) Logger {
	if len(ctx)%2 != 0 {
		l.Criticalf("Context values must be provided in pairs: %+v", ctx)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return &logger{
		ctx: append(append([]interface{}(nil), l.ctx...), ctx...),
		hnd: l.hnd,
		lvl: l.lvl,
	}
}

func (l *logger) SetLevel(lvl Level) Level {
	return Level(atomic.SwapInt32((*int32)(&l.lvl), int32(lvl)))
}

func (l *logger) Level() Level {
	return Level(atomic.LoadInt32((*int32)(&l.lvl)))
}

func (l *logger) L(lvl Level) bool {
	return l.Level() >= lvl
}

func (l *logger) SetHandler(h Handler) {
	l.mu.Lock()
	l.hnd = h
	l.mu.Unlock()
}

func (l *logger) Logf(lvl Level, format string, args ...interface{}) {
	if !l.L(lvl) {
		return
	}
	e := &Entry{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  fmt.Sprintf(format, args...),
		Ctx:  l.ctx,
	}
	l.mu.Lock()
	hnd := l.hnd
	l.mu.Unlock()
	if err := hnd.Log(e); err != nil {
		fmt.Fprintf(os.Stderr, "golog: failed to log entry: %s\n", err)
	}
}

func (l *logger) Criticalf(format string, args ...interface{}) {
	l.Logf(CRIT, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.Logf(ERR, format, args...)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.Logf(WARN, format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.Logf(INFO, format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.Logf(DEBUG, format, args...)
}

// Context returns a child of the default logger with the given context values attached.
func Context(ctx ...interface{}) Logger {
	return defaultL.Context(ctx...)
}

// Criticalf logs at the CRIT level to the default logger.
func Criticalf(format string, args ...interface{}) {
	defaultL.Criticalf(format, args...)
}

// Errorf logs at the ERR level to the default logger.
func Errorf(format string, args ...interface{}) {
	defaultL.Errorf(format, args...)
}

// Warningf logs at the WARN level to the default logger.
func Warningf(format string, args ...interface{}) {
	defaultL.Warningf(format, args...)
}

// Infof logs at the INFO level to the default logger.
func Infof(format string, args ...interface{}) {
	defaultL.Infof(format, args...)
}

// Debugf logs at the DEBUG level to the default logger.
func Debugf(format string, args ...interface{}) {
	defaultL.Debugf(format, args...)
}
