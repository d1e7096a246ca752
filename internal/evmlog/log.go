// Copyright 2024 by the Authors
// This file is part of the go-core library.
//
// The go-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR ANY PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-core library. If not, see <http://www.gnu.org/licenses/>.

// Package evmlog is the ambient structured logger every component reaches
// for instead of the standard library's log package: leveled, with
// key/value context pairs and an optional colourised terminal format.
package evmlog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
)

// Level is a log severity, ordered most to least severe as increasing
// integers (mirrors syslog-style leveled loggers).
type Level int

const (
	LvlCrit Level = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
)

func (l Level) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Record is one emitted log line.
type Record struct {
	Time time.Time
	Lvl  Level
	Msg  string
	Ctx  []interface{}
	Call stack.Call
}

// Handler processes a Record, typically by formatting and writing it
// somewhere.
type Handler interface {
	Log(r *Record) error
}

// Logger is the leveled interface every package in this module logs
// through; construct one with New and pass it down via constructor
// injection rather than reaching for a package-global.
type Logger interface {
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})

	// New returns a child Logger that prepends ctx to every record it logs.
	New(ctx ...interface{}) Logger
}

type logger struct {
	ctx     []interface{}
	handler Handler
}

// New returns a Logger that writes through handler, with ctx prepended to
// every record.
func New(handler Handler, ctx ...interface{}) Logger {
	return &logger{ctx: ctx, handler: handler}
}

func (l *logger) write(lvl Level, msg string, ctx []interface{}) {
	call := stack.Caller(2)
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	_ = l.handler.Log(&Record{Time: time.Now(), Lvl: lvl, Msg: msg, Ctx: merged, Call: call})
}

func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LvlCrit, msg, ctx) }

func (l *logger) New(ctx ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{ctx: merged, handler: l.handler}
}

var (
	rootMu sync.Mutex
	root   Logger = New(NewTerminalHandler(os.Stderr, true))
)

// Root returns the process-wide default Logger. Components SHOULD accept
// a Logger via their constructor instead of calling this; it exists for
// the handful of call sites (package init, CLI glue) that cannot.
func Root() Logger {
	rootMu.Lock()
	defer rootMu.Unlock()
	return root
}

// SetRoot replaces the process-wide default Logger.
func SetRoot(l Logger) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = l
}

func formatCtx(ctx []interface{}) string {
	out := ""
	for i := 0; i+1 < len(ctx); i += 2 {
		out += fmt.Sprintf(" %v=%v", ctx[i], ctx[i+1])
	}
	if len(ctx)%2 == 1 {
		out += fmt.Sprintf(" %v=MISSING", ctx[len(ctx)-1])
	}
	return out
}
