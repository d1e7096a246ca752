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

package evmlog

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

var levelColor = map[Level]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
}

// terminalHandler writes human-readable, optionally colourised lines to
// an io.Writer. Use mattn/go-colorable to wrap os.Stdout/os.Stderr on
// Windows consoles that don't natively understand ANSI escapes.
type terminalHandler struct {
	mu     sync.Mutex
	out    io.Writer
	useClr bool
}

// NewTerminalHandler returns a Handler writing to w. When useColor is
// true, the level tag is colourised; w is expected to already be
// colorable (wrap with colorable.NewColorable if needed).
func NewTerminalHandler(w io.Writer, useColor bool) Handler {
	return &terminalHandler{out: w, useClr: useColor}
}

// NewColorableStderr returns os.Stderr wrapped for ANSI colour support on
// every platform the runtime targets.
func NewColorableStderr() io.Writer {
	return colorable.NewColorableStderr()
}

func (h *terminalHandler) Log(r *Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	lvl := r.Lvl.String()
	if h.useClr {
		if c, ok := levelColor[r.Lvl]; ok {
			lvl = c.Sprint(lvl)
		}
	}

	line := fmt.Sprintf("%s[%s] %s%s\n",
		r.Time.Format("2006-01-02T15:04:05.000"), lvl, r.Msg, formatCtx(r.Ctx))
	_, err := io.WriteString(h.out, line)
	return err
}

// plainHandler is the non-tty fallback: no colour, no call-site.
type plainHandler struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPlainHandler returns a Handler with no ANSI escapes, suitable for
// redirected output or log aggregation.
func NewPlainHandler(w io.Writer) Handler {
	return &plainHandler{out: w}
}

func (h *plainHandler) Log(r *Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	line := fmt.Sprintf("%s [%s] %s%s\n",
		r.Time.Format("2006-01-02T15:04:05.000"), r.Lvl, r.Msg, formatCtx(r.Ctx))
	_, err := io.WriteString(h.out, line)
	return err
}
