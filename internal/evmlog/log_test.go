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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesMessageAndContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(NewPlainHandler(&buf))

	l.Info("replay started", "contract", "abc123", "height", 42)

	out := buf.String()
	assert.True(t, strings.Contains(out, "replay started"))
	assert.True(t, strings.Contains(out, "contract=abc123"))
	assert.True(t, strings.Contains(out, "height=42"))
	assert.True(t, strings.Contains(out, "[INFO]"))
}

func TestLoggerNewChildPrependsContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(NewPlainHandler(&buf))
	child := base.New("contract", "abc123")

	child.Warn("validity false", "tx", "tx1")

	out := buf.String()
	assert.True(t, strings.Contains(out, "contract=abc123"))
	assert.True(t, strings.Contains(out, "tx=tx1"))
}
