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

package jshost

import "math/rand"

// fixedRandSeed is never varied across runs: Math.random()
// to be reproducible across evaluations of the same contract.
const fixedRandSeed = 0x5ee0

// fixedRandSource returns a goja.RandSource backed by a freshly-seeded
// math/rand generator, so every Host gets the same Math.random()
// sequence regardless of wall-clock time or call order across runs.
func fixedRandSource() func() float64 {
	src := rand.New(rand.NewSource(fixedRandSeed))
	return src.Float64
}
