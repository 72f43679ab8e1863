/*
 * box.go, part of idock.
 *
 * Copyright 2024 Anna Nguyen <annanguyen99{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import (
	"math"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

// DefaultGranularity is the default spacing of grid map probes in Angstrom.
const DefaultGranularity = 0.15625

// Box is the axis-aligned search volume. NumGrids counts grid cells per
// dimension, NumProbes (= NumGrids + 1) the probe points bounding them.
type Box struct {
	Center         v3.Vec
	Size           v3.Vec
	Corner1        v3.Vec // low corner
	Corner2        v3.Vec // high corner, snapped up to the grid
	Granularity    float64
	GranularityInv float64
	NumGrids       [3]int
	NumProbes      [3]int
}

// NewBox builds a search box from center, size and grid granularity. The
// high corner is snapped outward so that a whole number of cells covers the
// requested size.
func NewBox(center, size v3.Vec, granularity float64) *Box {
	b := &Box{
		Center:         center,
		Size:           size,
		Granularity:    granularity,
		GranularityInv: 1 / granularity,
	}
	for i := 0; i < 3; i++ {
		b.Corner1[i] = center[i] - 0.5*size[i]
		b.NumGrids[i] = int(math.Ceil(size[i] / granularity))
		if b.NumGrids[i] < 1 {
			b.NumGrids[i] = 1
		}
		b.NumProbes[i] = b.NumGrids[i] + 1
		b.Corner2[i] = b.Corner1[i] + granularity*float64(b.NumGrids[i])
	}
	return b
}

// Within reports whether p lies inside the box, boundaries included.
func (b *Box) Within(p v3.Vec) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Corner1[i] || p[i] > b.Corner2[i] {
			return false
		}
	}
	return true
}

// WithinCutoff reports whether p is within the scoring cutoff of the box,
// i.e. whether an atom at p can contribute to any grid probe.
func (b *Box) WithinCutoff(p v3.Vec) bool {
	var d2 float64
	for i := 0; i < 3; i++ {
		switch {
		case p[i] < b.Corner1[i]:
			d := b.Corner1[i] - p[i]
			d2 += d * d
		case p[i] > b.Corner2[i]:
			d := p[i] - b.Corner2[i]
			d2 += d * d
		}
	}
	return d2 < CutoffSqr
}

// GridIndex maps a point inside the box to its grid cell, saturating at
// the boundaries so that a point exactly on the high corner still gets the
// last cell.
func (b *Box) GridIndex(p v3.Vec) [3]int {
	var idx [3]int
	for i := 0; i < 3; i++ {
		j := int((p[i] - b.Corner1[i]) * b.GranularityInv)
		if j < 0 {
			j = 0
		} else if j >= b.NumGrids[i] {
			j = b.NumGrids[i] - 1
		}
		idx[i] = j
	}
	return idx
}

// ProbeCoord returns the position of probe (x, y, z).
func (b *Box) ProbeCoord(x, y, z int) v3.Vec {
	return v3.Vec{
		b.Corner1[0] + b.Granularity*float64(x),
		b.Corner1[1] + b.Granularity*float64(y),
		b.Corner1[2] + b.Granularity*float64(z),
	}
}

// MapSize returns the number of probes of one grid map.
func (b *Box) MapSize() int {
	return b.NumProbes[0] * b.NumProbes[1] * b.NumProbes[2]
}

// MapIndex flattens probe (x, y, z) into a map slice index; x varies
// fastest.
func (b *Box) MapIndex(x, y, z int) int {
	return (z*b.NumProbes[1]+y)*b.NumProbes[0] + x
}
