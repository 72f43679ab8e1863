/*
 * box_test.go, part of idock.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

func TestBoxGeometry(t *testing.T) {
	b := NewBox(v3.Vec{1, 2, 3}, v3.Vec{10, 10, 10}, 0.5)
	assert.Equal(t, [3]int{20, 20, 20}, b.NumGrids)
	assert.Equal(t, [3]int{21, 21, 21}, b.NumProbes)
	assert.InDelta(t, -4.0, b.Corner1[0], 1e-12)
	assert.InDelta(t, 6.0, b.Corner2[0], 1e-12)

	assert.True(t, b.Within(v3.Vec{1, 2, 3}))
	assert.True(t, b.Within(b.Corner1))
	assert.True(t, b.Within(b.Corner2))
	assert.False(t, b.Within(v3.Vec{6.01, 2, 3}))
}

func TestGridIndexSaturates(t *testing.T) {
	b := NewBox(v3.Vec{0, 0, 0}, v3.Vec{10, 10, 10}, 0.5)
	// A point exactly on the high corner still maps to the last cell.
	idx := b.GridIndex(b.Corner2)
	for i := 0; i < 3; i++ {
		assert.Equal(t, b.NumGrids[i]-1, idx[i])
	}
	idx = b.GridIndex(b.Corner1)
	assert.Equal(t, [3]int{0, 0, 0}, idx)

	idx = b.GridIndex(v3.Vec{0.1, 0.1, 0.1})
	assert.Equal(t, [3]int{10, 10, 10}, idx)
}

func TestWithinCutoff(t *testing.T) {
	b := NewBox(v3.Vec{0, 0, 0}, v3.Vec{10, 10, 10}, 0.5)
	assert.True(t, b.WithinCutoff(v3.Vec{0, 0, 0}))
	assert.True(t, b.WithinCutoff(v3.Vec{5 + Cutoff - 0.01, 0, 0}))
	assert.False(t, b.WithinCutoff(v3.Vec{5 + Cutoff, 0, 0}))
	// The corner diagonal counts full 3D distance.
	assert.False(t, b.WithinCutoff(v3.Vec{5 + Cutoff*0.7, 5 + Cutoff*0.8, 0}))
}

func TestMapIndexCoversMap(t *testing.T) {
	b := NewBox(v3.Vec{0, 0, 0}, v3.Vec{4, 5, 6}, 1)
	require.Equal(t, [3]int{5, 6, 7}, b.NumProbes)
	seen := make([]bool, b.MapSize())
	for z := 0; z < b.NumProbes[2]; z++ {
		for y := 0; y < b.NumProbes[1]; y++ {
			for x := 0; x < b.NumProbes[0]; x++ {
				i := b.MapIndex(x, y, z)
				require.False(t, seen[i], "duplicate map index")
				seen[i] = true
			}
		}
	}
	for _, s := range seen {
		require.True(t, s)
	}
}
