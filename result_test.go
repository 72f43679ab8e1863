/*
 * result_test.go, part of idock.
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

// pose builds a single-heavy-atom Result at position x with energy e.
func pose(e, x float64) *Result {
	return &Result{
		E:          e,
		HeavyAtoms: [][]v3.Vec{{{x, 0, 0}}},
		Hydrogens:  [][]v3.Vec{{}},
	}
}

func TestResultSetOrdersByEnergy(t *testing.T) {
	rs := NewResultSet(9, 1)
	rs.Push(pose(-3, 0))
	rs.Push(pose(-5, 10))
	rs.Push(pose(-4, 20))
	res := rs.Results()
	require.Len(t, res, 3)
	assert.Equal(t, -5.0, res[0].E)
	assert.Equal(t, -4.0, res[1].E)
	assert.Equal(t, -3.0, res[2].E)
}

func TestResultSetDeduplicates(t *testing.T) {
	rs := NewResultSet(9, 1)
	rs.Push(pose(-3, 0))
	// Within 2 A and worse: dropped.
	rs.Push(pose(-2, 1))
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, -3.0, rs.Results()[0].E)
	// Within 2 A and better: replaces its twin.
	rs.Push(pose(-6, 1.5))
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, -6.0, rs.Results()[0].E)
	assert.Equal(t, 1.5, rs.Results()[0].HeavyAtoms[0][0][0])
	// Beyond 2 A: a distinct pose.
	rs.Push(pose(-1, 5))
	assert.Equal(t, 2, rs.Len())
}

func TestResultSetCapacity(t *testing.T) {
	rs := NewResultSet(3, 1)
	for i := 0; i < 10; i++ {
		rs.Push(pose(float64(i), float64(10*i)))
	}
	require.Equal(t, 3, rs.Len())
	assert.Equal(t, 0.0, rs.Results()[0].E)
	assert.Equal(t, 2.0, rs.Results()[2].E)
	// A better late arrival still makes it in.
	rs.Push(pose(-1, 500))
	assert.Equal(t, -1.0, rs.Results()[0].E)
	assert.Equal(t, 3, rs.Len())
}

func TestResultSetMergeKeepsInvariants(t *testing.T) {
	a := NewResultSet(4, 1)
	b := NewResultSet(4, 1)
	for i := 0; i < 6; i++ {
		a.Push(pose(float64(-i), float64(5*i)))
		b.Push(pose(float64(-i)-0.5, float64(5*i)+1))
	}
	a.Merge(b)
	res := a.Results()
	require.LessOrEqual(t, len(res), 4)
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].E, res[i].E)
		for j := 0; j < i; j++ {
			assert.GreaterOrEqual(t, poseDistSqr(res[i], res[j]), rmsdRequired(1))
		}
	}
}

func rmsdRequired(numHeavy int) float64 {
	return RMSDThreshold * RMSDThreshold * float64(numHeavy)
}
