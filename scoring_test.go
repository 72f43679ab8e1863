/*
 * scoring_test.go, part of idock.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, n int) *Pool {
	t.Helper()
	p := NewPool(n)
	t.Cleanup(p.Close)
	return p
}

func TestTriangularIndex(t *testing.T) {
	// Every ordered pair gets a distinct slot and both orders agree.
	seen := map[int]bool{}
	for t2 := XSType(0); t2 < NumXSTypes; t2++ {
		for t1 := XSType(0); t1 <= t2; t1++ {
			i := triangularIndex(t1, t2)
			require.False(t, seen[i])
			seen[i] = true
			require.Equal(t, i, permissiveIndex(t2, t1))
		}
	}
	require.Len(t, seen, numTypePairs)
}

func TestScoringTableMatchesClosedForm(t *testing.T) {
	sf := NewScoringFunction(newTestPool(t, 4))
	// A lookup at the exact sample distance must reproduce the closed
	// form: bin i covers r^2 = i/scoringFactor.
	pairs := [][2]XSType{{xsCH, xsCH}, {xsOA, xsND}, {xsCH, xsOA}, {xsFH, xsIH}}
	for _, p := range pairs {
		off := sf.offset(p[0], p[1])
		for _, i := range []int{1, 7, 100, 511, 1022} {
			r2 := float64(i) / scoringFactor
			e, _ := sf.Evaluate(off, r2)
			assert.InDelta(t, score(p[0], p[1], math.Sqrt(r2)), e, 1e-6)
		}
	}
}

func TestScoringDerivativeSign(t *testing.T) {
	sf := NewScoringFunction(newTestPool(t, 2))
	off := sf.offset(xsCH, xsCH)
	// Well inside the repulsive wall the energy falls with distance, so
	// (de/dr)/r is negative.
	_, dor := sf.Evaluate(off, 1.0)
	assert.Negative(t, dor)
	// Far out on the attractive tail the energy rises back towards zero.
	rMin := 2 * xsRadii[xsCH] // surface distance zero
	_, dor = sf.Evaluate(off, (rMin+1.2)*(rMin+1.2))
	assert.Positive(t, dor)
}

func TestScoringCutoffBoundary(t *testing.T) {
	// The evaluator only consults the table below CutoffSqr; this pins the
	// closed form down to (almost) zero at the cutoff itself.
	assert.InDelta(t, 0, score(xsCH, xsCH, Cutoff), 5e-3)
	// And the hydrophobic/hbond gates: contact distance of two C_H is 3.8,
	// so at r = 4.2 the surface distance is 0.4 and the term is full on.
	d := 4.2 - 2*xsRadii[xsCH]
	require.Less(t, d, 0.5)
	base := score(xsCP, xsCP, 4.2) // same radii, no hydrophobic term
	hydro := score(xsCH, xsCH, 4.2)
	assert.InDelta(t, scoringWeights[3], hydro-base, 1e-9)
}

func TestScoringHBondTerm(t *testing.T) {
	// At surface distance -0.7 the hydrogen bond term saturates at 1.
	r := xsRadii[xsOA] + xsRadii[xsND] - 0.7
	withHB := score(xsOA, xsND, r)
	withoutHB := score(xsOA, xsNP, r) // same radii, no donor-acceptor pairing
	assert.InDelta(t, scoringWeights[4], withHB-withoutHB, 1e-9)
}
