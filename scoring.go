/*
 * scoring.go, part of idock.
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

import "math"

const (
	// Cutoff is the interaction cutoff of the scoring function in Angstrom.
	Cutoff    = 8.0
	CutoffSqr = Cutoff * Cutoff

	// scoringSamples is the number of r^2 bins per type pair.
	scoringSamples = 1024

	// scoringFactor maps r^2 to a bin index: bin = floor(r^2 * scoringFactor).
	scoringFactor = (scoringSamples - 1) / CutoffSqr

	numTypePairs = NumXSTypes * (NumXSTypes + 1) / 2
)

// Term weights of the empirical scoring function: Gauss1, Gauss2,
// Repulsion, Hydrophobic, Hydrogen bond.
var scoringWeights = [5]float64{-0.035579, -0.005156, 0.840245, -0.035069, -0.587439}

// triangularIndex maps an ordered XS type pair (t1 <= t2) to its slot in
// the flattened triangular pair table.
func triangularIndex(t1, t2 XSType) int {
	return int(t1) + int(t2)*(int(t2)+1)/2
}

// permissiveIndex is triangularIndex for a pair in either order.
func permissiveIndex(t1, t2 XSType) int {
	if t1 <= t2 {
		return triangularIndex(t1, t2)
	}
	return triangularIndex(t2, t1)
}

// ScoringFunction holds the precomputed pair potential. For every unordered
// XS type pair there are scoringSamples values of energy e and of
// d = (de/dr)/r, indexed by floor(r^2 * scoringFactor). Built once before
// docking, read-only afterwards.
type ScoringFunction struct {
	e []float64
	d []float64
}

// score evaluates the closed-form potential for types t1, t2 at distance r.
func score(t1, t2 XSType, r float64) float64 {
	d := r - (xsRadii[t1] + xsRadii[t2])

	g1 := d * 2 // d / 0.5
	gauss1 := math.Exp(-g1 * g1)

	g2 := (d - 3) * 0.5 // (d - 3) / 2
	gauss2 := math.Exp(-g2 * g2)

	repulsion := 0.0
	if d < 0 {
		repulsion = d * d
	}

	hydrophobic := 0.0
	if xsIsHydrophobic(t1) && xsIsHydrophobic(t2) {
		switch {
		case d <= 0.5:
			hydrophobic = 1
		case d < 1.5:
			hydrophobic = 1.5 - d
		}
	}

	hbond := 0.0
	if xsIsHBond(t1, t2) {
		switch {
		case d <= -0.7:
			hbond = 1
		case d < 0:
			hbond = d * (-1 / 0.7)
		}
	}

	return scoringWeights[0]*gauss1 +
		scoringWeights[1]*gauss2 +
		scoringWeights[2]*repulsion +
		scoringWeights[3]*hydrophobic +
		scoringWeights[4]*hbond
}

// NewScoringFunction precomputes the pair potential table, fanning the
// independent type pairs out over the pool.
func NewScoringFunction(pool *Pool) *ScoringFunction {
	sf := &ScoringFunction{
		e: make([]float64, numTypePairs*scoringSamples),
		d: make([]float64, numTypePairs*scoringSamples),
	}
	var cnt Counter
	cnt.Init(numTypePairs)
	for t2 := XSType(0); t2 < NumXSTypes; t2++ {
		for t1 := XSType(0); t1 <= t2; t1++ {
			t1, t2 := t1, t2
			pool.Post(func() {
				sf.precalculate(t1, t2)
				cnt.Increment()
			})
		}
	}
	cnt.Wait()
	return sf
}

// precalculate fills the e and d arrays for one ordered type pair. The
// derivative array stores (de/dr)/r by forward difference, so the gradient
// with respect to the interatomic vector is d * dr.
func (sf *ScoringFunction) precalculate(t1, t2 XSType) {
	o := triangularIndex(t1, t2) * scoringSamples
	rs := make([]float64, scoringSamples)
	for i := 0; i < scoringSamples; i++ {
		rs[i] = math.Sqrt(float64(i) / scoringFactor)
		sf.e[o+i] = score(t1, t2, rs[i])
	}
	for i := 1; i < scoringSamples-1; i++ {
		sf.d[o+i] = (sf.e[o+i+1] - sf.e[o+i]) / ((rs[i+1] - rs[i]) * rs[i])
	}
}

// offset returns the base index into e and d for the (unordered) type pair.
func (sf *ScoringFunction) offset(t1, t2 XSType) int {
	return permissiveIndex(t1, t2) * scoringSamples
}

// Evaluate looks up energy and (de/dr)/r for a type pair at square
// distance r2, which must be below CutoffSqr. A direct array lookup; the
// bins are narrow enough that interpolation would be lost in the noise of
// the much coarser grid maps.
func (sf *ScoringFunction) Evaluate(pairOffset int, r2 float64) (e, dor float64) {
	i := pairOffset + int(r2*scoringFactor)
	return sf.e[i], sf.d[i]
}
