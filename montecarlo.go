/*
 * montecarlo.go, part of idock.
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
	"math/rand"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

const (
	// metropolisBeta is the inverse temperature of the acceptance test.
	metropolisBeta = 1.2

	// mutationsPerHeavyAtom scales the number of mutation rounds per task
	// with ligand size.
	mutationsPerHeavyAtom = 25

	// maxInitialAttempts bounds the search for a feasible random starting
	// pose before the task gives up.
	maxInitialAttempts = 1000

	// maxPositionShift is the per-axis mutation amplitude in Angstrom.
	maxPositionShift = 1.0

	// maxRotation is the mutation rotation amplitude in radians (30 deg).
	maxRotation = math.Pi / 6
)

// MonteCarlo runs one independent randomized search task over lig and
// returns its ranked pose list. Everything a task touches is local to it,
// so tasks for the same ligand can run on any number of workers; a task is
// fully deterministic given its seed.
func MonteCarlo(lig *Ligand, rec *Receptor, sf *ScoringFunction, seed uint64, p SearchParams) *ResultSet {
	rng := rand.New(rand.NewSource(int64(seed)))
	w := NewWorkspace(lig)
	w.ClashCheck = p.ClashCheck
	rs := NewResultSet(p.MaxConformations, lig.NumHeavyAtoms)
	g := NewChange(lig.NumActiveTorsions)
	eUpper := 40 * float64(lig.NumHeavyAtoms)

	// Find a feasible random starting pose.
	var cur *Conformation
	for attempt := 0; attempt < maxInitialAttempts; attempt++ {
		c := randomConformation(lig, rec.Box, rng)
		if _, _, ok := w.Evaluate(c, sf, rec, eUpper, g); ok {
			cur = c
			break
		}
	}
	if cur == nil {
		return rs
	}
	cur, eCur, fCur, ok := BFGS(w, sf, rec, cur, eUpper, p.NumGenerations)
	if !ok {
		return rs
	}
	rs.Push(lig.Compose(cur, eCur, fCur))

	numMutations := mutationsPerHeavyAtom * lig.NumHeavyAtoms
	for m := 0; m < numMutations; m++ {
		cand := mutate(cur, rng)
		opt, eOpt, fOpt, ok := BFGS(w, sf, rec, cand, eUpper, p.NumGenerations)
		if !ok {
			continue
		}
		rs.Push(lig.Compose(opt, eOpt, fOpt))
		if eOpt < eCur || rng.Float64() < math.Exp((eCur-eOpt)*metropolisBeta) {
			cur, eCur = opt, eOpt
		}
	}
	return rs
}

// randomConformation draws a pose uniformly: position in the box, a
// uniform random orientation, torsions in [-pi, pi).
func randomConformation(lig *Ligand, b *Box, rng *rand.Rand) *Conformation {
	c := &Conformation{Torsions: make([]float64, lig.NumActiveTorsions)}
	for i := 0; i < 3; i++ {
		c.Position[i] = b.Corner1[i] + rng.Float64()*(b.Corner2[i]-b.Corner1[i])
	}
	c.Orientation = randomQuat(rng)
	for i := range c.Torsions {
		c.Torsions[i] = uniform(rng, -math.Pi, math.Pi)
	}
	return c
}

// mutate perturbs the position by up to 1 A per axis, the orientation by
// up to 30 degrees about a random axis, and resets one random torsion.
func mutate(c *Conformation, rng *rand.Rand) *Conformation {
	n := c.Clone()
	for i := 0; i < 3; i++ {
		n.Position[i] += uniform(rng, -maxPositionShift, maxPositionShift)
	}
	rot := v3.QuatFromAxisAngle(randomUnitVec(rng), rng.Float64()*maxRotation)
	n.Orientation = rot.Mul(n.Orientation).Renormalize(quatTolerance)
	if len(n.Torsions) > 0 {
		n.Torsions[rng.Intn(len(n.Torsions))] = uniform(rng, -math.Pi, math.Pi)
	}
	return n
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func randomUnitVec(rng *rand.Rand) v3.Vec {
	for {
		v := v3.Vec{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if n := v.Norm(); n > 1e-3 {
			return v.Scale(1 / n)
		}
	}
}

// randomQuat draws a uniformly distributed unit quaternion.
func randomQuat(rng *rand.Rand) v3.Quat {
	for {
		q := v3.Quat{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if n := q.Norm(); n > 1e-3 {
			inv := 1 / n
			return v3.Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
		}
	}
}
