/*
 * conformation.go, part of idock.
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

import v3 "github.com/annanguyen99/FixedRandom-idock/v3"

// quatTolerance is how far a quaternion may drift from unit norm before it
// gets renormalized.
const quatTolerance = 1e-6

// Conformation is a kinematic ligand state: ROOT position and orientation
// plus one angle per active torsion.
type Conformation struct {
	Position    v3.Vec
	Orientation v3.Quat
	Torsions    []float64
}

// Clone returns a deep copy of c.
func (c *Conformation) Clone() *Conformation {
	n := &Conformation{
		Position:    c.Position,
		Orientation: c.Orientation,
		Torsions:    make([]float64, len(c.Torsions)),
	}
	copy(n.Torsions, c.Torsions)
	return n
}

// Change is the tangent vector of a Conformation: a translation, a
// rotation vector, and one delta per active torsion. It doubles as the
// gradient layout of the evaluator, flattened as
// [position orientation torsions...] for the optimizer.
type Change struct {
	Position    v3.Vec
	Orientation v3.Vec
	Torsions    []float64
}

// NewChange returns a zero Change for numTorsions active torsions.
func NewChange(numTorsions int) *Change {
	return &Change{Torsions: make([]float64, numTorsions)}
}

// Dim returns the dimension of the tangent space, 6 + active torsions.
func (g *Change) Dim() int {
	return 6 + len(g.Torsions)
}

// Flatten copies g into dst, which must have length Dim().
func (g *Change) Flatten(dst []float64) {
	dst[0], dst[1], dst[2] = g.Position[0], g.Position[1], g.Position[2]
	dst[3], dst[4], dst[5] = g.Orientation[0], g.Orientation[1], g.Orientation[2]
	copy(dst[6:], g.Torsions)
}

// Unflatten fills g from src, which must have length Dim().
func (g *Change) Unflatten(src []float64) {
	g.Position = v3.Vec{src[0], src[1], src[2]}
	g.Orientation = v3.Vec{src[3], src[4], src[5]}
	copy(g.Torsions, src[6:])
}

// Apply returns c moved by alpha times the change g: the position is
// translated, the orientation is left-multiplied by the rotation vector's
// quaternion and renormalized, and each torsion is shifted.
func (c *Conformation) Apply(g *Change, alpha float64) *Conformation {
	n := &Conformation{
		Position:    c.Position.Add(g.Position.Scale(alpha)),
		Orientation: v3.QuatFromRotVec(g.Orientation.Scale(alpha)).Mul(c.Orientation).Renormalize(quatTolerance),
		Torsions:    make([]float64, len(c.Torsions)),
	}
	for i, t := range c.Torsions {
		n.Torsions[i] = t + alpha*g.Torsions[i]
	}
	return n
}
