/*
 * evaluate.go, part of idock.
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

// frameBuffer holds the mutable per-evaluation state of one frame. The
// parallel flat slices are what the evaluator streams over; keep them flat.
type frameBuffer struct {
	coords   []v3.Vec
	derivs   []v3.Vec
	energies []float64

	orientQ v3.Quat
	orientM v3.Mat
	axis    v3.Vec
	force   v3.Vec
	torque  v3.Vec
}

// Workspace is the task-local scratch space for evaluating one ligand.
// Every Monte Carlo task owns its own Workspace; the Ligand itself stays
// immutable during search.
type Workspace struct {
	lig    *Ligand
	frames []frameBuffer

	// ClashCheck enables the steric clash rejection between heavy atoms of
	// different frames (except the rotor pair). Off by default: the
	// repulsion term already penalizes overlap, and the check is costly.
	ClashCheck bool
}

// NewWorkspace allocates the evaluation buffers for lig.
func NewWorkspace(lig *Ligand) *Workspace {
	w := &Workspace{lig: lig, frames: make([]frameBuffer, lig.NumFrames)}
	for k, f := range lig.Frames {
		n := len(f.HeavyAtoms)
		w.frames[k] = frameBuffer{
			coords:   make([]v3.Vec, n),
			derivs:   make([]v3.Vec, n),
			energies: make([]float64, n),
		}
	}
	return w
}

// Evaluate expands conf into Cartesian coordinates, scores it against the
// grid maps and the intra-ligand pair potential, and assembles the energy
// gradient into g. It returns ok == false when any atom leaves the box,
// the energy reaches eUpper, or the numbers go degenerate; in that case
// e, fInter and g are meaningless.
func (w *Workspace) Evaluate(conf *Conformation, sf *ScoringFunction, rec *Receptor, eUpper float64, g *Change) (e, fInter float64, ok bool) {
	lig := w.lig
	b := rec.Box
	if !b.Within(conf.Position) {
		return 0, 0, false
	}

	// Place the ROOT frame.
	root := &w.frames[0]
	root.coords[0] = conf.Position
	root.orientQ = conf.Orientation
	root.orientM = conf.Orientation.RotMatrix()
	for i := 1; i < len(lig.Frames[0].HeavyAtoms); i++ {
		root.coords[i] = conf.Position.Add(root.orientM.MulVec(lig.Frames[0].HeavyAtoms[i].Coord))
		if !b.Within(root.coords[i]) {
			return 0, 0, false
		}
	}

	// Walk BRANCH frames in order; each parent is already placed.
	for k, t := 1, 0; k < lig.NumFrames; k++ {
		f := lig.Frames[k]
		fb := &w.frames[k]
		pb := &w.frames[f.Parent]

		fb.coords[0] = pb.coords[0].Add(pb.orientM.MulVec(f.RelativeOrigin))
		if !b.Within(fb.coords[0]) {
			return 0, 0, false
		}

		if f.Active {
			fb.axis = pb.orientM.MulVec(f.RelativeAxis)
			fb.orientQ = v3.QuatFromAxisAngle(fb.axis, conf.Torsions[t]).Mul(pb.orientQ).Renormalize(quatTolerance)
			t++
		} else {
			fb.orientQ = pb.orientQ
		}
		fb.orientM = fb.orientQ.RotMatrix()

		origin := fb.coords[0]
		for i := 1; i < len(f.HeavyAtoms); i++ {
			fb.coords[i] = origin.Add(fb.orientM.MulVec(f.HeavyAtoms[i].Coord))
			if !b.Within(fb.coords[i]) {
				return 0, 0, false
			}
		}
	}

	if w.ClashCheck && w.clashes() {
		return 0, 0, false
	}

	// Per-atom receptor energy from the grid maps, with a forward
	// difference gradient over the cell corners.
	e = 0
	for k := range lig.Frames {
		f := lig.Frames[k]
		fb := &w.frames[k]
		for i := range f.HeavyAtoms {
			m := rec.Map(f.HeavyAtoms[i].XS)
			idx := b.GridIndex(fb.coords[i])
			x0, y0, z0 := idx[0], idx[1], idx[2]
			e000 := m[b.MapIndex(x0, y0, z0)]
			e100 := m[b.MapIndex(x0+1, y0, z0)]
			e010 := m[b.MapIndex(x0, y0+1, z0)]
			e001 := m[b.MapIndex(x0, y0, z0+1)]
			fb.energies[i] = e000
			fb.derivs[i] = v3.Vec{
				(e100 - e000) * b.GranularityInv,
				(e010 - e000) * b.GranularityInv,
				(e001 - e000) * b.GranularityInv,
			}
			e += e000
		}
	}
	fInter = e

	// Intra-ligand non-bonded energy over the 1-4 pairs.
	for pi := range lig.pairs {
		p := &lig.pairs[pi]
		f1 := &w.frames[p.k1]
		f2 := &w.frames[p.k2]
		dr := f2.coords[p.i2].Sub(f1.coords[p.i1])
		r2 := dr.NormSqr()
		if r2 < CutoffSqr {
			ep, dor := sf.Evaluate(p.offset, r2)
			e += ep
			d := dr.Scale(dor)
			f1.derivs[p.i1] = f1.derivs[p.i1].Sub(d)
			f2.derivs[p.i2] = f2.derivs[p.i2].Add(d)
		}
	}

	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, 0, false
	}
	if e >= eUpper {
		return 0, 0, false
	}

	// Initialize frame force to the derivative of the origin atom; the
	// origin contributes no torque about itself.
	for k := range w.frames {
		fb := &w.frames[k]
		fb.force = fb.derivs[0]
		fb.torque = v3.Zero
	}

	// Aggregate force and torque bottom-up, projecting the torque of each
	// active frame onto its rotation axis.
	for k, t := lig.NumFrames-1, lig.NumActiveTorsions-1; k > 0; k-- {
		f := lig.Frames[k]
		fb := &w.frames[k]
		pb := &w.frames[f.Parent]
		origin := fb.coords[0]

		for i := 1; i < len(f.HeavyAtoms); i++ {
			fb.force = fb.force.Add(fb.derivs[i])
			fb.torque = fb.torque.Add(fb.coords[i].Sub(origin).Cross(fb.derivs[i]))
		}

		pb.force = pb.force.Add(fb.force)
		pb.torque = pb.torque.Add(fb.torque).Add(origin.Sub(pb.coords[0]).Cross(fb.force))

		if f.Active {
			g.Torsions[t] = fb.torque.Dot(fb.axis)
			t--
		}
	}

	rootOrigin := root.coords[0]
	for i := 1; i < len(lig.Frames[0].HeavyAtoms); i++ {
		root.force = root.force.Add(root.derivs[i])
		root.torque = root.torque.Add(root.coords[i].Sub(rootOrigin).Cross(root.derivs[i]))
	}
	g.Position = root.force
	g.Orientation = root.torque

	return e, fInter, true
}

// clashes reports a steric overlap between heavy atoms of different
// frames, skipping the rotor-X/rotor-Y bond itself.
func (w *Workspace) clashes() bool {
	lig := w.lig
	for k1 := lig.NumFrames - 1; k1 > 0; k1-- {
		f1 := lig.Frames[k1]
		b1 := &w.frames[k1]
		for i1 := range f1.HeavyAtoms {
			for k2 := 0; k2 < k1; k2++ {
				f2 := lig.Frames[k2]
				b2 := &w.frames[k2]
				for i2 := range f2.HeavyAtoms {
					if k2 == f1.Parent && i1 == 0 && i2 == f1.RotorXIdx {
						continue
					}
					s := f1.HeavyAtoms[i1].CovalentRadius() + f2.HeavyAtoms[i2].CovalentRadius()
					if v3.DistSqr(b1.coords[i1], b2.coords[i2]) < s*s {
						return true
					}
				}
			}
		}
	}
	return false
}
