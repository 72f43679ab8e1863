/*
 * result.go, part of idock.
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
	"sort"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

// RMSDThreshold is the heavy-atom RMSD in Angstrom below which two poses
// count as the same conformation.
const RMSDThreshold = 2.0

// Result is one locally optimized pose: its energy, the inter-molecular
// part of it, and the world coordinates of every atom grouped by frame.
type Result struct {
	E          float64
	FInter     float64
	HeavyAtoms [][]v3.Vec
	Hydrogens  [][]v3.Vec
}

// Compose expands conf into a Result with world coordinates for heavy
// atoms and hydrogens alike.
func (lig *Ligand) Compose(conf *Conformation, e, fInter float64) *Result {
	r := &Result{
		E:          e,
		FInter:     fInter,
		HeavyAtoms: make([][]v3.Vec, lig.NumFrames),
		Hydrogens:  make([][]v3.Vec, lig.NumFrames),
	}
	orientQ := make([]v3.Quat, lig.NumFrames)
	orientM := make([]v3.Mat, lig.NumFrames)

	root := lig.Frames[0]
	r.HeavyAtoms[0] = make([]v3.Vec, len(root.HeavyAtoms))
	r.Hydrogens[0] = make([]v3.Vec, len(root.Hydrogens))
	r.HeavyAtoms[0][0] = conf.Position
	orientQ[0] = conf.Orientation
	orientM[0] = conf.Orientation.RotMatrix()
	for i := 1; i < len(root.HeavyAtoms); i++ {
		r.HeavyAtoms[0][i] = conf.Position.Add(orientM[0].MulVec(root.HeavyAtoms[i].Coord))
	}
	for i := range root.Hydrogens {
		r.Hydrogens[0][i] = conf.Position.Add(orientM[0].MulVec(root.Hydrogens[i].Coord))
	}

	for k, t := 1, 0; k < lig.NumFrames; k++ {
		f := lig.Frames[k]
		r.HeavyAtoms[k] = make([]v3.Vec, len(f.HeavyAtoms))
		r.Hydrogens[k] = make([]v3.Vec, len(f.Hydrogens))

		origin := r.HeavyAtoms[f.Parent][0].Add(orientM[f.Parent].MulVec(f.RelativeOrigin))
		r.HeavyAtoms[k][0] = origin

		if f.Active {
			axis := orientM[f.Parent].MulVec(f.RelativeAxis)
			orientQ[k] = v3.QuatFromAxisAngle(axis, conf.Torsions[t]).Mul(orientQ[f.Parent]).Renormalize(quatTolerance)
			t++
		} else {
			orientQ[k] = orientQ[f.Parent]
		}
		orientM[k] = orientQ[k].RotMatrix()

		for i := 1; i < len(f.HeavyAtoms); i++ {
			r.HeavyAtoms[k][i] = origin.Add(orientM[k].MulVec(f.HeavyAtoms[i].Coord))
		}
		for i := range f.Hydrogens {
			r.Hydrogens[k][i] = origin.Add(orientM[k].MulVec(f.Hydrogens[i].Coord))
		}
	}
	return r
}

// poseDistSqr is the summed square distance between the heavy atoms of two
// poses of the same ligand.
func poseDistSqr(a, b *Result) float64 {
	var sum float64
	for k := range a.HeavyAtoms {
		for i := range a.HeavyAtoms[k] {
			sum += v3.DistSqr(a.HeavyAtoms[k][i], b.HeavyAtoms[k][i])
		}
	}
	return sum
}

// ResultSet keeps the best distinct poses found so far, sorted ascending
// by energy and pruned so that no two retained poses are within
// RMSDThreshold of each other.
type ResultSet struct {
	results     []*Result
	capacity    int
	requiredSqr float64 // summed square distance equivalent of the RMSD threshold
}

// NewResultSet returns an empty set retaining at most capacity poses of a
// ligand with numHeavyAtoms heavy atoms.
func NewResultSet(capacity, numHeavyAtoms int) *ResultSet {
	return &ResultSet{
		capacity:    capacity,
		requiredSqr: RMSDThreshold * RMSDThreshold * float64(numHeavyAtoms),
	}
}

// Push clusters r into the set: a near-duplicate replaces its twin only if
// it is better; a distinct pose is inserted in order, dropping the worst
// beyond capacity.
func (rs *ResultSet) Push(r *Result) {
	for i, o := range rs.results {
		if poseDistSqr(r, o) < rs.requiredSqr {
			if r.E < o.E {
				rs.results[i] = r
				sort.SliceStable(rs.results, func(a, b int) bool {
					return rs.results[a].E < rs.results[b].E
				})
			}
			return
		}
	}
	pos := sort.Search(len(rs.results), func(i int) bool {
		return rs.results[i].E > r.E
	})
	rs.results = append(rs.results, nil)
	copy(rs.results[pos+1:], rs.results[pos:])
	rs.results[pos] = r
	if len(rs.results) > rs.capacity {
		rs.results = rs.results[:rs.capacity]
	}
}

// Merge pushes every pose of other into rs.
func (rs *ResultSet) Merge(other *ResultSet) {
	for _, r := range other.results {
		rs.Push(r)
	}
}

// Results returns the retained poses, best first.
func (rs *ResultSet) Results() []*Result {
	return rs.results
}

// Len returns the number of retained poses.
func (rs *ResultSet) Len() int {
	return len(rs.results)
}
