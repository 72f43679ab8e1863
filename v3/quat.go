/*
 * quat.go, part of idock.
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

package v3

import "math"

//Quat is a rotation quaternion stored as (w, x, y, z).
type Quat [4]float64

//QuatIdentity is the identity rotation.
var QuatIdentity = Quat{1, 0, 0, 0}

//NormSqr returns the square norm of q.
func (q Quat) NormSqr() float64 {
	return q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
}

//Norm returns the norm of q.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.NormSqr())
}

//Mul returns the Hamilton product q*p, i.e. the rotation p followed by q.
func (q Quat) Mul(p Quat) Quat {
	return Quat{
		q[0]*p[0] - q[1]*p[1] - q[2]*p[2] - q[3]*p[3],
		q[0]*p[1] + q[1]*p[0] + q[2]*p[3] - q[3]*p[2],
		q[0]*p[2] - q[1]*p[3] + q[2]*p[0] + q[3]*p[1],
		q[0]*p[3] + q[1]*p[2] - q[2]*p[1] + q[3]*p[0],
	}
}

//Normalize returns the unit quaternion along q. Panics on a zero
//quaternion.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		panic(ErrZeroQuat)
	}
	inv := 1 / n
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

//Renormalize returns q normalized, skipping the square root when q is
//already unit within tol. The search loop calls this after every update.
func (q Quat) Renormalize(tol float64) Quat {
	if math.Abs(1-q.NormSqr()) <= tol {
		return q
	}
	return q.Normalize()
}

//IsNormalized reports whether q is unit within tol.
func (q Quat) IsNormalized(tol float64) bool {
	return math.Abs(1-q.NormSqr()) <= tol
}

//QuatFromAxisAngle builds the quaternion rotating by angle radians about
//the given axis, which must be a unit vector.
func QuatFromAxisAngle(axis Vec, angle float64) Quat {
	half := 0.5 * angle
	s := math.Sin(half)
	return Quat{math.Cos(half), s * axis[0], s * axis[1], s * axis[2]}
}

//QuatFromRotVec builds the quaternion for the rotation vector v, whose
//norm is the rotation angle and direction the axis. A near-zero v yields
//the identity.
func QuatFromRotVec(v Vec) Quat {
	angle := v.Norm()
	if angle < 1e-10 {
		return QuatIdentity
	}
	return QuatFromAxisAngle(v.Scale(1/angle), angle)
}

//RotMatrix converts a unit quaternion to its 3x3 rotation matrix.
func (q Quat) RotMatrix() Mat {
	w, x, y, z := q[0], q[1], q[2], q[3]
	ww, xx, yy, zz := w*w, x*x, y*y, z*z
	wx, wy, wz := w*x, w*y, w*z
	xy, xz, yz := x*y, x*z, y*z
	return Mat{
		ww + xx - yy - zz, 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), ww - xx + yy - zz, 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), ww - xx - yy + zz,
	}
}
