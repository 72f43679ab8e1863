/*
 * bfgs.go, part of idock.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// armijoC is the sufficient-decrease constant of the backtracking line
	// search.
	armijoC = 1e-4

	// maxLineSearchTrials bounds the step halvings per iteration.
	maxLineSearchTrials = 10

	// gradTolerance stops the optimization once the gradient norm falls
	// below it.
	gradTolerance = 1e-5
)

// BFGS runs a quasi-Newton local optimization from conf0 and returns the
// optimized conformation with its energy and inter-molecular energy. The
// inverse Hessian approximation is a dense (6+T)x(6+T) matrix; with
// typical T below 20 a limited-memory variant buys nothing. ok is false
// when even the starting point fails to evaluate below eUpper.
func BFGS(w *Workspace, sf *ScoringFunction, rec *Receptor, conf0 *Conformation, eUpper float64, maxIter int) (conf *Conformation, e, fInter float64, ok bool) {
	numTorsions := len(conf0.Torsions)
	n := 6 + numTorsions

	g := NewChange(numTorsions)
	g2 := NewChange(numTorsions)
	e, fInter, ok = w.Evaluate(conf0, sf, rec, eUpper, g)
	if !ok {
		return nil, 0, 0, false
	}
	conf = conf0

	gs := make([]float64, n)
	g2s := make([]float64, n)
	p := make([]float64, n)
	s := make([]float64, n)
	y := make([]float64, n)
	g.Flatten(gs)

	h := identityDense(n)
	pv := mat.NewVecDense(n, p)
	gv := mat.NewVecDense(n, gs)
	sv := mat.NewVecDense(n, s)
	yv := mat.NewVecDense(n, y)
	step := NewChange(numTorsions)

	for iter := 0; iter < maxIter; iter++ {
		if floats.Norm(gs, 2) < gradTolerance {
			break
		}

		// Search direction p = -H g.
		pv.MulVec(h, gv)
		floats.Scale(-1, p)
		pg := floats.Dot(p, gs)
		if pg >= 0 {
			// Accumulated curvature no longer yields descent; give up on
			// this basin.
			break
		}
		step.Unflatten(p)

		// Backtracking line search with the Armijo condition.
		alpha := 1.0
		var next *Conformation
		var e2, f2 float64
		accepted := false
		for trial := 0; trial < maxLineSearchTrials; trial++ {
			cand := conf.Apply(step, alpha)
			ce, cf, cok := w.Evaluate(cand, sf, rec, math.Inf(1), g2)
			if cok && ce < e+armijoC*alpha*pg {
				next, e2, f2 = cand, ce, cf
				accepted = true
				break
			}
			alpha *= 0.5
		}
		if !accepted {
			break
		}
		g2.Flatten(g2s)

		for i := 0; i < n; i++ {
			s[i] = alpha * p[i]
			y[i] = g2s[i] - gs[i]
		}
		sy := floats.Dot(s, y)
		if sy > 1e-10*floats.Norm(s, 2)*floats.Norm(y, 2) {
			// H <- (I - rho s y^T) H (I - rho y s^T) + rho s s^T
			rho := 1 / sy
			a := mat.NewDense(n, n, nil)
			a.Outer(-rho, sv, yv)
			for i := 0; i < n; i++ {
				a.Set(i, i, a.At(i, i)+1)
			}
			var tmp, hNew, ss mat.Dense
			tmp.Mul(a, h)
			hNew.Mul(&tmp, a.T())
			ss.Outer(rho, sv, sv)
			hNew.Add(&hNew, &ss)
			h.Copy(&hNew)
		}

		conf, e, fInter = next, e2, f2
		copy(gs, g2s)
	}
	return conf, e, fInter, true
}

func identityDense(n int) *mat.Dense {
	h := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, 1)
	}
	return h
}
