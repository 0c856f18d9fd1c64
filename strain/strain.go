//
// Copyright (c) 2025 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package strain computes the symmetric-stretch strain cost between a
// prim superlattice and a child lattice, spec.md §4.C. Two conventions are
// supported as named CostFunc values: Isotropic and SymmetryBreaking.
package strain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// CostFunc scores the deformation gradient F that maps an ideal prim
// superlattice onto a child lattice (F*L_ideal = L_child). Both conventions
// spec.md §4.C names are non-negative. Isotropic is zero iff F's symmetric
// stretch U equals the identity; SymmetryBreaking is also zero for any
// strain the prim's point group leaves invariant, such as a uniform
// dilation.
type CostFunc func(f xtal.Mat3, primFactorGroup xtal.FactorGroup) (float64, error)

// Biot returns the right-stretch (Biot) strain U-I, where U = sqrt(F^T F),
// computed via the eigendecomposition of the symmetric matrix F^T F: its
// eigenvalues are non-negative (F^T F is positive semi-definite), so their
// square roots give U's eigenvalues in the same eigenbasis.
func Biot(f xtal.Mat3) (xtal.Mat3, error) {
	fd := f.Dense()
	var ftf mat.Dense
	ftf.Mul(fd.T(), fd)

	n := 3
	symData := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Average off-diagonal pairs to guard against asymmetry from
			// floating point round-off; F^T F is symmetric analytically.
			v := (ftf.At(i, j) + ftf.At(j, i)) / 2
			symData[i*n+j] = v
		}
	}
	sym := mat.NewSymDense(n, symData)

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return xtal.Mat3{}, fmt.Errorf("strain: eigendecomposition of F^T F failed to converge")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	var sqrtLambda mat.Dense
	sqrtLambda.ReuseAs(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sqrtLambda.Set(i, j, 0)
		}
		lambda := values[i]
		if lambda < 0 {
			lambda = 0
		}
		sqrtLambda.Set(i, i, math.Sqrt(lambda))
	}

	var tmp, u mat.Dense
	tmp.Mul(&vectors, &sqrtLambda)
	u.Mul(&tmp, vectors.T())

	biot := xtal.FromDense(&u)
	biot[0][0] -= 1
	biot[1][1] -= 1
	biot[2][2] -= 1
	return biot, nil
}

// frobeniusSquared returns the sum of squares of all entries of m.
func frobeniusSquared(m xtal.Mat3) float64 {
	sum := 0.0
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			sum += m[c][r] * m[c][r]
		}
	}
	return sum
}

// Isotropic is the isotropic strain cost: the Frobenius norm squared of the
// Biot strain U-I, divided by 3, i.e. (1/3)*trace((U-I)^2).
func Isotropic(f xtal.Mat3, _ xtal.FactorGroup) (float64, error) {
	biot, err := Biot(f)
	if err != nil {
		return 0, err
	}
	return frobeniusSquared(biot) / 3, nil
}

// SymmetryBreaking projects the Biot strain onto the subspace that breaks
// the prim's point symmetry before norming: the group-averaged strain
//
//	Ē = (1/|G|) * sum_{g in primFactorGroup} g^T * E * g
//
// is, by construction, invariant under every operation in the group (the
// symmetric-irreducible, i.e. fully-symmetric, component of E); the
// breaking part is E - Ē. This cost is the Frobenius norm squared of that
// breaking part, divided by 3, matching Isotropic's normalization.
func SymmetryBreaking(f xtal.Mat3, primFactorGroup xtal.FactorGroup) (float64, error) {
	biot, err := Biot(f)
	if err != nil {
		return 0, err
	}
	if len(primFactorGroup.Ops) == 0 {
		return frobeniusSquared(biot) / 3, nil
	}

	ed := biot.Dense()
	var avg mat.Dense
	avg.ReuseAs(3, 3)
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			avg.Set(r, c, 0)
		}
	}
	for _, op := range primFactorGroup.Ops {
		g := op.Point.Dense()
		var tmp, conj mat.Dense
		tmp.Mul(g.T(), ed)
		conj.Mul(&tmp, g)
		avg.Add(&avg, &conj)
	}
	avg.Scale(1/float64(len(primFactorGroup.Ops)), &avg)

	invariant := xtal.FromDense(&avg)
	var breaking xtal.Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			breaking[c][r] = biot[c][r] - invariant[c][r]
		}
	}
	return frobeniusSquared(breaking) / 3, nil
}
