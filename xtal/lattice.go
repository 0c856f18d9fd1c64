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

// Package xtal provides the crystallography primitives the mapping engine
// treats as an external collaborator: lattices, factor groups, basic
// structures and unit-cell-coordinate conversion. It is intentionally thin —
// just enough for the search components (A-H) to compile and be tested
// against real geometry, not a general-purpose crystallography toolkit.
package xtal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat3 is a real 3x3 matrix stored column-major to match the convention in
// spec.md: columns are basis vectors, Mat3{col0, col1, col2}.
type Mat3 [3][3]float64

// IMat3 is an integer 3x3 matrix, used for HNF transforms T and unimodular
// reorientations N.
type IMat3 [3][3]int

// Dense returns m as a gonum column-major 3x3 matrix, for use with mat's
// linear algebra routines (inverse, determinant, eigendecomposition).
func (m Mat3) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			d.Set(row, col, m[col][row])
		}
	}
	return d
}

// FromDense converts a gonum 3x3 matrix back to a Mat3.
func FromDense(d mat.Matrix) Mat3 {
	var m Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col][row] = d.At(row, col)
		}
	}
	return m
}

// Mul returns the matrix product m*other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var out mat.Dense
	out.Mul(m.Dense(), other.Dense())
	return FromDense(&out)
}

// MulIMat3 returns the matrix product m*T where T is an integer matrix.
func (m Mat3) MulIMat3(t IMat3) Mat3 {
	return m.Mul(t.Float())
}

// Float converts an integer matrix to its real-valued counterpart.
func (t IMat3) Float() Mat3 {
	var m Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m[c][r] = float64(t[c][r])
		}
	}
	return m
}

// Det returns the determinant of an integer 3x3 matrix via cofactor expansion.
func (t IMat3) Det() int {
	return t[0][0]*(t[1][1]*t[2][2]-t[1][2]*t[2][1]) -
		t[1][0]*(t[0][1]*t[2][2]-t[0][2]*t[2][1]) +
		t[2][0]*(t[0][1]*t[1][2]-t[0][2]*t[1][1])
}

// Mul returns the integer matrix product a*b.
func (t IMat3) Mul(other IMat3) IMat3 {
	var out IMat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			sum := 0
			for k := 0; k < 3; k++ {
				sum += t[k][r] * other[c][k]
			}
			out[c][r] = sum
		}
	}
	return out
}

// Inverse returns the matrix inverse of m, using gonum's LU-based solver.
func (m Mat3) Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.Dense()); err != nil {
		return Mat3{}, fmt.Errorf("lattice matrix is singular: %w", err)
	}
	return FromDense(&inv), nil
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	return mat.Det(m.Dense())
}

// Col returns column i (i in [0,3)) as a Cartesian vector.
func (m Mat3) Col(i int) [3]float64 {
	return [3]float64{m[i][0], m[i][1], m[i][2]}
}

// Lattice is a 3x3 column matrix of real-space basis vectors plus a length
// tolerance, matching spec.md §3.
type Lattice struct {
	L   Mat3
	Tol float64
}

// NewLattice validates tol and constructs a Lattice.
func NewLattice(l Mat3, tol float64) (Lattice, error) {
	if tol <= 0 {
		return Lattice{}, fmt.Errorf("lattice tolerance must be positive, got %g", tol)
	}
	if math.Abs(l.Det()) < 1e-12 {
		return Lattice{}, fmt.Errorf("lattice basis is singular")
	}
	return Lattice{L: l, Tol: tol}, nil
}

// Inverse returns the lattice's inverse matrix (fractional <- Cartesian).
func (lat Lattice) Inverse() Mat3 {
	inv, err := lat.L.Inverse()
	if err != nil {
		// Constructed lattices are checked non-singular at NewLattice time.
		panic(err)
	}
	return inv
}

// CartToFrac converts a Cartesian vector to fractional coordinates.
func (lat Lattice) CartToFrac(v [3]float64) [3]float64 {
	inv := lat.Inverse()
	return inv.MulVec(v)
}

// FracToCart converts fractional coordinates to a Cartesian vector.
func (lat Lattice) FracToCart(f [3]float64) [3]float64 {
	return lat.L.MulVec(f)
}

// MulVec returns m*v.
func (m Mat3) MulVec(v [3]float64) [3]float64 {
	var out [3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r] += m[c][r] * v[c]
		}
	}
	return out
}

// Superlattice returns the lattice L*T for an integer transform T with
// positive determinant, per spec.md §4.D.
func (lat Lattice) Superlattice(t IMat3) (Lattice, error) {
	if t.Det() <= 0 {
		return Lattice{}, fmt.Errorf("superlattice transform must have positive determinant, got %d", t.Det())
	}
	return NewLattice(lat.L.MulIMat3(t), lat.Tol)
}

// InnerVoronoiRadius returns the radius of the largest sphere inscribed in
// the lattice's Wigner-Seitz (Voronoi) cell: half the shortest lattice
// vector length over all equivalent bases is a conservative proxy; here we
// use half the minimum distance among the 26 nearest lattice points, which
// is exact for the inscribed-sphere radius of the Voronoi cell.
func (lat Lattice) InnerVoronoiRadius() float64 {
	minDist := math.Inf(1)
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				v := lat.L.MulVec([3]float64{float64(i), float64(j), float64(k)})
				d := norm(v)
				if d < minDist {
					minDist = d
				}
			}
		}
	}
	return minDist / 2
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// MaxVoronoiMeasure reports how far outside the Voronoi cell a Cartesian
// vector v lies: measure <= 1 means v is within the Wigner-Seitz cell. When
// measure > 1, translation is the Cartesian lattice vector, among those
// with basis coefficients in [-2, 2], that gives v its largest measure,
// signed to point along v so that subtracting it shortens v, for use by
// robust minimum-image reduction (spec.md §4.E).
func (lat Lattice) MaxVoronoiMeasure(v [3]float64) (measure float64, translation [3]float64) {
	best := 0.0
	var bestT [3]float64
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			for k := -2; k <= 2; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				g := lat.L.MulVec([3]float64{float64(i), float64(j), float64(k)})
				gLen := norm(g)
				proj := (v[0]*g[0] + v[1]*g[1] + v[2]*g[2]) / gLen
				m := math.Abs(proj) / (gLen / 2)
				if m > best {
					best = m
					bestT = g
					if proj < 0 {
						bestT = [3]float64{-g[0], -g[1], -g[2]}
					}
				}
			}
		}
	}
	return best, bestT
}
