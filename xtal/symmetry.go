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

package xtal

import "math"

// SymOp is a space-group operation modulo lattice translations: a point
// matrix acting on Cartesian vectors plus a Cartesian translation.
type SymOp struct {
	Point Mat3
	Trans [3]float64
}

// Identity is the trivial symmetry operation.
var Identity = SymOp{Point: Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

// Apply applies the operation to a Cartesian coordinate v.
func (op SymOp) Apply(v [3]float64) [3]float64 {
	pv := op.Point.MulVec(v)
	return [3]float64{pv[0] + op.Trans[0], pv[1] + op.Trans[1], pv[2] + op.Trans[2]}
}

// ApplyLattice returns the lattice obtained by acting on lat's basis with
// the operation's point part only (pure translations do not act on a
// lattice's basis vectors).
func (op SymOp) ApplyLattice(lat Lattice) Lattice {
	out, _ := NewLattice(op.Point.Mul(lat.L), lat.Tol)
	return out
}

// IsPureTranslation reports whether op's point part is the identity, i.e.
// op belongs to the internal-translations subgroup (spec.md §6).
func (op SymOp) IsPureTranslation(tol float64) bool {
	id := Identity.Point
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			if math.Abs(op.Point[c][r]-id[c][r]) > tol {
				return false
			}
		}
	}
	return true
}

// FactorGroup is an ordered sequence of symmetry operations (space-group
// operations modulo lattice translations), matching spec.md §6.
type FactorGroup struct {
	Ops []SymOp
}

// IdentityGroup returns a factor group containing only the identity
// operation, the default for StructureSearchData per spec.md §3.
func IdentityGroup() FactorGroup {
	return FactorGroup{Ops: []SymOp{Identity}}
}

// InternalTranslations returns the subgroup of fg's operations whose point
// part is the identity: the pure translations that fix the prim
// (spec.md §4.E, §6).
func (fg FactorGroup) InternalTranslations(tol float64) []SymOp {
	var out []SymOp
	for _, op := range fg.Ops {
		if op.IsPureTranslation(tol) {
			out = append(out, op)
		}
	}
	if len(out) == 0 {
		out = append(out, Identity)
	}
	return out
}
