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

import (
	"sort"
)

// UnitCellCoord identifies a supercell site by its sublattice index b
// (which prim site it descends from) and the integer unit-cell it sits in.
type UnitCellCoord struct {
	Sublattice int
	Cell       [3]int
}

// UnitCellCoordConverter is a bijection between a linear supercell site
// index and its (sublattice, cell) coordinate, the collaborator contract
// spec.md §6 names "UnitCellCoord index converter". It is built once from
// the combined integer supercell transform T*N and the prim's sublattice
// count, and is immutable thereafter.
type UnitCellCoordConverter struct {
	nSublat int
	cells   [][3]int // one representative integer cell per coset of Z^3/TN(Z^3)
}

// NewUnitCellCoordConverter builds the converter for a supercell transform
// tn (already T*N) and nSublat prim sublattices.
func NewUnitCellCoordConverter(tn IMat3, nSublat int, tol float64) UnitCellCoordConverter {
	return UnitCellCoordConverter{nSublat: nSublat, cells: enumerateCosets(tn, tol)}
}

// NSupercellSite returns nSublat * det(T*N), the total number of supercell
// sites.
func (c UnitCellCoordConverter) NSupercellSite() int {
	return c.nSublat * len(c.cells)
}

// NCells returns the number of unit cells in the supercell.
func (c UnitCellCoordConverter) NCells() int {
	return len(c.cells)
}

// LinearIndex maps a (sublattice, cell) coordinate to its linear site
// index. Sites are ordered cell-major: index = cellIndex*nSublat + b.
func (c UnitCellCoordConverter) LinearIndex(ucc UnitCellCoord) int {
	for i, cell := range c.cells {
		if cell == ucc.Cell {
			return i*c.nSublat + ucc.Sublattice
		}
	}
	panic("xtal: cell not found in supercell coset representatives")
}

// UnitCellCoordOf maps a linear site index back to its (sublattice, cell)
// coordinate.
func (c UnitCellCoordConverter) UnitCellCoordOf(linear int) UnitCellCoord {
	cellIdx := linear / c.nSublat
	b := linear % c.nSublat
	return UnitCellCoord{Sublattice: b, Cell: c.cells[cellIdx]}
}

// enumerateCosets returns one integer-triple representative per coset of
// Z^3 modulo the sublattice generated by the columns of t, i.e. det(t)
// representatives covering every unit cell inside the superlattice. A
// candidate cell c is a valid representative iff every component of
// t^-1 * c lies in [0,1), to tolerance tol.
func enumerateCosets(t IMat3, tol float64) [][3]int {
	det := t.Det()
	if det <= 0 {
		return nil
	}
	inv, err := t.Float().Inverse()
	if err != nil {
		return nil
	}

	// A bounding box guaranteed to contain at least one representative of
	// every coset: the sum of absolute values of each row of T bounds how
	// far a representative's fractional reduction can reach.
	bound := 0
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			if a := absInt(t[c][r]); a > bound {
				bound = a
			}
		}
	}
	bound = bound*3 + 1

	seen := make(map[[3]int]bool)
	var out [][3]int
	for i := -bound; i <= bound; i++ {
		for j := -bound; j <= bound; j++ {
			for k := -bound; k <= bound; k++ {
				c := [3]float64{float64(i), float64(j), float64(k)}
				f := inv.MulVec(c)
				if inFracCell(f, tol) {
					key := [3]int{i, j, k}
					if !seen[key] {
						seen[key] = true
						out = append(out, key)
					}
				}
			}
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a][0] != out[b][0] {
			return out[a][0] < out[b][0]
		}
		if out[a][1] != out[b][1] {
			return out[a][1] < out[b][1]
		}
		return out[a][2] < out[b][2]
	})
	if len(out) > det {
		out = out[:det]
	}
	return out
}

func inFracCell(f [3]float64, tol float64) bool {
	for _, v := range f {
		if v < -tol || v > 1-tol {
			return false
		}
	}
	return true
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
