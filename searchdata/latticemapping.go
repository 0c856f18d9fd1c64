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

package searchdata

import (
	"fmt"
	"sort"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/latticemap"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// LatticeMappingSearchData is the immutable, derived record for one
// lattice mapping candidate: the combined supercell transform, supercell
// lattice, unit-cell coordinate converter, and the quantities derived from
// them, per spec.md §3. It references its PrimSearchData and
// StructureSearchData ancestors by shared pointer and never mutates them.
type LatticeMappingSearchData struct {
	Prim      *PrimSearchData
	Structure *StructureSearchData
	Mapping   latticemap.LatticeMapping

	TN                         xtal.IMat3
	SupercellLattice           xtal.Lattice
	Converter                  xtal.UnitCellCoordConverter
	AtomCoordinateCartInSuper  [][3]float64
	SupercellSiteCoordinateCart [][3]float64
	SupercellAllowedAtomTypes  [][]string
}

// NewLatticeMappingSearchData derives a LatticeMappingSearchData from a
// prim, a structure, and one candidate lattice mapping emitted by package
// latticemap.
func NewLatticeMappingSearchData(prim *PrimSearchData, structure *StructureSearchData, m latticemap.LatticeMapping) (*LatticeMappingSearchData, error) {
	tn := m.T.Mul(m.N)

	supercellLattice, err := prim.Lattice.Superlattice(tn)
	if err != nil {
		return nil, fmt.Errorf("searchdata: cannot build supercell lattice: %w", err)
	}

	converter := xtal.NewUnitCellCoordConverter(tn, prim.NSite, prim.Lattice.Tol)

	fInv, err := m.F.Inverse()
	if err != nil {
		return nil, fmt.Errorf("searchdata: deformation gradient F is singular: %w", err)
	}
	atomCoordsSuper := make([][3]float64, structure.NAtom)
	for i, c := range structure.AtomCoordinateCart {
		atomCoordsSuper[i] = fInv.MulVec(c)
	}

	nSupSite := converter.NSupercellSite()
	siteCoords := make([][3]float64, nSupSite)
	allowed := make([][]string, nSupSite)
	for l := 0; l < nSupSite; l++ {
		ucc := converter.UnitCellCoordOf(l)
		cellOrigin := prim.Lattice.FracToCart([3]float64{float64(ucc.Cell[0]), float64(ucc.Cell[1]), float64(ucc.Cell[2])})
		base := prim.SiteCoordinateCart[ucc.Sublattice]
		siteCoords[l] = [3]float64{base[0] + cellOrigin[0], base[1] + cellOrigin[1], base[2] + cellOrigin[2]}
		allowed[l] = prim.AllowedAtomTypes[ucc.Sublattice]
	}

	if unsupported := unsupportedAtomTypes(structure.AtomType, allowed); len(unsupported) > 0 {
		return nil, fmt.Errorf("%w: structure atom types %v are not allowed on any supercell site (species mismatch score %d)",
			casmerr.ErrInvalidInput, unsupported, xtal.SpeciesMismatch(structure.AtomType, allowedUnion(allowed)))
	}

	return &LatticeMappingSearchData{
		Prim:                        prim,
		Structure:                   structure,
		Mapping:                     m,
		TN:                          tn,
		SupercellLattice:            supercellLattice,
		Converter:                   converter,
		AtomCoordinateCartInSuper:   atomCoordsSuper,
		SupercellSiteCoordinateCart: siteCoords,
		SupercellAllowedAtomTypes:   allowed,
	}, nil
}

// Sites reconstructs the supercell's sites as xtal.Site values.
func (d *LatticeMappingSearchData) Sites() []xtal.Site {
	out := make([]xtal.Site, len(d.SupercellSiteCoordinateCart))
	for i := range out {
		out[i] = xtal.Site{Coordinate: d.SupercellSiteCoordinateCart[i], Allowed: d.SupercellAllowedAtomTypes[i]}
	}
	return out
}

// unsupportedAtomTypes returns, in first-seen order, every structure atom
// type that no supercell site allows at all. Such a type makes the lattice
// mapping infeasible regardless of assignment, so it is caught here rather
// than surfacing only as an all-forbidden cost matrix row deep in atommap.
func unsupportedAtomTypes(atomTypes []string, allowed [][]string) []string {
	site := xtal.Site{}
	var out []string
	seen := make(map[string]bool)
	for _, t := range atomTypes {
		if seen[t] {
			continue
		}
		supported := false
		for _, a := range allowed {
			site.Allowed = a
			if site.Allows(t) {
				supported = true
				break
			}
		}
		if !supported {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// allowedUnion flattens and sorts the distinct labels allowed across every
// supercell site, for use as the comparison multiset in SpeciesMismatch's
// diagnostic distance.
func allowedUnion(allowed [][]string) []string {
	set := make(map[string]bool)
	for _, a := range allowed {
		for _, lbl := range a {
			set[lbl] = true
		}
	}
	out := make([]string, 0, len(set))
	for lbl := range set {
		out = append(out, lbl)
	}
	sort.Strings(out)
	return out
}
