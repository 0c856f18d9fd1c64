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
	"github.com/prisms-center/CASMcode-mapping/atommap"
)

// AtomMappingSearchData is the immutable, derived record for one trial
// translation within a lattice mapping: the site-to-atom displacement
// tensor and the cost matrix built from it, per spec.md §3. It references
// its LatticeMappingSearchData ancestor by shared pointer.
type AtomMappingSearchData struct {
	LatticeMappingData *LatticeMappingSearchData
	Translation         [3]float64
	Displacement        [][][3]float64 // [site][atom_or_vacancy] -> Cartesian vector
	CostMatrix          [][]float64    // N_site x N_site, vacancy-padded
}

// NewAtomMappingSearchData builds the cost matrix and displacement tensor
// for one trial translation, per spec.md §4.E.
func NewAtomMappingSearchData(lmd *LatticeMappingSearchData, translation [3]float64, infinity float64) (*AtomMappingSearchData, error) {
	result, err := atommap.BuildCostMatrix(
		lmd.Sites(),
		lmd.SupercellLattice,
		lmd.SupercellSiteCoordinateCart,
		lmd.AtomCoordinateCartInSuper,
		lmd.Structure.AtomType,
		translation,
		infinity,
	)
	if err != nil {
		return nil, err
	}
	return &AtomMappingSearchData{
		LatticeMappingData: lmd,
		Translation:         translation,
		Displacement:        result.Displacement,
		CostMatrix:          result.Cost,
	}, nil
}
