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

package atommap

import (
	"fmt"

	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// CostMatrixResult bundles the square cost matrix and the per-(site,atom)
// displacement that produced it (spec.md §4.E).
type CostMatrixResult struct {
	Cost         [][]float64
	Displacement [][][3]float64 // [site][column] -> Cartesian displacement
}

// BuildCostMatrix constructs the N_site x N_site cost matrix for a trial
// translation: columns 0..len(atomTypes)-1 are real atoms, columns
// len(atomTypes)..N_site-1 are synthetic vacancies with zero displacement.
// Entry (i,j) is mu(d_ij, type_j, sites[i].Allowed, infinity), per
// spec.md §4.E.
func BuildCostMatrix(sites []xtal.Site, supercell xtal.Lattice, siteCoords [][3]float64, atomCoords [][3]float64, atomTypes []string, translation [3]float64, infinity float64) (CostMatrixResult, error) {
	nSite := len(sites)
	nAtom := len(atomCoords)
	if nAtom > nSite {
		return CostMatrixResult{}, fmt.Errorf("atommap: %d atoms cannot fit in %d sites", nAtom, nSite)
	}

	cost := make([][]float64, nSite)
	disp := make([][][3]float64, nSite)
	for i := range cost {
		cost[i] = make([]float64, nSite)
		disp[i] = make([][3]float64, nSite)
	}

	for i, site := range sites {
		for j := 0; j < nSite; j++ {
			if j < nAtom {
				d, err := MinimumImage(supercell, siteCoords[i], addVec(atomCoords[j], translation))
				if err != nil {
					return CostMatrixResult{}, err
				}
				disp[i][j] = d
				cost[i][j] = atomCost(d, atomTypes[j], site, infinity)
			} else {
				disp[i][j] = [3]float64{}
				cost[i][j] = atomCost([3]float64{}, xtal.VacancyLabel, site, infinity)
			}
		}
	}

	return CostMatrixResult{Cost: cost, Displacement: disp}, nil
}

// atomCost implements mu(d, t_atom, S_site, infinity), spec.md §4.E:
// zero for an allowed vacancy, infinity for a disallowed species or a
// vacancy on a site that forbids it, and ||d||^2 otherwise.
func atomCost(d [3]float64, atomType string, site xtal.Site, infinity float64) float64 {
	if xtal.IsVacancy(atomType) {
		if site.AllowsVacancy() {
			return 0
		}
		return infinity
	}
	if !site.Allows(atomType) {
		return infinity
	}
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}
