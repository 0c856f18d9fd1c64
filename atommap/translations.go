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
	"math"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// ValidateAtomsHaveAllowedSites fails with casmerr.ErrAtomRowAllForbidden
// for the first non-vacancy atom that has no allowed site anywhere in
// sites, per spec.md §4.E: no mapping is possible for such a structure.
func ValidateAtomsHaveAllowedSites(sites []xtal.Site, atomTypes []string) error {
	for a, t := range atomTypes {
		if xtal.IsVacancy(t) {
			continue
		}
		allowed := false
		for _, s := range sites {
			if s.Allows(t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: atom %d (%s) is not allowed on any prim site", casmerr.ErrAtomRowAllForbidden, a, t)
		}
	}
	return nil
}

// TrialTranslations computes the minimal set of rigid translations that
// bring atomCoords into registry with site candidates, per spec.md §4.E.
// It chooses the non-vacancy atom with the fewest allowed prim sites
// (ties broken by lowest index), generates a translation candidate for
// each of that atom's allowed sites, and reduces the list modulo the
// prim's internal translations and lattice vectors.
func TrialTranslations(sites []xtal.Site, lat xtal.Lattice, atomCoords [][3]float64, atomTypes []string, internalTranslations []xtal.SymOp) ([][3]float64, error) {
	if err := ValidateAtomsHaveAllowedSites(sites, atomTypes); err != nil {
		return nil, err
	}

	anchor := -1
	fewest := math.MaxInt
	for a, t := range atomTypes {
		if xtal.IsVacancy(t) {
			continue
		}
		count := 0
		for _, s := range sites {
			if s.Allows(t) {
				count++
			}
		}
		if count < fewest {
			fewest = count
			anchor = a
		}
	}
	if anchor == -1 {
		return nil, fmt.Errorf("%w: atommap: structure has no non-vacancy atoms to anchor a translation", casmerr.ErrInvalidInput)
	}

	var candidates [][3]float64
	for _, s := range sites {
		if !s.Allows(atomTypes[anchor]) {
			continue
		}
		candidates = append(candidates, subVec(s.Coordinate, atomCoords[anchor]))
	}

	if len(internalTranslations) == 0 {
		internalTranslations = []xtal.SymOp{xtal.Identity}
	}

	inv := lat.Inverse()
	var accepted [][3]float64
candidateLoop:
	for _, tau := range candidates {
		for _, u := range internalTranslations {
			for _, acc := range accepted {
				diff := subVec(addVec(tau, u.Trans), acc)
				frac := inv.MulVec(diff)
				if isIntegerVec(frac, lat.Tol) {
					continue candidateLoop
				}
			}
		}
		accepted = append(accepted, tau)
	}
	return accepted, nil
}

func isIntegerVec(v [3]float64, tol float64) bool {
	for _, c := range v {
		if math.Abs(c-math.Round(c)) > tol {
			return false
		}
	}
	return true
}
