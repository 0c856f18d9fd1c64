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

	"github.com/prisms-center/CASMcode-mapping/listdist"
)

// VacancyLabel is the conventional species label used for an unoccupied
// site or a synthetic vacancy padding an atom axis.
const VacancyLabel = "Va"

// IsVacancy reports whether label names a vacancy.
func IsVacancy(label string) bool {
	return label == VacancyLabel || label == "VA" || label == "va"
}

// Site is one basis site of a BasicStructure: a Cartesian position plus the
// species labels permitted to occupy it.
type Site struct {
	Coordinate [3]float64
	Allowed    []string
}

// AllowsVacancy reports whether the site's allowed set contains a vacancy
// label.
func (s Site) AllowsVacancy() bool {
	for _, lbl := range s.Allowed {
		if IsVacancy(lbl) {
			return true
		}
	}
	return false
}

// Allows reports whether label is in the site's allowed set.
func (s Site) Allows(label string) bool {
	for _, lbl := range s.Allowed {
		if lbl == label {
			return true
		}
	}
	return false
}

// BasicStructure is the collaborator contract of spec.md §6: basis sites
// with Cartesian coordinates and per-site allowed-occupant labels.
type BasicStructure struct {
	Lattice Lattice
	Sites   []Site
}

// AtomTypesAreAtomic reports whether every label across every site's
// allowed set names a single atomic species rather than a molecular
// occupant. This module's Non-goals (spec.md §1) exclude molecular
// occupants entirely, so any label containing more than one element
// symbol (a crude molecular heuristic: any digit, indicating a multi-atom
// formula like "H2O") is rejected at construction time with InvalidInput.
func (bs BasicStructure) AtomTypesAreAtomic() bool {
	for _, site := range bs.Sites {
		for _, lbl := range site.Allowed {
			for _, r := range lbl {
				if r >= '0' && r <= '9' {
					return false
				}
			}
		}
	}
	return true
}

// SpeciesMismatch returns a rough edit-distance-based dissimilarity between
// two sorted species-label multisets, used to produce a descriptive
// InvalidInput error when a structure's atom-type count cannot possibly
// satisfy a prim's site requirements (spec.md §7). It reuses listdist's
// generic list distance with unit swap/insert/delete costs rather than a
// bespoke multiset diff.
func SpeciesMismatch(have, want []string) int64 {
	h := append([]string(nil), have...)
	w := append([]string(nil), want...)
	sort.Strings(h)
	sort.Strings(w)

	hAny := make([]any, len(h))
	for i, s := range h {
		hAny[i] = s
	}
	wAny := make([]any, len(w))
	for i, s := range w {
		wAny[i] = s
	}
	return listdist.Distance(hAny, wAny, listdist.StandardCost, 0)
}
