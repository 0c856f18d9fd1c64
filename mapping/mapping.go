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

// Package mapping defines the result types the search orchestrator emits
// -- AtomMapping, ScoredAtomMapping, StructureMapping -- and their
// canonicalization under combined prim x structure symmetry (spec.md
// §3, §4.H).
package mapping

import "github.com/prisms-center/CASMcode-mapping/latticemap"

// AtomMapping is the result of assigning child atoms (and synthetic
// vacancies) to prim supercell sites, per spec.md §3.
type AtomMapping struct {
	// Displacement[site] is the minimum-image vector from site to its
	// assigned atom (or the zero vector for a vacancy).
	Displacement []([3]float64)
	// Permutation[site] = atom_or_vacancy_index.
	Permutation []int
	Translation [3]float64
}

// ScoredAtomMapping adds the total assignment cost to an AtomMapping.
type ScoredAtomMapping struct {
	AtomMapping
	AtomCost float64
}

// NewScoredAtomMapping builds a ScoredAtomMapping from a cost matrix's
// displacement tensor and a murty.Solution-shaped assignment.
func NewScoredAtomMapping(displacement [][][3]float64, assignment []int, cost float64, translation [3]float64) ScoredAtomMapping {
	disp := make([]([3]float64), len(assignment))
	for site, col := range assignment {
		disp[site] = displacement[site][col]
	}
	return ScoredAtomMapping{
		AtomMapping: AtomMapping{
			Displacement: disp,
			Permutation:  append([]int(nil), assignment...),
			Translation:  translation,
		},
		AtomCost: cost,
	}
}

// StructureMapping bundles a lattice mapping and an atom mapping plus a
// combined score, per spec.md §3.
type StructureMapping struct {
	Lattice latticemap.LatticeMapping
	Atom    ScoredAtomMapping
	Score   float64
}
