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

// Package search implements the mapping engine's public API: a
// priority-queued best-first orchestrator fusing lattice enumeration,
// translation enumeration, assignment ranking and symmetry deduplication
// (spec.md §4.G, §6).
package search

import (
	"sort"

	"github.com/prisms-center/CASMcode-mapping/atommap"
	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/latticemap"
	"github.com/prisms-center/CASMcode-mapping/mapping"
	"github.com/prisms-center/CASMcode-mapping/murty"
	"github.com/prisms-center/CASMcode-mapping/searchdata"
	"github.com/prisms-center/CASMcode-mapping/strain"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// LatticeOptions configures MapLattices.
type LatticeOptions struct {
	MinVol, MaxVol     int
	MaxCost            float64
	KBest              int
	ReorientationRange int
	CostFunc           strain.CostFunc
}

// MapLattices enumerates lattice mappings of prim onto superlattices
// oriented toward child, sorted by ascending strain cost, per spec.md §6.
func MapLattices(prim, child xtal.Lattice, primFG, structFG xtal.FactorGroup, opts LatticeOptions) ([]latticemap.LatticeMapping, error) {
	enum, err := latticemap.NewEnumerator(prim, child, primFG, structFG, latticemap.Options{
		MinVol:             opts.MinVol,
		MaxVol:             opts.MaxVol,
		MaxLatticeCost:     opts.MaxCost,
		KBest:              opts.KBest,
		ReorientationRange: opts.ReorientationRange,
		CostFunc:           opts.CostFunc,
	})
	if err != nil {
		return nil, err
	}
	var out []latticemap.LatticeMapping
	for {
		c, ok := enum.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

// AtomOptions configures MapAtoms.
type AtomOptions struct {
	Infinity float64
	MaxCost  float64
	KBest    int
}

// MapAtoms enumerates the k best atom assignments for a single lattice
// mapping, across every trial translation, sorted by ascending cost, per
// spec.md §6.
func MapAtoms(lmd *searchdata.LatticeMappingSearchData, opts AtomOptions) ([]mapping.ScoredAtomMapping, error) {
	tol := lmd.Prim.Lattice.Tol
	translations, err := atommap.TrialTranslations(
		lmd.Sites(),
		lmd.SupercellLattice,
		lmd.AtomCoordinateCartInSuper,
		lmd.Structure.AtomType,
		lmd.Prim.FactorGroup.InternalTranslations(tol),
	)
	if err != nil {
		return nil, err
	}

	var out []mapping.ScoredAtomMapping
	for _, tau := range translations {
		amd, err := searchdata.NewAtomMappingSearchData(lmd, tau, opts.Infinity)
		if err != nil {
			if casmerr.Recoverable(err) {
				continue
			}
			return nil, err
		}
		enum, err := murty.NewEnumerator(amd.CostMatrix, opts.Infinity, tol, opts.MaxCost, opts.KBest)
		if err != nil {
			if casmerr.Recoverable(err) {
				continue
			}
			return nil, err
		}
		for {
			sol, ok := enum.Next()
			if !ok {
				break
			}
			out = append(out, mapping.NewScoredAtomMapping(amd.Displacement, sol.Assignment, sol.Cost, tau))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AtomCost < out[j].AtomCost })
	if opts.KBest > 0 && len(out) > opts.KBest {
		out = out[:opts.KBest]
	}
	return out, nil
}
