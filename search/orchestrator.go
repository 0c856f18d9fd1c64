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

package search

import (
	"container/heap"

	"github.com/prisms-center/CASMcode-mapping/atommap"
	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/latticemap"
	"github.com/prisms-center/CASMcode-mapping/mapping"
	"github.com/prisms-center/CASMcode-mapping/murty"
	"github.com/prisms-center/CASMcode-mapping/searchdata"
	"github.com/prisms-center/CASMcode-mapping/strain"
)

// TruncatedReason explains why a StructureOptions.KBest-bounded search
// stopped short of exhausting its search space, per spec.md §6.
type TruncatedReason int

const (
	// NotTruncated means the search ran to exhaustion: every candidate
	// under the cost ceilings was considered.
	NotTruncated TruncatedReason = iota
	// CostCeiling means the frontier's cheapest remaining item already
	// exceeds MaxTotalCost.
	CostCeiling
	// KBestReached means KBest distinct results were already found and the
	// frontier's cheapest remaining item cannot beat the worst of them.
	KBestReached
	// Exhausted means the frontier emptied before KBest was reached.
	Exhausted
	// IterationLimit means MaxIterations pops were performed before the
	// frontier emptied or a cost/KBest stopping condition was reached.
	IterationLimit
)

// Result is the outcome of MapStructures: up to KBest (unbounded when KBest
// is 0) canonically distinct structure mappings, in ascending score order,
// per spec.md §6.
type Result struct {
	Mappings        []mapping.StructureMapping
	Truncated       bool
	TruncatedReason TruncatedReason
}

// StructureOptions configures MapStructures' combined lattice+atom search.
type StructureOptions struct {
	Alpha, Beta        float64
	MinVol, MaxVol     int
	ReorientationRange int
	MaxLatticeCost     float64
	MaxAtomCost        float64
	MaxTotalCost       float64
	Infinity           float64
	KBest              int
	CostFunc           strain.CostFunc
	// Epsilon is the tie margin used when deciding whether the frontier's
	// cheapest remaining score could still beat the KBest'th found result.
	// Defaults to 1e-9 when zero.
	Epsilon float64
	// MaxIterations bounds how many frontier pops MapStructures performs
	// before returning its partial result set, per spec.md §5's
	// cancellation contract. 0 means unbounded.
	MaxIterations int
}

func (o StructureOptions) withDefaults() StructureOptions {
	if o.Epsilon == 0 {
		o.Epsilon = 1e-9
	}
	return o
}

type itemKind int

const (
	kindLatticeOnly itemKind = iota
	kindFullCandidate
)

// queueItem is one entry in the orchestrator's priority queue: either a
// lattice mapping awaiting translation/assignment expansion (an admissible
// lower bound on its eventual score, since atom cost is non-negative), or a
// fully scored (lattice, translation, assignment) candidate.
type queueItem struct {
	kind  itemKind
	score float64

	latticeMapping latticemap.LatticeMapping

	lmd       *searchdata.LatticeMappingSearchData
	amd       *searchdata.AtomMappingSearchData
	murtyEnum *murty.Enumerator
	solution  murty.Solution
}

type itemHeap []*queueItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(*queueItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MapStructures runs the combined best-first search over lattice mappings,
// trial translations, and ranked assignments, fusing their costs into
// S = alpha*C_lattice + beta*C_atom and deduplicating results by symmetry
// orbit, per spec.md §4.G, §6.
func MapStructures(prim *searchdata.PrimSearchData, structure *searchdata.StructureSearchData, opts StructureOptions) (Result, error) {
	opts = opts.withDefaults()

	latticeEnum, err := latticemap.NewEnumerator(prim.Lattice, structure.Lattice, prim.FactorGroup, structure.FactorGroup, latticemap.Options{
		MinVol:             opts.MinVol,
		MaxVol:             opts.MaxVol,
		MaxLatticeCost:     opts.MaxLatticeCost,
		CostFunc:           opts.CostFunc,
		ReorientationRange: opts.ReorientationRange,
	})
	if err != nil {
		return Result{}, err
	}

	var pending itemHeap
	for {
		c, ok := latticeEnum.Next()
		if !ok {
			break
		}
		pending = append(pending, &queueItem{
			kind:           kindLatticeOnly,
			score:          opts.Alpha * c.Cost,
			latticeMapping: c,
		})
	}
	heap.Init(&pending)

	var results []mapping.StructureMapping
	seen := make(map[mapping.QuantizedKey]bool)
	tol := prim.Lattice.Tol

	reason := Exhausted
	iterations := 0
	for pending.Len() > 0 {
		if opts.MaxIterations > 0 && iterations >= opts.MaxIterations {
			reason = IterationLimit
			break
		}

		if len(results) >= opts.KBest && opts.KBest > 0 {
			worst := results[len(results)-1].Score
			if pending[0].score > worst+opts.Epsilon {
				reason = KBestReached
				break
			}
		}

		top := pending[0]
		if top.score > opts.MaxTotalCost+opts.Epsilon {
			reason = CostCeiling
			break
		}

		item := heap.Pop(&pending).(*queueItem)
		iterations++

		switch item.kind {
		case kindLatticeOnly:
			expandLatticeOnly(item, prim, structure, opts, &pending)
		case kindFullCandidate:
			sm := mapping.StructureMapping{
				Lattice: item.lmd.Mapping,
				Atom:    mapping.NewScoredAtomMapping(item.amd.Displacement, item.solution.Assignment, item.solution.Cost, item.amd.Translation),
				Score:   item.score,
			}
			fp := mapping.Canonicalize(sm, item.lmd)
			key := fp.Quantize(tol)
			if !seen[key] && (opts.KBest <= 0 || len(results) < opts.KBest) {
				seen[key] = true
				results = append(results, sm)
			}

			if nextSol, ok := item.murtyEnum.Next(); ok {
				heap.Push(&pending, &queueItem{
					kind:      kindFullCandidate,
					score:     opts.Alpha*item.lmd.Mapping.Cost + opts.Beta*nextSol.Cost,
					lmd:       item.lmd,
					amd:       item.amd,
					murtyEnum: item.murtyEnum,
					solution:  nextSol,
				})
			}
		}
	}

	if pending.Len() == 0 {
		if opts.KBest > 0 && len(results) < opts.KBest {
			reason = Exhausted
		} else {
			reason = NotTruncated
		}
	}

	return Result{Mappings: results, Truncated: reason != NotTruncated, TruncatedReason: reason}, nil
}

// expandLatticeOnly derives the lattice mapping's search data, enumerates
// its trial translations, and pushes the first full candidate per
// translation's murty enumerator onto the frontier.
func expandLatticeOnly(item *queueItem, prim *searchdata.PrimSearchData, structure *searchdata.StructureSearchData, opts StructureOptions, pending *itemHeap) {
	lmd, err := searchdata.NewLatticeMappingSearchData(prim, structure, item.latticeMapping)
	if err != nil {
		return
	}

	tol := prim.Lattice.Tol
	translations, err := atommap.TrialTranslations(
		lmd.Sites(),
		lmd.SupercellLattice,
		lmd.AtomCoordinateCartInSuper,
		lmd.Structure.AtomType,
		prim.FactorGroup.InternalTranslations(tol),
	)
	if err != nil {
		return
	}

	for _, tau := range translations {
		amd, err := searchdata.NewAtomMappingSearchData(lmd, tau, opts.Infinity)
		if err != nil {
			if casmerr.Recoverable(err) {
				continue
			}
			return
		}

		maxAtomCost := opts.MaxAtomCost
		if opts.MaxTotalCost < maxAtomCost {
			maxAtomCost = opts.MaxTotalCost
		}
		murtyEnum, err := murty.NewEnumerator(amd.CostMatrix, opts.Infinity, tol, maxAtomCost, 0)
		if err != nil {
			if casmerr.Recoverable(err) {
				continue
			}
			return
		}

		sol, ok := murtyEnum.Next()
		if !ok {
			continue
		}

		heap.Push(pending, &queueItem{
			kind:      kindFullCandidate,
			score:     opts.Alpha*item.latticeMapping.Cost + opts.Beta*sol.Cost,
			lmd:       lmd,
			amd:       amd,
			murtyEnum: murtyEnum,
			solution:  sol,
		})
	}
}
