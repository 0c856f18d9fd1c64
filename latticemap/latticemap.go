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

// Package latticemap enumerates lattice mappings of a prim onto
// superlattices oriented to a child lattice, sorted by strain cost under a
// cost ceiling, with symmetry-equivalence pruning (spec.md §4.D).
package latticemap

import (
	"fmt"
	"math"
	"sort"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/strain"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// LatticeMapping is one candidate (F, T, N) satisfying F*L1*T*N = L2, per
// spec.md §3.
type LatticeMapping struct {
	F    xtal.Mat3
	T    xtal.IMat3
	N    xtal.IMat3
	Cost float64
}

// Options configures lattice mapping enumeration.
type Options struct {
	MinVol, MaxVol int          // determinant range for T
	MaxLatticeCost float64      // cost ceiling; 0 means unbounded
	KBest          int          // 0 means unbounded
	CostFunc       strain.CostFunc
	// ReorientationRange bounds the unimodular reorientation search to
	// matrices with entries in [-ReorientationRange, ReorientationRange].
	// This is the implementation choice spec.md §9 flags as trading
	// completeness for speed; 2 is the documented default (DESIGN.md,
	// SPEC_FULL.md §6).
	ReorientationRange int
}

func (o Options) withDefaults() Options {
	if o.CostFunc == nil {
		o.CostFunc = strain.Isotropic
	}
	if o.ReorientationRange == 0 {
		o.ReorientationRange = 2
	}
	if o.MaxLatticeCost == 0 {
		o.MaxLatticeCost = math.Inf(1)
	}
	if o.MinVol == 0 && o.MaxVol == 0 {
		o.MinVol, o.MaxVol = 1, 1
	}
	return o
}

// Enumerator is a lazy, cost-bounded sequence of lattice mappings, sorted
// by ascending strain cost, per spec.md §4.D step 5. Candidates are
// computed and deduplicated once at construction and then walked by Next;
// the full HNF x reorientation enumeration is done eagerly, not
// incrementally.
type Enumerator struct {
	candidates []LatticeMapping
	pos        int
	kBest      int
	emitted    int
}

// NewEnumerator enumerates lattice mappings of prim onto superlattices of
// volume in [opts.MinVol, opts.MaxVol], oriented toward child, under
// opts.MaxLatticeCost, pruned for symmetry equivalence under primFG (the
// prim's factor group) and structFG (the child structure's factor group).
func NewEnumerator(prim, child xtal.Lattice, primFG, structFG xtal.FactorGroup, opts Options) (*Enumerator, error) {
	opts = opts.withDefaults()
	if opts.MinVol <= 0 || opts.MaxVol < opts.MinVol {
		return nil, fmt.Errorf("%w: latticemap: invalid volume range [%d,%d]", casmerr.ErrInvalidInput, opts.MinVol, opts.MaxVol)
	}

	hnfs := xtal.EnumerateHNFRange(opts.MinVol, opts.MaxVol)
	reorientations := xtal.EnumerateUnimodular(opts.ReorientationRange)

	var all []LatticeMapping
	for _, t := range hnfs {
		sup, err := prim.Superlattice(t)
		if err != nil {
			continue
		}
		best, bestCost, ok := bestReorientation(sup, child, reorientations, primFG, opts.CostFunc)
		if !ok {
			continue
		}
		if bestCost > opts.MaxLatticeCost {
			continue
		}
		supN, err := xtal.NewLattice(sup.L.MulIMat3(best), sup.Tol)
		if err != nil {
			continue
		}
		f, err := deformationGradient(supN, child)
		if err != nil {
			continue
		}
		all = append(all, LatticeMapping{F: f, T: t, N: best, Cost: bestCost})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Cost < all[j].Cost })

	deduped := dedupeBySymmetry(all, prim, primFG, structFG)

	return &Enumerator{candidates: deduped, kBest: opts.KBest}, nil
}

// Next returns the next cheapest surviving candidate. ok is false once the
// enumerator is exhausted or kBest candidates have already been emitted.
func (e *Enumerator) Next() (LatticeMapping, bool) {
	if e.kBest > 0 && e.emitted >= e.kBest {
		return LatticeMapping{}, false
	}
	if e.pos >= len(e.candidates) {
		return LatticeMapping{}, false
	}
	c := e.candidates[e.pos]
	e.pos++
	e.emitted++
	return c, true
}

// bestReorientation finds, among the candidate unimodular matrices, the N
// minimizing opts.CostFunc applied to the deformation gradient mapping
// sup*N onto child.
func bestReorientation(sup, child xtal.Lattice, candidates []xtal.IMat3, primFG xtal.FactorGroup, cf strain.CostFunc) (xtal.IMat3, float64, bool) {
	bestCost := math.Inf(1)
	var best xtal.IMat3
	found := false
	for _, n := range candidates {
		supN, err := xtal.NewLattice(sup.L.MulIMat3(n), sup.Tol)
		if err != nil {
			continue
		}
		f, err := deformationGradient(supN, child)
		if err != nil {
			continue
		}
		cost, err := cf(f, primFG)
		if err != nil {
			continue
		}
		if cost < bestCost {
			bestCost = cost
			best = n
			found = true
		}
	}
	return best, bestCost, found
}

// deformationGradient solves F*ideal = childLattice for F.
func deformationGradient(ideal, child xtal.Lattice) (xtal.Mat3, error) {
	idealInv, err := ideal.L.Inverse()
	if err != nil {
		return xtal.Mat3{}, err
	}
	return child.L.Mul(idealInv), nil
}

// dedupeBySymmetry keeps one representative per equivalence class, where
// (T,N) and (T',N') are equivalent when g*Lsup*N = Lsup'*N'*h for some g in
// primFG and h in structFG (spec.md §4.D step 4). Candidates must already
// be sorted by ascending cost so that the kept representative of each
// class is the cheapest.
func dedupeBySymmetry(candidates []LatticeMapping, prim xtal.Lattice, primFG, structFG xtal.FactorGroup) []LatticeMapping {
	seen := make(map[[9]int64]bool, len(candidates))
	var out []LatticeMapping
	for _, c := range candidates {
		sup := prim.L.MulIMat3(c.T)
		m := sup.MulIMat3(c.N)
		key := canonicalKey(m, primFG, structFG, prim.Tol)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// canonicalKey returns a quantized, group-orbit-invariant fingerprint of
// the realized supercell basis m: the lexicographically smallest image of
// m under (g, h) in primFG x structFG, rounded to tol.
func canonicalKey(m xtal.Mat3, primFG, structFG xtal.FactorGroup, tol float64) [9]int64 {
	best := m
	for _, g := range primFG.Ops {
		gm := g.Point.Mul(m)
		for _, h := range structFG.Ops {
			hinv, err := h.Point.Inverse()
			if err != nil {
				continue
			}
			cand := gm.Mul(hinv)
			if lexLess(cand, best) {
				best = cand
			}
		}
	}
	return quantize(best, tol)
}

func lexLess(a, b xtal.Mat3) bool {
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			if a[c][r] != b[c][r] {
				return a[c][r] < b[c][r]
			}
		}
	}
	return false
}

func quantize(m xtal.Mat3, tol float64) [9]int64 {
	var key [9]int64
	i := 0
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			key[i] = int64(math.Round(m[c][r] / tol))
			i++
		}
	}
	return key
}
