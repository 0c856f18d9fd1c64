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

package mapping

import (
	"math"

	"github.com/prisms-center/CASMcode-mapping/searchdata"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// Fingerprint is the canonical, orbit-invariant identity of a
// StructureMapping: its supercell transform, permutation, and
// lattice-reduced translation, per spec.md §4.H. Two mappings in the same
// symmetry orbit produce equal fingerprints.
type Fingerprint struct {
	TN          xtal.IMat3
	Permutation [64]int // fixed-size so Fingerprint is comparable; NSite must be <= 64
	NSite       int
	FracTrans   [3]float64 // reduced into [0,1) fractional prim coordinates
}

// QuantizedKey converts a Fingerprint to a value usable as a Go map key at
// a fixed numerical resolution, since FracTrans is a float triple. Results
// sets use this for O(1) deduplication (spec.md §4.G).
type QuantizedKey struct {
	tn    xtal.IMat3
	perm  [64]int
	nSite int
	frac  [3]int64
}

// Quantize returns fp's map-key form at resolution tol.
func (fp Fingerprint) Quantize(tol float64) QuantizedKey {
	var frac [3]int64
	for i, v := range fp.FracTrans {
		frac[i] = int64(math.Round(v / tol))
	}
	return QuantizedKey{tn: fp.TN, perm: fp.Permutation, nSite: fp.NSite, frac: frac}
}

// Less orders two fingerprints lexicographically: TN, then permutation,
// then fractional translation, matching spec.md §4.H's canonical-form
// ordering rule.
func (fp Fingerprint) Less(other Fingerprint) bool {
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			if fp.TN[c][r] != other.TN[c][r] {
				return fp.TN[c][r] < other.TN[c][r]
			}
		}
	}
	for i := 0; i < fp.NSite; i++ {
		if fp.Permutation[i] != other.Permutation[i] {
			return fp.Permutation[i] < other.Permutation[i]
		}
	}
	for i := 0; i < 3; i++ {
		if fp.FracTrans[i] != other.FracTrans[i] {
			return fp.FracTrans[i] < other.FracTrans[i]
		}
	}
	return false
}

// Canonicalize returns sm's canonical fingerprint: the lexicographically
// smallest image of sm under (g, h) in primFG x structFG that actually
// maps the lattice mapping's supercell back onto itself (its symmetry
// stabilizer). Operations outside the stabilizer are skipped, since they
// would describe a different supercell, not a symmetry-equivalent
// relabeling of this one.
func Canonicalize(sm StructureMapping, lmd *searchdata.LatticeMappingSearchData) Fingerprint {
	tol := lmd.Prim.Lattice.Tol
	sites := lmd.Sites()
	nSite := len(sites)
	nAtom := lmd.Structure.NAtom

	best := rawFingerprint(lmd.TN, sm.Atom.Permutation, sm.Atom.Translation, lmd.Prim.Lattice, nSite)

	for _, g := range lmd.Prim.FactorGroup.Ops {
		sitePerm, ok := sitePermutation(g, sites, lmd.SupercellLattice)
		if !ok {
			continue
		}
		for _, h := range lmd.Structure.FactorGroup.Ops {
			atomPerm, ok := atomPermutation(h, lmd.AtomCoordinateCartInSuper, lmd.SupercellLattice, nAtom)
			if !ok {
				continue
			}

			newPerm := make([]int, nSite)
			for site, col := range sm.Atom.Permutation {
				newSite := sitePerm[site]
				if col < nAtom {
					newPerm[newSite] = atomPerm[col]
				} else {
					newPerm[newSite] = col
				}
			}

			newTrans := g.Point.MulVec(sm.Atom.Translation)

			cand := rawFingerprint(lmd.TN, newPerm, newTrans, lmd.Prim.Lattice, nSite)
			if cand.Less(best) {
				best = cand
			}
		}
	}
	return best
}

func rawFingerprint(tn xtal.IMat3, perm []int, translation [3]float64, lat xtal.Lattice, nSite int) Fingerprint {
	var fixed [64]int
	for i := 0; i < nSite && i < 64; i++ {
		fixed[i] = perm[i]
	}
	frac := lat.CartToFrac(translation)
	for i := range frac {
		frac[i] = frac[i] - math.Floor(frac[i])
	}
	return Fingerprint{TN: tn, Permutation: fixed, NSite: nSite, FracTrans: frac}
}

// sitePermutation maps each supercell site index to the index of the site
// g's point operation carries it to, modulo the supercell lattice. ok is
// false if g does not map the site set onto itself within tolerance, i.e.
// g is not in this supercell's stabilizer.
func sitePermutation(g xtal.SymOp, sites []xtal.Site, supercell xtal.Lattice) ([]int, bool) {
	perm := make([]int, len(sites))
	for i, s := range sites {
		image := g.Apply(s.Coordinate)
		match := -1
		for j, candidate := range sites {
			d := minImageDistance(supercell, candidate.Coordinate, image)
			if d < supercell.Tol {
				match = j
				break
			}
		}
		if match == -1 {
			return nil, false
		}
		perm[i] = match
	}
	return perm, true
}

// atomPermutation maps each atom index to the index h's point operation
// carries it to, modulo the supercell lattice. ok is false if h does not
// map the atom set onto itself within tolerance.
func atomPermutation(h xtal.SymOp, atomCoords [][3]float64, supercell xtal.Lattice, nAtom int) ([]int, bool) {
	perm := make([]int, nAtom)
	for i := 0; i < nAtom; i++ {
		image := h.Apply(atomCoords[i])
		match := -1
		for j := 0; j < nAtom; j++ {
			d := minImageDistance(supercell, atomCoords[j], image)
			if d < supercell.Tol {
				match = j
				break
			}
		}
		if match == -1 {
			return nil, false
		}
		perm[i] = match
	}
	return perm, true
}

func minImageDistance(lat xtal.Lattice, a, b [3]float64) float64 {
	raw := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	frac := lat.Inverse().MulVec(raw)
	var rounded [3]float64
	for i, v := range frac {
		rounded[i] = math.Round(v)
	}
	shift := lat.L.MulVec(rounded)
	d := [3]float64{raw[0] - shift[0], raw[1] - shift[1], raw[2] - shift[2]}
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}
