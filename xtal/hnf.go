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

// EnumerateHNF returns every 3x3 Hermite Normal Form matrix of determinant
// det, in lexicographic order of (a, d, b, c, e) where the matrix is
//
//	[a 0 0]
//	[b d 0]
//	[c e f]
//
// with a*d*f = det, 0<=b<d, 0<=c<f, 0<=e<f. This is the standard
// enumeration of superlattices of a given volume (spec.md §4.D step 1).
func EnumerateHNF(det int) []IMat3 {
	if det <= 0 {
		return nil
	}
	var out []IMat3
	for a := 1; a <= det; a++ {
		if det%a != 0 {
			continue
		}
		rem := det / a
		for d := 1; d <= rem; d++ {
			if rem%d != 0 {
				continue
			}
			f := rem / d
			for b := 0; b < d; b++ {
				for c := 0; c < f; c++ {
					for e := 0; e < f; e++ {
						out = append(out, IMat3{
							{a, b, c},
							{0, d, e},
							{0, 0, f},
						})
					}
				}
			}
		}
	}
	return out
}

// EnumerateHNFRange returns the concatenation of EnumerateHNF(d) for every
// determinant d in [minVol, maxVol], in ascending-determinant order, each
// block internally lexicographic per EnumerateHNF.
func EnumerateHNFRange(minVol, maxVol int) []IMat3 {
	var out []IMat3
	for d := minVol; d <= maxVol; d++ {
		out = append(out, EnumerateHNF(d)...)
	}
	return out
}

// IsUnimodular reports whether n has determinant +-1, the invariant
// required of a reorientation matrix N (spec.md §3).
func (n IMat3) IsUnimodular() bool {
	d := n.Det()
	return d == 1 || d == -1
}

// EnumerateUnimodular returns every 3x3 integer matrix with entries in
// [-bound, bound] and determinant +-1. This is the bounded search space
// spec.md §4.D step 2 and §9 call out as an implementation choice trading
// completeness for speed; bound is exposed to callers via
// latticemap.Options.ReorientationRange so it can be widened when exact
// reproducibility with a wider search is required.
func EnumerateUnimodular(bound int) []IMat3 {
	var out []IMat3
	var n IMat3
	var rec func(idx int)
	rec = func(idx int) {
		if idx == 9 {
			if n.IsUnimodular() {
				cp := n
				out = append(out, cp)
			}
			return
		}
		col, row := idx/3, idx%3
		for v := -bound; v <= bound; v++ {
			n[col][row] = v
			rec(idx + 1)
		}
		n[col][row] = 0
	}
	rec(0)
	return out
}
