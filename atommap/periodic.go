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

// Package atommap computes periodic-boundary atom displacements and the
// per-cell assignment cost matrices the search orchestrator hands to
// package murty (spec.md §4.E).
package atommap

import (
	"fmt"
	"math"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// MaxVoronoiIterations bounds the robust minimum-image reduction loop
// before it gives up with casmerr.ErrNumericalTolerance, per spec.md §9.
const MaxVoronoiIterations = 64

func subVec(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func addVec(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func roundVec(v [3]float64) [3]float64 {
	return [3]float64{math.Round(v[0]), math.Round(v[1]), math.Round(v[2])}
}

// MinimumImageFast computes the periodic-image-reduced displacement from
// site s to atom a under lattice lat: d = (a-s) - L*round(L^-1*(a-s)).
// This is correct within the lattice's first Brillouin sphere (inner
// Voronoi radius); for lattices where that is not guaranteed, use
// MinimumImage.
func MinimumImageFast(lat xtal.Lattice, s, a [3]float64) [3]float64 {
	raw := subVec(a, s)
	frac := lat.Inverse().MulVec(raw)
	shift := lat.L.MulVec(roundVec(frac))
	return subVec(raw, shift)
}

// MinimumImage computes the unique Wigner-Seitz minimum-image displacement
// from site s to atom a under lattice lat: the fast form, then iterative
// Voronoi-cell reduction while the displacement's MaxVoronoiMeasure
// exceeds 1+tol (spec.md §4.E "robust form"). Fails with
// casmerr.ErrNumericalTolerance if reduction does not converge within
// MaxVoronoiIterations, indicating a pathological tolerance.
func MinimumImage(lat xtal.Lattice, s, a [3]float64) ([3]float64, error) {
	d := MinimumImageFast(lat, s, a)
	for i := 0; i < MaxVoronoiIterations; i++ {
		measure, translation := lat.MaxVoronoiMeasure(d)
		if measure <= 1+lat.Tol {
			return d, nil
		}
		d = subVec(d, translation)
	}
	return [3]float64{}, fmt.Errorf("%w: atommap: Voronoi reduction did not converge in %d iterations", casmerr.ErrNumericalTolerance, MaxVoronoiIterations)
}
