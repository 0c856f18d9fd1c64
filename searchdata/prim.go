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

// Package searchdata holds the immutable, shared-ownership records a
// mapping search fans out across: prim data, structure data, and their
// lattice-mapping and atom-mapping derivatives (spec.md §3, §4.F). Every
// exported type here is constructed once and must never be mutated after
// publication; later layers only ever read their ancestors.
package searchdata

import (
	"fmt"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// PrimSearchData is the immutable, query-wide description of the
// primitive reference crystal (spec.md §3).
type PrimSearchData struct {
	Lattice            xtal.Lattice
	NSite              int
	SiteCoordinateCart [][3]float64
	AllowedAtomTypes   [][]string
	VacanciesAllowed   bool
	FactorGroup        xtal.FactorGroup
}

// NewPrimSearchData validates and constructs a PrimSearchData. It fails
// with casmerr.ErrInvalidInput when any site's allowed-occupant list names
// a molecular (multi-atom) species, which this module's Non-goals exclude.
func NewPrimSearchData(sites []xtal.Site, lat xtal.Lattice, fg xtal.FactorGroup) (*PrimSearchData, error) {
	bs := xtal.BasicStructure{Lattice: lat, Sites: sites}
	if !bs.AtomTypesAreAtomic() {
		return nil, fmt.Errorf("%w: prim allowed-occupant labels must name atomic species, not molecules", casmerr.ErrInvalidInput)
	}

	coords := make([][3]float64, len(sites))
	allowed := make([][]string, len(sites))
	vacanciesAllowed := false
	for i, s := range sites {
		coords[i] = s.Coordinate
		allowed[i] = append([]string(nil), s.Allowed...)
		if s.AllowsVacancy() {
			vacanciesAllowed = true
		}
	}

	if len(fg.Ops) == 0 {
		fg = xtal.IdentityGroup()
	}

	return &PrimSearchData{
		Lattice:            lat,
		NSite:              len(sites),
		SiteCoordinateCart: coords,
		AllowedAtomTypes:   allowed,
		VacanciesAllowed:   vacanciesAllowed,
		FactorGroup:        fg,
	}, nil
}

// Sites reconstructs the prim's sites as xtal.Site values, for use with
// collaborator helpers that expect that shape.
func (p *PrimSearchData) Sites() []xtal.Site {
	out := make([]xtal.Site, p.NSite)
	for i := range out {
		out[i] = xtal.Site{Coordinate: p.SiteCoordinateCart[i], Allowed: p.AllowedAtomTypes[i]}
	}
	return out
}
