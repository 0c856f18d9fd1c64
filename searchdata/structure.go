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

package searchdata

import (
	"fmt"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
	"github.com/prisms-center/CASMcode-mapping/xtal"
)

// StructureSearchData is the immutable, query-wide description of the
// candidate child structure (spec.md §3). FactorGroup defaults to the
// identity when the caller has none to supply.
type StructureSearchData struct {
	Lattice            xtal.Lattice
	NAtom              int
	AtomCoordinateCart [][3]float64
	AtomType           []string
	FactorGroup        xtal.FactorGroup
}

// NewStructureSearchData validates and constructs a StructureSearchData.
// fg may be nil, defaulting to the identity factor group per spec.md §3.
func NewStructureSearchData(lat xtal.Lattice, coords [][3]float64, types []string, fg *xtal.FactorGroup) (*StructureSearchData, error) {
	if len(coords) != len(types) {
		return nil, fmt.Errorf("%w: structure has %d coordinates but %d atom types", casmerr.ErrInvalidInput, len(coords), len(types))
	}
	group := xtal.IdentityGroup()
	if fg != nil && len(fg.Ops) > 0 {
		group = *fg
	}
	return &StructureSearchData{
		Lattice:            lat,
		NAtom:              len(coords),
		AtomCoordinateCart: append([][3]float64(nil), coords...),
		AtomType:           append([]string(nil), types...),
		FactorGroup:        group,
	}, nil
}
