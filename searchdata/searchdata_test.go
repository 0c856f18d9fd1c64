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

package searchdata_test

import (
	"math"
	"testing"

	"github.com/prisms-center/CASMcode-mapping/latticemap"
	"github.com/prisms-center/CASMcode-mapping/searchdata"
	"github.com/prisms-center/CASMcode-mapping/xtal"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type S struct{}

var _ = Suite(&S{})

func cubicLattice(c *C, a float64) xtal.Lattice {
	lat, err := xtal.NewLattice(xtal.Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}, 1e-6)
	c.Assert(err, IsNil)
	return lat
}

func (*S) TestNewPrimSearchDataRejectsMolecularOccupant(c *C) {
	lat := cubicLattice(c, 4.05)
	sites := []xtal.Site{{Coordinate: [3]float64{0, 0, 0}, Allowed: []string{"H2O"}}}
	_, err := searchdata.NewPrimSearchData(sites, lat, xtal.IdentityGroup())
	c.Assert(err, NotNil)
}

func (*S) TestNewPrimSearchDataDetectsVacancyAllowance(c *C) {
	lat := cubicLattice(c, 4.05)
	sites := []xtal.Site{
		{Coordinate: [3]float64{0, 0, 0}, Allowed: []string{"Al"}},
		{Coordinate: [3]float64{0.5, 0.5, 0.5}, Allowed: []string{"Ni", xtal.VacancyLabel}},
	}
	prim, err := searchdata.NewPrimSearchData(sites, lat, xtal.IdentityGroup())
	c.Assert(err, IsNil)
	c.Assert(prim.VacanciesAllowed, Equals, true)
	c.Assert(prim.NSite, Equals, 2)
}

func (*S) TestNewStructureSearchDataRejectsLengthMismatch(c *C) {
	lat := cubicLattice(c, 4.05)
	_, err := searchdata.NewStructureSearchData(lat, [][3]float64{{0, 0, 0}}, []string{"Al", "Ni"}, nil)
	c.Assert(err, NotNil)
}

func (*S) TestNewStructureSearchDataDefaultsFactorGroupToIdentity(c *C) {
	lat := cubicLattice(c, 4.05)
	structure, err := searchdata.NewStructureSearchData(lat, [][3]float64{{0, 0, 0}}, []string{"Al"}, nil)
	c.Assert(err, IsNil)
	c.Assert(structure.FactorGroup.Ops, HasLen, 1)
}

func identityLatticeMapping(c *C, lat xtal.Lattice) latticemap.LatticeMapping {
	identity3 := xtal.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	identityI := xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return latticemap.LatticeMapping{F: identity3, T: identityI, N: identityI, Cost: 0}
}

func (*S) TestLatticeMappingSearchDataPreservesCoordinatesUnderIdentity(c *C) {
	lat := cubicLattice(c, 4.05)
	sites := []xtal.Site{{Coordinate: [3]float64{0, 0, 0}, Allowed: []string{"Al"}}}
	prim, err := searchdata.NewPrimSearchData(sites, lat, xtal.IdentityGroup())
	c.Assert(err, IsNil)
	structure, err := searchdata.NewStructureSearchData(lat, [][3]float64{{0, 0, 0}}, []string{"Al"}, nil)
	c.Assert(err, IsNil)

	lmd, err := searchdata.NewLatticeMappingSearchData(prim, structure, identityLatticeMapping(c, lat))
	c.Assert(err, IsNil)
	c.Assert(lmd.Converter.NSupercellSite(), Equals, 1)
	c.Assert(lmd.AtomCoordinateCartInSuper, HasLen, 1)
	for i, v := range lmd.AtomCoordinateCartInSuper[0] {
		c.Assert(math.Abs(v-structure.AtomCoordinateCart[0][i]) < 1e-9, Equals, true)
	}
}

func (*S) TestAtomMappingSearchDataBuildsCostMatrixForIdentity(c *C) {
	lat := cubicLattice(c, 4.05)
	sites := []xtal.Site{{Coordinate: [3]float64{0, 0, 0}, Allowed: []string{"Al"}}}
	prim, err := searchdata.NewPrimSearchData(sites, lat, xtal.IdentityGroup())
	c.Assert(err, IsNil)
	structure, err := searchdata.NewStructureSearchData(lat, [][3]float64{{0, 0, 0}}, []string{"Al"}, nil)
	c.Assert(err, IsNil)

	lmd, err := searchdata.NewLatticeMappingSearchData(prim, structure, identityLatticeMapping(c, lat))
	c.Assert(err, IsNil)

	amd, err := searchdata.NewAtomMappingSearchData(lmd, [3]float64{0, 0, 0}, math.MaxFloat64/4)
	c.Assert(err, IsNil)
	c.Assert(amd.CostMatrix, HasLen, 1)
	c.Assert(math.Abs(amd.CostMatrix[0][0]) < 1e-9, Equals, true)
}
