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

package xtal_test

import (
	"math"
	"testing"

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

func (*S) TestNewLatticeRejectsNonPositiveTolerance(c *C) {
	_, err := xtal.NewLattice(xtal.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 0)
	c.Assert(err, NotNil)
}

func (*S) TestNewLatticeRejectsSingularBasis(c *C) {
	_, err := xtal.NewLattice(xtal.Mat3{{1, 0, 0}, {1, 0, 0}, {0, 0, 1}}, 1e-6)
	c.Assert(err, NotNil)
}

func (*S) TestCartFracRoundTrip(c *C) {
	lat := cubicLattice(c, 4.05)
	v := [3]float64{1.2, -3.4, 5.6}
	frac := lat.CartToFrac(v)
	back := lat.FracToCart(frac)
	for i := range v {
		c.Assert(math.Abs(back[i]-v[i]) < 1e-9, Equals, true)
	}
}

func (*S) TestSuperlatticeRejectsNonPositiveDeterminant(c *C) {
	lat := cubicLattice(c, 4.05)
	_, err := lat.Superlattice(xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	c.Assert(err, NotNil)
}

func (*S) TestSuperlatticeVolumeScalesWithDeterminant(c *C) {
	lat := cubicLattice(c, 4.05)
	t := xtal.IMat3{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	sup, err := lat.Superlattice(t)
	c.Assert(err, IsNil)
	c.Assert(math.Abs(sup.L.Det()-2*lat.L.Det()) < 1e-9, Equals, true)
}

func (*S) TestEnumerateHNFIdentityIsOnlyVolumeOneCase(c *C) {
	hnfs := xtal.EnumerateHNF(1)
	c.Assert(hnfs, HasLen, 1)
	c.Assert(hnfs[0], Equals, xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
}

func (*S) TestEnumerateHNFVolumeTwoCount(c *C) {
	hnfs := xtal.EnumerateHNF(2)
	c.Assert(hnfs, HasLen, 7)
	for _, t := range hnfs {
		c.Assert(t.Det(), Equals, 2)
	}
}

func (*S) TestEnumerateHNFRejectsNonPositiveDeterminant(c *C) {
	c.Assert(xtal.EnumerateHNF(0), HasLen, 0)
	c.Assert(xtal.EnumerateHNF(-1), HasLen, 0)
}

func (*S) TestEnumerateUnimodularContainsIdentityAndIsAllUnimodular(c *C) {
	candidates := xtal.EnumerateUnimodular(1)
	c.Assert(len(candidates) > 0, Equals, true)

	foundIdentity := false
	for _, n := range candidates {
		c.Assert(n.IsUnimodular(), Equals, true)
		if n == (xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}) {
			foundIdentity = true
		}
	}
	c.Assert(foundIdentity, Equals, true)
}

func (*S) TestUnitCellCoordConverterRoundTrip(c *C) {
	tn := xtal.IMat3{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	conv := xtal.NewUnitCellCoordConverter(tn, 1, 1e-6)
	c.Assert(conv.NCells(), Equals, 2)
	c.Assert(conv.NSupercellSite(), Equals, 2)

	for i := 0; i < conv.NSupercellSite(); i++ {
		ucc := conv.UnitCellCoordOf(i)
		c.Assert(conv.LinearIndex(ucc), Equals, i)
	}
}

func (*S) TestAtomTypesAreAtomicRejectsMolecularLabel(c *C) {
	bs := xtal.BasicStructure{Sites: []xtal.Site{{Allowed: []string{"Al", "H2O"}}}}
	c.Assert(bs.AtomTypesAreAtomic(), Equals, false)
}

func (*S) TestAtomTypesAreAtomicAcceptsElementLabels(c *C) {
	bs := xtal.BasicStructure{Sites: []xtal.Site{{Allowed: []string{"Al", "Ni", xtal.VacancyLabel}}}}
	c.Assert(bs.AtomTypesAreAtomic(), Equals, true)
}

func (*S) TestSpeciesMismatchZeroForIdenticalMultisets(c *C) {
	c.Assert(xtal.SpeciesMismatch([]string{"Al", "Ni"}, []string{"Ni", "Al"}), Equals, int64(0))
}

func (*S) TestSpeciesMismatchPositiveForDifferentMultisets(c *C) {
	c.Assert(xtal.SpeciesMismatch([]string{"Al", "Al"}, []string{"Al", "Ni"}) > 0, Equals, true)
}

func (*S) TestFactorGroupInternalTranslationsDefaultsToIdentity(c *C) {
	fg := xtal.FactorGroup{Ops: []xtal.SymOp{
		{Point: xtal.Mat3{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}},
	}}
	translations := fg.InternalTranslations(1e-6)
	c.Assert(translations, HasLen, 1)
	c.Assert(translations[0], Equals, xtal.Identity)
}
