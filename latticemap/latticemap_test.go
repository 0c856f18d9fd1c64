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

package latticemap_test

import (
	"math"
	"testing"

	"github.com/prisms-center/CASMcode-mapping/latticemap"
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

func (*S) TestIdenticalLatticesMapWithZeroCost(c *C) {
	lat := cubicLattice(c, 4.05)
	enum, err := latticemap.NewEnumerator(lat, lat, xtal.IdentityGroup(), xtal.IdentityGroup(), latticemap.Options{MinVol: 1, MaxVol: 1})
	c.Assert(err, IsNil)

	best, ok := enum.Next()
	c.Assert(ok, Equals, true)
	c.Assert(math.Abs(best.Cost) < 1e-9, Equals, true, Commentf("got %g", best.Cost))
}

func (*S) TestUniformDilationCostMatchesIsotropicFormula(c *C) {
	prim := cubicLattice(c, 4.05)
	child := cubicLattice(c, 4.05*1.02)
	enum, err := latticemap.NewEnumerator(prim, child, xtal.IdentityGroup(), xtal.IdentityGroup(), latticemap.Options{MinVol: 1, MaxVol: 1})
	c.Assert(err, IsNil)

	best, ok := enum.Next()
	c.Assert(ok, Equals, true)
	c.Assert(math.Abs(best.Cost-4e-4) < 1e-8, Equals, true, Commentf("got %g", best.Cost))
}

func (*S) TestMaxLatticeCostPrunesExpensiveCandidates(c *C) {
	prim := cubicLattice(c, 4.05)
	child := cubicLattice(c, 4.05*1.5) // far too strained
	enum, err := latticemap.NewEnumerator(prim, child, xtal.IdentityGroup(), xtal.IdentityGroup(), latticemap.Options{
		MinVol: 1, MaxVol: 1, MaxLatticeCost: 1e-6,
	})
	c.Assert(err, IsNil)

	_, ok := enum.Next()
	c.Assert(ok, Equals, false)
}

func (*S) TestKBestLimitsEmittedCandidates(c *C) {
	lat := cubicLattice(c, 4.05)
	enum, err := latticemap.NewEnumerator(lat, lat, xtal.IdentityGroup(), xtal.IdentityGroup(), latticemap.Options{
		MinVol: 1, MaxVol: 2, KBest: 1,
	})
	c.Assert(err, IsNil)

	count := 0
	for {
		_, ok := enum.Next()
		if !ok {
			break
		}
		count++
	}
	c.Assert(count, Equals, 1)
}
