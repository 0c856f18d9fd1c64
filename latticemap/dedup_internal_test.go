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

package latticemap

import (
	"testing"

	"github.com/prisms-center/CASMcode-mapping/xtal"

	. "gopkg.in/check.v1"
)

func TestInternal(t *testing.T) { TestingT(t) }

type internalS struct{}

var _ = Suite(&internalS{})

// cyclicZGroup returns the order-4 rotation subgroup about z, a genuine
// (if partial) cubic point group: identity, 90, 180 and 270 degrees.
func cyclicZGroup() xtal.FactorGroup {
	r90 := xtal.Mat3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}
	r180 := xtal.Mat3{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}
	r270 := xtal.Mat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	return xtal.FactorGroup{Ops: []xtal.SymOp{
		xtal.Identity,
		{Point: r90},
		{Point: r180},
		{Point: r270},
	}}
}

// TestDedupeBySymmetryCollapsesRotationOrbit checks that two supercells
// related by a 90-degree rotation about z collapse to one representative,
// while a third supercell whose z-axis scaling the rotation cannot touch
// survives as its own class. T1 = diag(2,1,1) and T2 = {{0,2,0},{-1,0,0},
// {0,0,1}} are constructed so that prim.L*T2 is exactly the 90-degree
// rotation of prim.L*T1 (both volume 2); T3 = diag(1,1,2) scales the axis
// the rotation fixes and is not in their orbit.
func (*internalS) TestDedupeBySymmetryCollapsesRotationOrbit(c *C) {
	prim, err := xtal.NewLattice(xtal.Mat3{{4.05, 0, 0}, {0, 4.05, 0}, {0, 0, 4.05}}, 1e-6)
	c.Assert(err, IsNil)

	identity := xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	t1 := xtal.IMat3{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	t2 := xtal.IMat3{{0, 2, 0}, {-1, 0, 0}, {0, 0, 1}}
	t3 := xtal.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}}

	c.Assert(t2.Det(), Equals, t1.Det())

	candidates := []LatticeMapping{
		{T: t1, N: identity, Cost: 0.01},
		{T: t2, N: identity, Cost: 0.02},
		{T: t3, N: identity, Cost: 0.03},
	}

	group := cyclicZGroup()
	deduped := dedupeBySymmetry(candidates, prim, group, xtal.IdentityGroup())

	c.Assert(deduped, HasLen, 2, Commentf("got %+v", deduped))
	c.Assert(deduped[0].T, Equals, t1)
	c.Assert(deduped[1].T, Equals, t3)
}
