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

package murty_test

import (
	"math"
	"testing"

	"github.com/prisms-center/CASMcode-mapping/murty"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type S struct{}

var _ = Suite(&S{})

const infinity = math.MaxFloat64 / 4
const tol = 1e-9

func (*S) TestKBestAscendingAndDistinct(c *C) {
	cost := [][]float64{
		{1, 2, 3},
		{2, 1, 3},
		{3, 3, 1},
	}
	enum, err := murty.NewEnumerator(cost, infinity, tol, infinity, 0)
	c.Assert(err, IsNil)

	var solutions []murty.Solution
	for {
		sol, ok := enum.Next()
		if !ok {
			break
		}
		solutions = append(solutions, sol)
	}

	// 3x3 has 6 permutations total.
	c.Assert(solutions, HasLen, 6)

	seen := make(map[string]bool)
	for i, sol := range solutions {
		key := ""
		for _, v := range sol.Assignment {
			key += string(rune('0' + v))
		}
		c.Assert(seen[key], Equals, false, Commentf("duplicate assignment %v at rank %d", sol.Assignment, i))
		seen[key] = true
		if i > 0 {
			c.Assert(sol.Cost >= solutions[i-1].Cost-tol, Equals, true)
		}
	}
	c.Assert(solutions[0].Cost, Equals, 3.0) // identity: 1+1+1
}

func (*S) TestKBestRespectsLimit(c *C) {
	cost := [][]float64{
		{1, 2, 3},
		{2, 1, 3},
		{3, 3, 1},
	}
	enum, err := murty.NewEnumerator(cost, infinity, tol, infinity, 2)
	c.Assert(err, IsNil)

	count := 0
	for {
		_, ok := enum.Next()
		if !ok {
			break
		}
		count++
	}
	c.Assert(count, Equals, 2)
}

func (*S) TestRootInfeasible(c *C) {
	cost := [][]float64{
		{infinity, infinity},
		{infinity, infinity},
	}
	_, err := murty.NewEnumerator(cost, infinity, tol, infinity, 0)
	c.Assert(err, NotNil)
}

func (*S) TestRootOverMaxCost(c *C) {
	cost := [][]float64{
		{10, infinity},
		{infinity, 10},
	}
	_, err := murty.NewEnumerator(cost, infinity, tol, 5, 0)
	c.Assert(err, ErrorMatches, ".*no assignments under bound.*")
	c.Assert(err.Error() != "", Equals, true)
}

func (*S) TestMaxCostStopsEnumeration(c *C) {
	cost := [][]float64{
		{1, 2, 3},
		{2, 1, 3},
		{3, 3, 1},
	}
	enum, err := murty.NewEnumerator(cost, infinity, tol, 3, 0)
	c.Assert(err, IsNil)

	sol, ok := enum.Next()
	c.Assert(ok, Equals, true)
	c.Assert(sol.Cost, Equals, 3.0)

	_, ok = enum.Next()
	c.Assert(ok, Equals, false)
}
