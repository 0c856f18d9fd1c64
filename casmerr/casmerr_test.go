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

package casmerr_test

import (
	"fmt"
	"testing"

	"github.com/prisms-center/CASMcode-mapping/casmerr"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type S struct{}

var _ = Suite(&S{})

func (*S) TestRecoverable(c *C) {
	recoverable := []error{
		casmerr.ErrInfeasibleAssignment,
		casmerr.ErrNoAssignmentsUnderBound,
		casmerr.ErrAtomRowAllForbidden,
		fmt.Errorf("wrapped: %w", casmerr.ErrInfeasibleAssignment),
	}
	for _, err := range recoverable {
		c.Assert(casmerr.Recoverable(err), Equals, true)
	}
}

func (*S) TestNotRecoverable(c *C) {
	notRecoverable := []error{
		casmerr.ErrInvalidInput,
		casmerr.ErrNumericalTolerance,
		fmt.Errorf("some other failure"),
		nil,
	}
	for _, err := range notRecoverable {
		c.Assert(casmerr.Recoverable(err), Equals, false)
	}
}
