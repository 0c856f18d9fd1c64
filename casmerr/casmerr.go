//
// Copyright (c) 2025 Canonical Ltd
//
// Original implementation: Gustavo Niemeyer <niemeyer@canonical.com>
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

// Package casmerr defines the small, closed set of error kinds that cross
// package boundaries in the mapping engine. Callers test for a kind with
// errors.Is; detail is attached with fmt.Errorf's %w wrapping.
package casmerr

import "errors"

var (
	// ErrInvalidInput marks a fatal, non-recoverable request error: non-atomic
	// occupants, atom-type count mismatches, a non-positive determinant, a
	// negative tolerance, and similar malformed-request conditions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInfeasibleAssignment marks a cost matrix with no perfect matching of
	// finite cost: every assignment uses at least one forbidden cell. The
	// orchestrator recovers from this locally by skipping the offending
	// (lattice mapping, translation) pair.
	ErrInfeasibleAssignment = errors.New("infeasible assignment")

	// ErrNoAssignmentsUnderBound marks a request whose best assignment cost
	// exceeds the caller's max_cost ceiling. Recovered locally, like
	// ErrInfeasibleAssignment.
	ErrNoAssignmentsUnderBound = errors.New("no assignments under bound")

	// ErrNumericalTolerance marks a Voronoi reduction, or other iterative
	// numerical procedure, that failed to converge within its bounded
	// iteration count. This indicates a pathological tolerance setting and
	// is fatal for the query.
	ErrNumericalTolerance = errors.New("numerical tolerance not met")

	// ErrAtomRowAllForbidden marks a structure where some atom has no
	// allowed site anywhere in the prim: no mapping is possible for this
	// (lattice mapping, translation) pair. Recovered locally, like
	// ErrInfeasibleAssignment and ErrNoAssignmentsUnderBound.
	ErrAtomRowAllForbidden = errors.New("atom has no allowed site")
)

// Recoverable reports whether err is a kind the search orchestrator handles
// by skipping the offending candidate rather than aborting the query.
func Recoverable(err error) bool {
	return errors.Is(err, ErrInfeasibleAssignment) ||
		errors.Is(err, ErrNoAssignmentsUnderBound) ||
		errors.Is(err, ErrAtomRowAllForbidden)
}
