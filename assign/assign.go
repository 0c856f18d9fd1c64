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

// Package assign solves the linear assignment problem on a square cost
// matrix: find the row-to-column bijection that minimizes the sum of
// selected cell costs. Rows are prim sites, columns are child atoms
// (including synthetic vacancy columns); a cell cost of Infinity marks a
// forbidden pairing.
//
// This is an implementation of https://en.wikipedia.org/wiki/Hungarian_algorithm,
// O(n^3), adapted from a generic edit-distance assignment solver to operate
// directly on a float64 cost matrix with an explicit infinity sentinel.
package assign

import (
	"fmt"

	"github.com/prisms-center/CASMcode-mapping/casmerr"
)

// Result is the outcome of a successful Solve: the total cost of the
// optimal matching and, for each row, the column it was matched to.
type Result struct {
	Cost       float64
	Assignment []int // Assignment[row] = col
}

// Solve finds the minimum-cost perfect matching on the square cost matrix
// cost. Entries equal to (or above) infinity are forbidden pairings. tol
// classifies two costs as equal when their difference is within tol,
// which also makes the solver's tie-breaking (lowest column index wins)
// deterministic for downstream deduplication, per spec.md §4.A.
//
// Solve fails with casmerr.ErrInfeasibleAssignment when every perfect
// matching includes at least one forbidden cell, i.e. the optimal cost is
// at or above infinity.
func Solve(cost [][]float64, infinity, tol float64) (Result, error) {
	n := len(cost)
	for i, row := range cost {
		if len(row) != n {
			return Result{}, fmt.Errorf("%w: assign: cost matrix must be square, row %d has %d columns, want %d",
				casmerr.ErrInvalidInput, i, len(row), n)
		}
	}
	if n == 0 {
		return Result{Cost: 0, Assignment: nil}, nil
	}

	assignment := optimalAssignment(cost, infinity, tol)

	total := 0.0
	for row, col := range assignment {
		c := cost[row][col]
		if c >= infinity-tol {
			return Result{}, fmt.Errorf("%w: no perfect matching avoids every forbidden cell", casmerr.ErrInfeasibleAssignment)
		}
		total += c
	}
	return Result{Cost: total, Assignment: assignment}, nil
}

// optimalAssignment returns a slice where result[row] = col is the optimal
// assignment for the square cost matrix, using the Jonker-Volgenant-style
// shortest augmenting path formulation of the Hungarian algorithm.
//
// The augmenting path search works by taking a partial match between row
// and column nodes (colRow), which is optimal from a cost perspective but
// not yet complete, and finding the next best option with additional
// nodes. The iteration works by taking an arbitrary unassigned row node
// and finding the best column node to add to the path, which may already
// be assigned to a row node, which will need a new best column node, and
// so on, until we find an unassigned column node. This process creates a
// trail of column nodes (colTrail) that are all "flipped" at the end, to
// reflect these reassignments. The process then repeats until we have a
// complete matching for all nodes at the best total cost.
//
// The process of finding this path is similar to Dijkstra's algorithm for
// finding the shortest path in a graph, where we explore all possible
// edges from the current row node and then choose the edge with the
// minimum slack to extend the path.
func optimalAssignment(cost [][]float64, infinity, tol float64) []int {
	// The algorithm uses n+1 sized slices and a marker value at n to
	// simplify the logic.
	n := len(cost)

	// rowCost[i] and colCost[j] are partial costs for row and column
	// nodes. They maintain "dual feasibility": rowCost[i]+colCost[j] <=
	// cost[i][j]. Edges where rowCost[i]+colCost[j] == cost[i][j] are
	// considered "tight", meaning there is no slack to be removed, and
	// form the equality subgraph.
	rowCost := make([]float64, n+1)
	colCost := make([]float64, n+1)

	// colRow[j] = i stores the row node i matched with column node j. A
	// value of n means column node j is unmatched.
	colRow := make([]int, n+1)
	for j := range colRow {
		colRow[j] = n
	}

	// minSlack[j] stores the minimum slack for column node j: the
	// difference between cost[i][j] and the sum of the partial costs.
	minSlack := make([]float64, n+1)

	// colTrail[j] stores the previous column node in the alternating path
	// for column node j, used to flip the matches along the trail when an
	// augmenting path is found.
	colTrail := make([]int, n+1)

	// visitedCol[j] marks column nodes already in the trail.
	visitedCol := make([]bool, n+1)

	// Main loop: find a good column for each row node i.
	for i := 0; i < n; i++ {
		// Start search for an augmenting path starting at row node i. We
		// use a dummy column node n to simplify the algorithm.
		colRow[n] = i
		currentCol := n

		for j := 0; j <= n; j++ {
			minSlack[j] = infinity
			colTrail[j] = n
			visitedCol[j] = false
		}

		// The loop continues until an unmatched column is found, which
		// then extends the path.
		for colRow[currentCol] != n {
			visitedCol[currentCol] = true
			currentRow := colRow[currentCol]
			delta := infinity
			nextCol := 0

			// Find the edge with the minimum slack to an unvisited
			// column node.
			for j := 0; j < n; j++ {
				if !visitedCol[j] {
					c := cost[currentRow][j]
					slack := c - rowCost[currentRow] - colCost[j]
					if slack < minSlack[j]-tol {
						minSlack[j] = slack
						colTrail[j] = currentCol
					}
					if minSlack[j] < delta-tol {
						delta = minSlack[j]
						nextCol = j
					}
				}
			}

			// Update partial costs using delta. This makes at least one
			// new edge "tight" (zero slack), allowing the alternating
			// path to be extended.
			for j := 0; j <= n; j++ {
				if visitedCol[j] {
					i := colRow[j]
					rowCost[i] += delta
					colCost[j] -= delta
				} else {
					minSlack[j] -= delta
				}
			}

			// The next column node is one of the ones that just became
			// tight, preferring the lowest index among ties (see the
			// strict '<' comparisons above), which keeps the solver
			// deterministic.
			currentCol = nextCol
		}

		// An augmenting path was found, so fix the mapping by flipping
		// the edges along this path.
		for currentCol != n {
			prevCol := colTrail[currentCol]
			colRow[currentCol] = colRow[prevCol]
			currentCol = prevCol
		}
	}

	// result[row] = col; colRow[j] = i already stores this inverted, so
	// invert it back once.
	result := make([]int, n)
	for j := 0; j < n; j++ {
		result[colRow[j]] = j
	}
	return result
}
