/*
 * canonical.go, part of gonets.
 *
 * Copyright 2025 Raul Mera <rmeraaatacademicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gonets is developed at the Universidad de Tarapaca (UTA)
 *
 */

package nets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//Canonical is the result of canonicalizing a connected periodic graph:
//the genome string, the effective periodicity, and whether the net is
//unstable (degenerate equilibrium placement).
type Canonical struct {
	Genome   string
	Dim      int
	Unstable bool
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

//Canonicalize computes the topological genome of a connected periodic
//graph: a string equal for exactly the graphs in the same isomorphism
//class (vertex relabeling, unimodular offset basis change, per-vertex
//representative shifts). The input graph is not modified. ctx is
//consulted between the major phases, so a pathological canonicalization
//can be abandoned.
func Canonicalize(ctx context.Context, g *PeriodicGraph) (*Canonical, error) {
	if g.VertexCount() == 0 || g.EdgeCount() == 0 {
		return nil, errors.WithStack(ErrNonPeriodic)
	}
	if comps := g.Components(); len(comps) != 1 {
		return nil, fmt.Errorf("Canonicalize: graph has %d components, want a connected graph", len(comps))
	}
	work := g.Clone()

	//Phase 1: effective periodicity.
	dim, err := reduceDimension(work)
	if err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	//Phase 2: barycentric placement, exact, then reduction to one
	//period of the true translation lattice. An unstable placement
	//cannot anchor the translation search, so those nets skip it.
	pos, err := equilibriumPlacement(work, dim)
	if err != nil {
		return nil, err
	}
	unstable := collapsedPlacement(pos)
	if !unstable {
		minimized, err := minimizeQuotient(work, pos, dim)
		if err != nil {
			return nil, err
		}
		if minimized != work {
			work = minimized
			pos, err = equilibriumPlacement(work, dim)
			if err != nil {
				return nil, err
			}
		}
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	//Phase 3: canonical offset basis from the placement quadratic form.
	gm := gramMatrix(work, pos, dim)
	u, gmRed := reduceGram(gm, dim)
	if err := work.TransformOffsets(u); err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	//Phase 4: minimal edge list over every start vertex and every
	//residual basis freedom.
	stab := gramStabilizer(gmRed, dim)
	var best []Edge
	for _, s := range stab {
		gs := work.Clone()
		if err := gs.TransformOffsets(s); err != nil {
			return nil, err
		}
		for start := 0; start < gs.VertexCount(); start++ {
			if err := checkCtx(ctx); err != nil {
				return nil, err
			}
			enumerateLabelings(gs, start, func(label []int, cell []Offset) {
				cand := relabeledEdges(gs, label, cell)
				if best == nil || edgeListLess(cand, best) {
					best = cand
				}
			})
		}
	}

	//Phase 5: serialization.
	return &Canonical{
		Genome:   formatGenome(dim, work.VertexCount(), best),
		Dim:      dim,
		Unstable: unstable,
	}, nil
}

//enumerateLabelings walks every canonical-candidate labeling from the
//given start vertex. Vertices are processed in label order; the edges of
//the vertex under scrutiny are sorted by (absolute cell of the far end,
//far label), and unlabeled endpoints receive the next labels in that
//order. Exact ties (same cell, both endpoints unlabeled) are branched:
//every order is tried, which keeps the result independent of the input
//labeling. emit receives the old-to-new label map and the absolute cell
//chosen for each vertex's representative.
func enumerateLabelings(g *PeriodicGraph, start int, emit func(label []int, cell []Offset)) {
	n := g.VertexCount()
	label := make([]int, n)
	for i := range label {
		label[i] = -1
	}
	order := make([]int, 0, n)
	cell := make([]Offset, n)
	label[start] = 0
	order = append(order, start)

	var rec func(i int)
	rec = func(i int) {
		if i == len(order) {
			if len(order) == n {
				emit(label, cell)
			}
			return
		}
		u := order[i]
		items := make([]labelItem, 0, len(g.adj[u]))
		for _, nb := range g.adj[u] {
			lab := label[nb.To]
			if lab < 0 {
				lab = n //sorts after every assigned label
			}
			items = append(items, labelItem{to: nb.To, abs: cell[u].Add(nb.Ofs), lab: lab})
		}
		sortItems(items)

		//Walk the sorted items, labeling new endpoints as they appear.
		//A run of items with identical keys and distinct unlabeled
		//endpoints is a genuine tie: recurse over every order.
		var walk func(j int)
		walk = func(j int) {
			if j == len(items) {
				rec(i + 1)
				return
			}
			it := items[j]
			if label[it.to] >= 0 || it.lab < n {
				walk(j + 1)
				return
			}
			//collect the tied run
			end := j + 1
			for end < len(items) && items[end].abs == it.abs && items[end].lab == n && label[items[end].to] < 0 {
				end++
			}
			run := items[j:end]
			if len(run) == 1 {
				assign(label, &order, cell, it.to, it.abs)
				walk(end)
				unassign(label, &order, it.to)
				return
			}
			//every member of the run is a distinct unlabeled vertex
			//(duplicate edges are forbidden), so each order is viable
			for _, p := range permutations(len(run)) {
				for _, idx := range p {
					assign(label, &order, cell, run[idx].to, run[idx].abs)
				}
				walk(end)
				for k := len(p) - 1; k >= 0; k-- {
					unassign(label, &order, run[p[k]].to)
				}
			}
		}
		walk(0)
	}
	rec(0)
}

func assign(label []int, order *[]int, cell []Offset, w int, abs Offset) {
	label[w] = len(*order)
	cell[w] = abs
	*order = append(*order, w)
}

func unassign(label []int, order *[]int, w int) {
	label[w] = -1
	*order = (*order)[:len(*order)-1]
}

type labelItem struct {
	to  int
	abs Offset
	lab int
}

func sortItems(items []labelItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			a, b := items[j], items[j-1]
			if a.abs.Less(b.abs) || (a.abs == b.abs && a.lab < b.lab) {
				items[j], items[j-1] = items[j-1], items[j]
			} else {
				break
			}
		}
	}
}

//permutations returns every permutation of 0..n-1 in lexicographic
//order. Ties in the labeling are rare and short; n stays tiny.
func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	var rec func(prefix []int, rest []int)
	rec = func(prefix []int, rest []int) {
		if len(rest) == 0 {
			out = append(out, append([]int(nil), prefix...))
			return
		}
		for i := range rest {
			nr := make([]int, 0, len(rest)-1)
			nr = append(nr, rest[:i]...)
			nr = append(nr, rest[i+1:]...)
			rec(append(prefix, rest[i]), nr)
		}
	}
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	rec([]int{}, base)
	return out
}

//relabeledEdges renders the graph's edges under a candidate labeling:
//offsets are taken between the chosen representatives, the edge is put
//in direct form over the new labels, and the list is sorted.
func relabeledEdges(g *PeriodicGraph, label []int, cell []Offset) []Edge {
	edges := g.Edges()
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		o := e.Ofs.Add(cell[e.From]).Sub(cell[e.To])
		out = append(out, Edge{From: label[e.From], To: label[e.To], Ofs: o}.Direct())
	}
	sortEdges(out)
	return out
}

func sortEdges(es []Edge) {
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && es[j].less(es[j-1]); j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}

func edgeListLess(a, b []Edge) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i].less(b[i])
		}
	}
	return len(a) < len(b)
}

//formatGenome writes the genome: dimension, vertex count, then each
//direct edge as 1-based endpoints followed by its offset components,
//all single-space separated.
func formatGenome(dim, n int, edges []Edge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %d", dim, n)
	for _, e := range edges {
		fmt.Fprintf(&b, " %d %d", e.From+1, e.To+1)
		for k := 0; k < dim; k++ {
			fmt.Fprintf(&b, " %d", e.Ofs[k])
		}
	}
	return b.String()
}

//ParseGenome reads a genome string back into a periodic graph. Both the
//canonical form with the vertex count ("D n u v o...") and the bare form
//without it ("D u v o...") are understood; they never collide, since one
//leaves a remainder of 1 modulo D+2 and the other a remainder of 0.
func ParseGenome(s string) (*PeriodicGraph, error) {
	fields := strings.Fields(s)
	if len(fields) < 1+1+2 {
		return nil, &ParseError{Msg: "genome too short", Line: 1}
	}
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("genome token %q is not an integer", f), Line: 1}
		}
		ints[i] = v
	}
	dim := ints[0]
	if dim < 1 || dim > 3 {
		return nil, &ParseError{Msg: fmt.Sprintf("genome dimension %d out of range", dim), Line: 1}
	}
	rest := ints[1:]
	stride := dim + 2
	n := -1
	switch len(rest) % stride {
	case 1:
		n = rest[0]
		rest = rest[1:]
	case 0:
	default:
		return nil, &ParseError{Msg: "genome edge list has a truncated record", Line: 1}
	}
	if len(rest) == 0 {
		return nil, &ParseError{Msg: "genome has no edges", Line: 1}
	}
	type rec struct {
		u, v int
		o    Offset
	}
	recs := make([]rec, 0, len(rest)/stride)
	maxV := 0
	for i := 0; i < len(rest); i += stride {
		r := rec{u: rest[i], v: rest[i+1]}
		for k := 0; k < dim; k++ {
			r.o[k] = rest[i+2+k]
		}
		if r.u < 1 || r.v < 1 {
			return nil, &ParseError{Msg: "genome vertices are 1-based", Line: 1}
		}
		if r.u == r.v && r.o.IsZero() {
			return nil, &ParseError{Msg: "genome has a zero-offset self-loop", Line: 1}
		}
		if r.u > maxV {
			maxV = r.u
		}
		if r.v > maxV {
			maxV = r.v
		}
		recs = append(recs, r)
	}
	if n < 0 {
		n = maxV
	}
	if maxV > n {
		return nil, &ParseError{Msg: fmt.Sprintf("genome names vertex %d but declares only %d", maxV, n), Line: 1}
	}
	g := NewPeriodicGraph(n, dim)
	for _, r := range recs {
		if g.HasEdge(r.u-1, r.v-1, r.o) {
			continue
		}
		if err := g.AddEdge(r.u-1, r.v-1, r.o); err != nil {
			return nil, &ParseError{Msg: err.Error(), Line: 1}
		}
	}
	return g, nil
}
