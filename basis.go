/*
 * basis.go, part of gonets.
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
	"fmt"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

//Integer lattice machinery for canonicalization: the rank of the lattice
//spanned by cycle offsets, the unimodular change of basis isolating it in
//the leading coordinates, and the reduction of the placement-derived
//Gram matrix to a canonical representative of its GL(Z) orbit.

//normalizeTreeOffsets re-chooses each vertex's cell representative along
//a BFS spanning tree so that every tree edge carries a zero offset.
//After this, every remaining offset is an element of the translation
//lattice of the net. The graph must be connected.
func normalizeTreeOffsets(g *PeriodicGraph) {
	n := g.VertexCount()
	cell := make([]Offset, n)
	visited := make([]bool, n)
	queue := []int{0}
	visited[0] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, nb := range g.adj[u] {
			if visited[nb.To] {
				continue
			}
			visited[nb.To] = true
			cell[nb.To] = cell[u].Add(nb.Ofs)
			queue = append(queue, nb.To)
		}
	}
	delta := make([]Offset, n)
	for v := range delta {
		delta[v] = cell[v].Neg()
	}
	g.OffsetRepresentatives(delta)
}

//latticeBasis returns a triangular integer basis of the lattice spanned
//by the given vectors; its length is the lattice rank.
func latticeBasis(vs []Offset) []Offset {
	cols := make([]Offset, 0, len(vs))
	for _, v := range vs {
		if !v.IsZero() {
			cols = append(cols, v)
		}
	}
	var basis []Offset
	for row := 0; row < 3; row++ {
		for {
			live := make([]int, 0, len(cols))
			for i, c := range cols {
				if c[row] != 0 {
					live = append(live, i)
				}
			}
			if len(live) == 0 {
				break
			}
			if len(live) == 1 {
				basis = append(basis, cols[live[0]])
				cols = append(cols[:live[0]], cols[live[0]+1:]...)
				break
			}
			//reduce every other live column against the smallest pivot
			p := live[0]
			for _, i := range live[1:] {
				if abs(cols[i][row]) < abs(cols[p][row]) {
					p = i
				}
			}
			for _, i := range live {
				if i == p {
					continue
				}
				q := cols[i][row] / cols[p][row]
				for k := 0; k < 3; k++ {
					cols[i][k] -= q * cols[p][k]
				}
			}
		}
	}
	return basis
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

//echelonTransform returns a unimodular T such that T applied to each
//basis vector leaves nonzero entries only in the first len(basis) rows.
func echelonTransform(basis []Offset) [3][3]int {
	r := len(basis)
	b := make([]Offset, r) //b[i] is column i, mutated in place
	copy(b, basis)
	t := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	pivotRow := 0
	for c := 0; c < r; c++ {
		for {
			live := []int{}
			for row := pivotRow; row < 3; row++ {
				if b[c][row] != 0 {
					live = append(live, row)
				}
			}
			if len(live) == 1 {
				if live[0] != pivotRow {
					swapRows(&t, live[0], pivotRow)
					for i := range b {
						b[i][live[0]], b[i][pivotRow] = b[i][pivotRow], b[i][live[0]]
					}
				}
				break
			}
			p := live[0]
			for _, row := range live[1:] {
				if abs(b[c][row]) < abs(b[c][p]) {
					p = row
				}
			}
			for _, row := range live {
				if row == p {
					continue
				}
				q := b[c][row] / b[c][p]
				addRow(&t, row, p, -q)
				for i := range b {
					b[i][row] -= q * b[i][p]
				}
			}
		}
		pivotRow++
	}
	return t
}

func swapRows(t *[3][3]int, i, j int) {
	t[i], t[j] = t[j], t[i]
}

func addRow(t *[3][3]int, dst, src, f int) {
	for k := 0; k < 3; k++ {
		t[dst][k] += f * t[src][k]
	}
}

//reduceDimension normalizes tree offsets, computes the rank of the
//cycle-offset lattice, and applies a unimodular basis change so that all
//offsets live in the first rank coordinates. The graph is mutated; the
//rank is returned. Rank zero means the structure is molecular.
func reduceDimension(g *PeriodicGraph) (int, error) {
	normalizeTreeOffsets(g)
	var cycles []Offset
	for _, e := range g.Edges() {
		cycles = append(cycles, e.Ofs)
	}
	basis := latticeBasis(cycles)
	r := len(basis)
	if r == 0 {
		return 0, errors.WithStack(ErrNonPeriodic)
	}
	if r < 3 {
		t := echelonTransform(basis)
		if err := g.TransformOffsets(t); err != nil {
			return 0, err
		}
		for _, e := range g.Edges() {
			for k := r; k < 3; k++ {
				if e.Ofs[k] != 0 {
					return 0, fmt.Errorf("reduceDimension: offset %v outside rank-%d lattice", e.Ofs, r)
				}
			}
		}
	}
	g.dim = r
	return r, nil
}

//gramMatrix accumulates the quadratic form of the equilibrium embedding:
//the sum over edges of the outer product of the fractional edge vector
//with itself. It is a labeling-invariant of the net and transforms as
//G -> U G U^T under a basis change U of the offsets.
func gramMatrix(g *PeriodicGraph, pos [][]*big.Rat, r int) [3][3]*big.Rat {
	var gm [3][3]*big.Rat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			gm[i][j] = new(big.Rat)
		}
	}
	e := make([]*big.Rat, r)
	for _, ed := range g.Edges() {
		for k := 0; k < r; k++ {
			e[k] = new(big.Rat).Sub(pos[ed.To][k], pos[ed.From][k])
			e[k].Add(e[k], big.NewRat(int64(ed.Ofs[k]), 1))
		}
		for i := 0; i < r; i++ {
			for j := 0; j < r; j++ {
				t := new(big.Rat).Mul(e[i], e[j])
				gm[i][j].Add(gm[i][j], t)
			}
		}
	}
	return gm
}

//gramKeyLess is the total order used to pick the canonical Gram
//representative: smaller trace first, then row-major lexicographic
//comparison of the entries.
func gramKeyLess(a, b [3][3]*big.Rat, r int) bool {
	ta, tb := new(big.Rat), new(big.Rat)
	for i := 0; i < r; i++ {
		ta.Add(ta, a[i][i])
		tb.Add(tb, b[i][i])
	}
	if c := ta.Cmp(tb); c != 0 {
		return c < 0
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			if c := a[i][j].Cmp(b[i][j]); c != 0 {
				return c < 0
			}
		}
	}
	return false
}

func gramEqual(a, b [3][3]*big.Rat, r int) bool {
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			if a[i][j].Cmp(b[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}

//applyGram returns S G S^T restricted to the leading r coordinates.
func applyGram(s [3][3]int, g [3][3]*big.Rat, r int) [3][3]*big.Rat {
	var tmp, out [3][3]*big.Rat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tmp[i][j] = new(big.Rat)
			out[i][j] = new(big.Rat)
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			for k := 0; k < r; k++ {
				if s[i][k] == 0 {
					continue
				}
				t := new(big.Rat).Mul(big.NewRat(int64(s[i][k]), 1), g[k][j])
				tmp[i][j].Add(tmp[i][j], t)
			}
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			for k := 0; k < r; k++ {
				if s[j][k] == 0 {
					continue
				}
				t := new(big.Rat).Mul(tmp[i][k], big.NewRat(int64(s[j][k]), 1))
				out[i][j].Add(out[i][j], t)
			}
		}
	}
	return out
}

func intMatMul(a, b [3][3]int) [3][3]int {
	var out [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

var (
	smallUniOnce  [4]sync.Once
	smallUniCache [4][][3][3]int
)

//smallUnimodular enumerates every r x r integer matrix with entries in
//{-1, 0, 1} and determinant +-1, embedded in the top-left of a 3x3
//identity. Reduced Gram matrices of nets have their improving and
//stabilizing transforms inside this set.
func smallUnimodular(r int) [][3][3]int {
	smallUniOnce[r].Do(func() {
		cells := r * r
		total := 1
		for i := 0; i < cells; i++ {
			total *= 3
		}
		var out [][3][3]int
		for code := 0; code < total; code++ {
			m := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
			c := code
			for i := 0; i < r; i++ {
				for j := 0; j < r; j++ {
					m[i][j] = c%3 - 1
					c /= 3
				}
			}
			det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
				m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
				m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
			if det == 1 || det == -1 {
				out = append(out, m)
			}
		}
		smallUniCache[r] = out
	})
	return smallUniCache[r]
}

//reduceGram descends to the minimal Gram representative reachable by
//small unimodular transforms, iterated to a fixpoint. Returns the
//accumulated transform and the reduced matrix.
func reduceGram(g [3][3]*big.Rat, r int) ([3][3]int, [3][3]*big.Rat) {
	u := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for {
		improved := false
		for _, s := range smallUnimodular(r) {
			cand := applyGram(s, g, r)
			if gramKeyLess(cand, g, r) {
				g = cand
				u = intMatMul(s, u)
				improved = true
				break
			}
		}
		if !improved {
			return u, g
		}
	}
}

//gramStabilizer returns every small unimodular transform fixing G,
//identity included. These are the residual basis freedoms the canonical
//labeling has to quotient out.
func gramStabilizer(g [3][3]*big.Rat, r int) [][3][3]int {
	var out [][3][3]int
	for _, s := range smallUnimodular(r) {
		if gramEqual(applyGram(s, g, r), g, r) {
			out = append(out, s)
		}
	}
	return out
}
