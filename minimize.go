/*
 * minimize.go, part of gonets.
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
	"strings"
)

//Quotient minimization: the genome must not depend on the cell the
//structure was described in. A conventional cell holds several copies
//of the primitive one, which show up as translations mapping the
//quotient graph onto itself with a fractional shift. Those translations
//are read off the equilibrium placement: whenever shifting every vertex
//position by t permutes the vertex set (mod 1) and preserves every edge,
//t belongs to the true translation lattice and the quotient can shrink.

func ratFloor(x *big.Rat) *big.Int {
	f := new(big.Int).Div(x.Num(), x.Denom()) //big.Int.Div floors
	return f
}

//ratFrac returns x - floor(x), in [0,1).
func ratFrac(x *big.Rat) *big.Rat {
	f := ratFloor(x)
	return new(big.Rat).Sub(x, new(big.Rat).SetInt(f))
}

func fracKey(v []*big.Rat) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = ratFrac(x).RatString()
	}
	return strings.Join(parts, ",")
}

//translationPerm builds the vertex permutation induced by shifting
//every position by t (mod 1), or nil if t does not permute the
//positions or does not preserve the edges.
func translationPerm(g *PeriodicGraph, pos [][]*big.Rat, t []*big.Rat, byFrac map[string]int) []int {
	n := g.VertexCount()
	r := len(t)
	perm := make([]int, n)
	for v := 0; v < n; v++ {
		shifted := make([]*big.Rat, r)
		for k := 0; k < r; k++ {
			shifted[k] = new(big.Rat).Add(pos[v][k], t[k])
		}
		u, ok := byFrac[fracKey(shifted)]
		if !ok {
			return nil
		}
		perm[v] = u
	}
	//perm must be a bijection
	seen := make([]bool, n)
	for _, u := range perm {
		if seen[u] {
			return nil
		}
		seen[u] = true
	}
	//and an edge-preserving one: the image of (v, a, o) must be an
	//edge between the image vertices with the offset that keeps the
	//geometric vector intact
	for v := 0; v < n; v++ {
		for _, nb := range g.adj[v] {
			ok := true
			var o2 Offset
			for k := 0; k < r; k++ {
				c := new(big.Rat).Add(pos[nb.To][k], big.NewRat(int64(nb.Ofs[k]), 1))
				c.Sub(c, pos[v][k])
				c.Add(c, pos[perm[v]][k])
				c.Sub(c, pos[perm[nb.To]][k])
				if !c.IsInt() {
					ok = false
					break
				}
				o2[k] = int(c.Num().Int64())
			}
			if !ok || !g.HasEdge(perm[v], perm[nb.To], o2) {
				return nil
			}
		}
	}
	return perm
}

//minimizeQuotient shrinks the graph to one period of its true
//translation lattice. It needs the (collision-free) equilibrium
//placement; the caller skips minimization for unstable nets. Returns
//the minimized graph, or the input when it is already primitive.
func minimizeQuotient(g *PeriodicGraph, pos [][]*big.Rat, r int) (*PeriodicGraph, error) {
	n := g.VertexCount()
	if n == 1 {
		return g, nil
	}
	byFrac := make(map[string]int, n)
	for v := 0; v < n; v++ {
		key := fracKey(pos[v])
		if _, dup := byFrac[key]; dup {
			return g, nil //collapsed placement, leave it alone
		}
		byFrac[key] = v
	}

	//candidate translations: shifts carrying vertex 0 onto any other
	//vertex
	type trans struct {
		t    []*big.Rat
		perm []int
	}
	var translations []trans
	for w := 1; w < n; w++ {
		t := make([]*big.Rat, r)
		for k := 0; k < r; k++ {
			t[k] = ratFrac(new(big.Rat).Sub(pos[w][k], pos[0][k]))
		}
		if perm := translationPerm(g, pos, t, byFrac); perm != nil {
			translations = append(translations, trans{t: t, perm: perm})
		}
	}
	if len(translations) == 0 {
		return g, nil
	}

	//the enlarged translation lattice, in q-th fractions of the cell
	q := int64(1)
	for _, tr := range translations {
		for _, x := range tr.t {
			d := x.Denom().Int64()
			q = lcm(q, d)
		}
	}
	scaled := make([]Offset, 0, r+len(translations))
	for k := 0; k < r; k++ {
		var e Offset
		e[k] = int(q)
		scaled = append(scaled, e)
	}
	for _, tr := range translations {
		var e Offset
		for k := 0; k < r; k++ {
			v := new(big.Rat).Mul(tr.t[k], big.NewRat(q, 1))
			e[k] = int(v.Num().Int64())
		}
		scaled = append(scaled, e)
	}
	basis := latticeBasis(scaled)
	if len(basis) != r {
		return nil, fmt.Errorf("minimizeQuotient: translation lattice rank %d, want %d", len(basis), r)
	}
	//columns of the new basis, as rationals over the old one
	bmat := make([][]*big.Rat, r)
	for i := 0; i < r; i++ {
		bmat[i] = make([]*big.Rat, r)
		for j := 0; j < r; j++ {
			bmat[i][j] = big.NewRat(int64(basis[j][i]), q)
		}
	}
	binv, err := ratMatInverse(bmat)
	if err != nil {
		return nil, fmt.Errorf("minimizeQuotient: %v", err)
	}

	//orbit representatives under the translation group
	rep := make([]int, n)
	for v := range rep {
		rep[v] = -1
	}
	var reps []int
	newIndex := make([]int, n)
	for v := 0; v < n; v++ {
		if rep[v] >= 0 {
			continue
		}
		newIndex[v] = len(reps)
		reps = append(reps, v)
		//close the orbit of v under all found translations
		frontier := []int{v}
		rep[v] = v
		for len(frontier) > 0 {
			u := frontier[0]
			frontier = frontier[1:]
			for _, tr := range translations {
				img := tr.perm[u]
				if rep[img] < 0 {
					rep[img] = v
					newIndex[img] = newIndex[v]
					frontier = append(frontier, img)
				}
			}
		}
	}
	if len(reps) == n {
		return g, nil
	}

	//s(v) = pos[v] - pos[rep(v)], the lattice shift separating v from
	//its representative
	shift := make([][]*big.Rat, n)
	for v := 0; v < n; v++ {
		shift[v] = make([]*big.Rat, r)
		for k := 0; k < r; k++ {
			shift[v][k] = new(big.Rat).Sub(pos[v][k], pos[rep[v]][k])
		}
	}

	out := NewPeriodicGraph(len(reps), r)
	for v := 0; v < n; v++ {
		for _, nb := range g.adj[v] {
			e := Edge{From: v, To: nb.To, Ofs: nb.Ofs}
			if e.Direct() != e {
				continue
			}
			//translate the edge so it starts at rep(v); its vector in
			//the new basis must be integral
			var o Offset
			ok := true
			for k := 0; k < r; k++ {
				c := new(big.Rat)
				for j := 0; j < r; j++ {
					d := new(big.Rat).Add(shift[e.To][j], big.NewRat(int64(e.Ofs[j]), 1))
					d.Sub(d, shift[e.From][j])
					d.Mul(d, binv[k][j])
					c.Add(c, d)
				}
				if !c.IsInt() {
					ok = false
					break
				}
				o[k] = int(c.Num().Int64())
			}
			if !ok {
				return nil, fmt.Errorf("minimizeQuotient: edge vector outside the translation lattice")
			}
			from, to := newIndex[e.From], newIndex[e.To]
			ne := Edge{From: from, To: to, Ofs: o}.Direct()
			if ne.From == ne.To && ne.Ofs.IsZero() {
				return nil, fmt.Errorf("minimizeQuotient: edge collapsed to a zero loop")
			}
			if !out.HasEdge(ne.From, ne.To, ne.Ofs) {
				if err := out.AddEdge(ne.From, ne.To, ne.Ofs); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

func lcm(a, b int64) int64 {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}

//ratMatInverse inverts a small rational matrix by Gauss-Jordan.
func ratMatInverse(m [][]*big.Rat) ([][]*big.Rat, error) {
	r := len(m)
	a := make([][]*big.Rat, r)
	inv := make([][]*big.Rat, r)
	for i := 0; i < r; i++ {
		a[i] = make([]*big.Rat, r)
		inv[i] = make([]*big.Rat, r)
		for j := 0; j < r; j++ {
			a[i][j] = new(big.Rat).Set(m[i][j])
			inv[i][j] = new(big.Rat)
		}
		inv[i][i].SetInt64(1)
	}
	for col := 0; col < r; col++ {
		pivot := -1
		for row := col; row < r; row++ {
			if a[row][col].Sign() != 0 {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return nil, fmt.Errorf("singular matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]
		f := new(big.Rat).Inv(a[col][col])
		for j := 0; j < r; j++ {
			a[col][j].Mul(a[col][j], f)
			inv[col][j].Mul(inv[col][j], f)
		}
		for row := 0; row < r; row++ {
			if row == col || a[row][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(a[row][col])
			for j := 0; j < r; j++ {
				t := new(big.Rat).Mul(f, a[col][j])
				a[row][j].Sub(a[row][j], t)
				t = new(big.Rat).Mul(f, inv[col][j])
				inv[row][j].Sub(inv[row][j], t)
			}
		}
	}
	return inv, nil
}
