/*
 * placement.go, part of gonets.
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
)

//Equilibrium placement puts every vertex at the barycenter of its
//neighbors (offsets included), with vertex 0 pinned at the origin. For a
//connected graph the reduced Laplacian is invertible, so the placement
//exists, is unique, and is rational. Everything here is exact big.Rat
//arithmetic: the genome must be byte-identical across platforms, so
//floats are banned from this path.

//equilibriumPlacement returns one dim-vector of rationals per vertex.
func equilibriumPlacement(g *PeriodicGraph, dim int) ([][]*big.Rat, error) {
	n := g.VertexCount()
	pos := make([][]*big.Rat, n)
	for v := range pos {
		pos[v] = ratZeroVec(dim)
	}
	if n == 1 {
		return pos, nil
	}
	//Rows and columns 0..n-2 stand for vertices 1..n-1.
	m := n - 1
	a := make([][]*big.Rat, m)
	b := make([][]*big.Rat, m)
	for i := 0; i < m; i++ {
		a[i] = ratZeroVec(m)
		b[i] = ratZeroVec(dim)
	}
	for v := 1; v < n; v++ {
		i := v - 1
		for _, nb := range g.adj[v] {
			a[i][i].Add(a[i][i], big.NewRat(1, 1))
			if nb.To != 0 {
				a[i][nb.To-1].Sub(a[i][nb.To-1], big.NewRat(1, 1))
			}
			for k := 0; k < dim; k++ {
				b[i][k].Add(b[i][k], big.NewRat(int64(nb.Ofs[k]), 1))
			}
		}
	}
	x, err := ratSolve(a, b)
	if err != nil {
		return nil, fmt.Errorf("equilibriumPlacement: %v (is the graph connected?)", err)
	}
	for v := 1; v < n; v++ {
		pos[v] = x[v-1]
	}
	return pos, nil
}

//ratSolve solves a X = b by Gaussian elimination over the rationals.
//a is m x m, b is m x k; both are consumed.
func ratSolve(a, b [][]*big.Rat) ([][]*big.Rat, error) {
	m := len(a)
	k := 0
	if m > 0 {
		k = len(b[0])
	}
	for col := 0; col < m; col++ {
		pivot := -1
		for row := col; row < m; row++ {
			if a[row][col].Sign() != 0 {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		inv := new(big.Rat).Inv(a[col][col])
		for j := col; j < m; j++ {
			a[col][j].Mul(a[col][j], inv)
		}
		for j := 0; j < k; j++ {
			b[col][j].Mul(b[col][j], inv)
		}
		for row := 0; row < m; row++ {
			if row == col || a[row][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(a[row][col])
			for j := col; j < m; j++ {
				t := new(big.Rat).Mul(f, a[col][j])
				a[row][j].Sub(a[row][j], t)
			}
			for j := 0; j < k; j++ {
				t := new(big.Rat).Mul(f, b[col][j])
				b[row][j].Sub(b[row][j], t)
			}
		}
	}
	return b, nil
}

//collapsedPlacement reports whether two distinct vertices landed on the
//same point of the torus, i.e. their positions differ by an integer
//vector. Such nets are "unstable": the barycentric embedding is
//degenerate and canonical forms relying on it need care.
func collapsedPlacement(pos [][]*big.Rat) bool {
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			if ratVecCongruent(pos[i], pos[j]) {
				return true
			}
		}
	}
	return false
}

func ratVecCongruent(a, b []*big.Rat) bool {
	for k := range a {
		d := new(big.Rat).Sub(a[k], b[k])
		if !d.IsInt() {
			return false
		}
	}
	return true
}

//BarycentricPlacement returns the equilibrium embedding of a connected
//periodic graph as float fractional coordinates, one slice of Dim()
//values per vertex, vertex 0 at the origin. This is the placement
//canonicalization works with, exposed for visualization.
func BarycentricPlacement(g *PeriodicGraph) ([][]float64, error) {
	pos, err := equilibriumPlacement(g, g.Dim())
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(pos))
	for v, p := range pos {
		out[v] = make([]float64, len(p))
		for k, r := range p {
			out[v][k], _ = r.Float64()
		}
	}
	return out, nil
}

func ratZeroVec(n int) []*big.Rat {
	ret := make([]*big.Rat, n)
	for i := range ret {
		ret[i] = new(big.Rat)
	}
	return ret
}
