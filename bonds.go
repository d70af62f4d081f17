/*
 * bonds.go, part of gonets.
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
	"math"

	"github.com/pkg/errors"
)

const (
	//Below this distance (A) two atoms are colliding, not bonding.
	minBondDist = 0.4
	//Van der Waals radii of metals are widened by this factor when
	//metal widening is on. Coordination bonds are longer than the sum
	//of plain radii suggests.
	metalWiden = 1.5
	//Declared bond distances are matched against image distances
	//within this tolerance (A).
	inputBondTol = 0.1
)

//GuessBonds derives candidate edges from geometry: for every atom pair
//(i <= j) and every lattice offset k in {-1,0,1}^3 it emits an edge when
//the Cartesian distance d satisfies minBondDist < d < cutoff*(ri+rj),
//with ri, rj the van der Waals radii. Hydrogen never bonds hydrogen.
//Returns edges in direct form.
func GuessBonds(c *Crystal, cutoff float64, widen bool) ([]Edge, error) {
	n := len(c.Atoms)
	radii := make([]float64, n)
	for i, at := range c.Atoms {
		r := symbolVdwrad[at.Symbol]
		if r == 0 {
			return nil, errors.Wrapf(ErrMissingAtomInformation,
				"GuessBonds: no van der Waals radius for %q (atom %d)", at.Symbol, i)
		}
		if widen && symbolMetal[at.Symbol] {
			r *= metalWiden
		}
		radii[i] = r
	}
	var ret []Edge
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if c.Atoms[i].Symbol == "H" && c.Atoms[j].Symbol == "H" {
				continue
			}
			rmax := cutoff * (radii[i] + radii[j])
			for kx := -1; kx <= 1; kx++ {
				for ky := -1; ky <= 1; ky++ {
					for kz := -1; kz <= 1; kz++ {
						o := Offset{kx, ky, kz}
						if i == j && !o.Positive() {
							//self image, or the mirror of a loop already taken
							continue
						}
						d := c.EdgeLength(i, j, o)
						if d > minBondDist && d < rmax {
							ret = append(ret, Edge{From: i, To: j, Ofs: o}.Direct())
						}
					}
				}
			}
		}
	}
	return ret, nil
}

//InputBondEdges expands the bonds declared in the input into concrete
//edges. A declared bond between two labels applies to every image pair
//whose distance matches the declared one; with no declared distance the
//minimum image is taken.
func InputBondEdges(c *Crystal) ([]Edge, error) {
	if len(c.Bonds) == 0 {
		return nil, errors.WithStack(ErrBondingUnavailable)
	}
	byLabel := make(map[string][]int)
	for i, at := range c.Atoms {
		byLabel[at.Label] = append(byLabel[at.Label], i)
	}
	seen := make(map[Edge]bool)
	var ret []Edge
	for _, b := range c.Bonds {
		for _, i := range byLabel[b.Label1] {
			for _, j := range byLabel[b.Label2] {
				if b.Dist == 0 {
					_, k := c.Cell.MinImage(c.Atoms[i].Pos, c.Atoms[j].Pos)
					o := Offset{k[0], k[1], k[2]}
					if i == j && o.IsZero() {
						continue
					}
					e := Edge{From: i, To: j, Ofs: o}.Direct()
					if !seen[e] {
						seen[e] = true
						ret = append(ret, e)
					}
					continue
				}
				for kx := -1; kx <= 1; kx++ {
					for ky := -1; ky <= 1; ky++ {
						for kz := -1; kz <= 1; kz++ {
							o := Offset{kx, ky, kz}
							if i == j && !o.Positive() {
								continue
							}
							if math.Abs(c.EdgeLength(i, j, o)-b.Dist) < inputBondTol {
								e := Edge{From: i, To: j, Ofs: o}.Direct()
								if !seen[e] {
									seen[e] = true
									ret = append(ret, e)
								}
							}
						}
					}
				}
			}
		}
	}
	if len(ret) == 0 {
		return nil, errors.Wrap(ErrBondingUnavailable, "InputBondEdges: declared bonds matched no atom pair")
	}
	return ret, nil
}

//BuildGraph collects edges into a periodic graph over n vertices,
//silently merging duplicates.
func BuildGraph(n int, edges []Edge) *PeriodicGraph {
	g := NewPeriodicGraph(n, 3)
	for _, e := range edges {
		e = e.Direct()
		if e.From == e.To && e.Ofs.IsZero() {
			continue
		}
		if !g.HasEdge(e.From, e.To, e.Ofs) {
			g.AddEdge(e.From, e.To, e.Ofs)
		}
	}
	return g
}
