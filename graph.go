/*
 * graph.go, part of gonets.
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
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//Offset is the integer lattice offset of a periodic edge. For nets of
//periodicity below 3 the trailing components are zero.
type Offset [3]int

//Neg returns the negated offset.
func (o Offset) Neg() Offset {
	return Offset{-o[0], -o[1], -o[2]}
}

//Add returns o + p.
func (o Offset) Add(p Offset) Offset {
	return Offset{o[0] + p[0], o[1] + p[1], o[2] + p[2]}
}

//Sub returns o - p.
func (o Offset) Sub(p Offset) Offset {
	return Offset{o[0] - p[0], o[1] - p[1], o[2] - p[2]}
}

//IsZero reports whether all components are zero.
func (o Offset) IsZero() bool {
	return o[0] == 0 && o[1] == 0 && o[2] == 0
}

//Less is the lexicographic order on offsets.
func (o Offset) Less(p Offset) bool {
	for k := 0; k < 3; k++ {
		if o[k] != p[k] {
			return o[k] < p[k]
		}
	}
	return false
}

//Positive reports o > 0 in the lexicographic order.
func (o Offset) Positive() bool {
	return Offset{}.Less(o)
}

//Edge is a periodic edge from vertex From in cell 0 to vertex To in cell
//Ofs. (u, v, o) and (v, u, -o) denote the same undirected edge; Direct
//picks the stored representative.
type Edge struct {
	From, To int
	Ofs      Offset
}

//Direct returns the canonical orientation of the edge: From < To, or
//From == To with a lexicographically positive offset.
func (e Edge) Direct() Edge {
	if e.From > e.To || (e.From == e.To && !e.Ofs.Positive()) {
		return Edge{From: e.To, To: e.From, Ofs: e.Ofs.Neg()}
	}
	return e
}

//less orders direct edges lexicographically by (From, To, Ofs).
func (e Edge) less(f Edge) bool {
	if e.From != f.From {
		return e.From < f.From
	}
	if e.To != f.To {
		return e.To < f.To
	}
	return e.Ofs.Less(f.Ofs)
}

//Neighbor is one adjacency entry: the far vertex and the offset of the
//cell it sits in, relative to the near vertex's cell.
type Neighbor struct {
	To  int
	Ofs Offset
}

//PeriodicGraph is a finite quotient graph with an integer lattice offset
//on each edge, representing an infinite graph invariant under lattice
//translation. Vertices are indices 0..n-1; adjacency lists are kept
//sorted so iteration order is deterministic.
type PeriodicGraph struct {
	dim int
	adj [][]Neighbor
}

//NewPeriodicGraph makes an empty graph with n vertices and offsets of
//periodicity dim (1, 2 or 3).
func NewPeriodicGraph(n, dim int) *PeriodicGraph {
	if dim < 1 || dim > 3 {
		panic(fmt.Sprintf("NewPeriodicGraph: dimension %d out of range", dim))
	}
	if n < 0 {
		panic("NewPeriodicGraph: negative vertex count")
	}
	return &PeriodicGraph{dim: dim, adj: make([][]Neighbor, n)}
}

//Dim returns the periodicity of the offsets.
func (G *PeriodicGraph) Dim() int {
	return G.dim
}

//VertexCount returns the number of quotient vertices.
func (G *PeriodicGraph) VertexCount() int {
	return len(G.adj)
}

//EdgeCount returns the number of undirected periodic edges.
func (G *PeriodicGraph) EdgeCount() int {
	half := 0
	for _, l := range G.adj {
		half += len(l)
	}
	return half / 2
}

//Degree returns the degree of v, self-loops counting twice.
func (G *PeriodicGraph) Degree(v int) int {
	return len(G.adj[v])
}

//Neighbors returns a copy of v's adjacency list.
func (G *PeriodicGraph) Neighbors(v int) []Neighbor {
	ret := make([]Neighbor, len(G.adj[v]))
	copy(ret, G.adj[v])
	return ret
}

func insertNeighbor(l []Neighbor, nb Neighbor) []Neighbor {
	at := sort.Search(len(l), func(i int) bool {
		if l[i].To != nb.To {
			return l[i].To > nb.To
		}
		return !l[i].Ofs.Less(nb.Ofs)
	})
	l = append(l, Neighbor{})
	copy(l[at+1:], l[at:])
	l[at] = nb
	return l
}

func deleteNeighbor(l []Neighbor, nb Neighbor) ([]Neighbor, bool) {
	for i, have := range l {
		if have == nb {
			return append(l[:i], l[i+1:]...), true
		}
	}
	return l, false
}

//AddEdge inserts the undirected periodic edge (from, to, ofs). Self-loops
//with a zero offset and duplicate edges are rejected.
func (G *PeriodicGraph) AddEdge(from, to int, ofs Offset) error {
	n := len(G.adj)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("AddEdge: vertex out of range (%d, %d) with %d vertices", from, to, n)
	}
	if from == to && ofs.IsZero() {
		return fmt.Errorf("AddEdge: self-loop with zero offset on vertex %d", from)
	}
	if G.HasEdge(from, to, ofs) {
		return fmt.Errorf("AddEdge: duplicate edge (%d, %d, %v)", from, to, ofs)
	}
	G.adj[from] = insertNeighbor(G.adj[from], Neighbor{To: to, Ofs: ofs})
	G.adj[to] = insertNeighbor(G.adj[to], Neighbor{To: from, Ofs: ofs.Neg()})
	return nil
}

//HasEdge reports whether the edge (from, to, ofs) is present, in either
//orientation.
func (G *PeriodicGraph) HasEdge(from, to int, ofs Offset) bool {
	for _, nb := range G.adj[from] {
		if nb.To == to && nb.Ofs == ofs {
			return true
		}
	}
	return false
}

//RemoveEdge deletes the edge (from, to, ofs), matching either
//orientation. It reports whether anything was removed.
func (G *PeriodicGraph) RemoveEdge(from, to int, ofs Offset) bool {
	var ok bool
	G.adj[from], ok = deleteNeighbor(G.adj[from], Neighbor{To: to, Ofs: ofs})
	if !ok {
		return false
	}
	G.adj[to], _ = deleteNeighbor(G.adj[to], Neighbor{To: from, Ofs: ofs.Neg()})
	return true
}

//Edges returns every edge exactly once, in direct form, sorted
//lexicographically.
func (G *PeriodicGraph) Edges() []Edge {
	ret := make([]Edge, 0, G.EdgeCount())
	for v, l := range G.adj {
		for _, nb := range l {
			e := Edge{From: v, To: nb.To, Ofs: nb.Ofs}
			if e.Direct() == e {
				ret = append(ret, e)
			}
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].less(ret[j]) })
	return ret
}

//Clone returns a deep copy.
func (G *PeriodicGraph) Clone() *PeriodicGraph {
	ret := &PeriodicGraph{dim: G.dim, adj: make([][]Neighbor, len(G.adj))}
	for v, l := range G.adj {
		ret.adj[v] = make([]Neighbor, len(l))
		copy(ret.adj[v], l)
	}
	return ret
}

//Relabel renames vertices so that old vertex v becomes perm[v]. perm
//must be a permutation of 0..n-1.
func (G *PeriodicGraph) Relabel(perm []int) error {
	n := len(G.adj)
	if len(perm) != n {
		return fmt.Errorf("Relabel: permutation length %d, want %d", len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return fmt.Errorf("Relabel: not a permutation")
		}
		seen[p] = true
	}
	adj := make([][]Neighbor, n)
	for v, l := range G.adj {
		nl := make([]Neighbor, len(l))
		for i, nb := range l {
			nl[i] = Neighbor{To: perm[nb.To], Ofs: nb.Ofs}
		}
		sortNeighbors(nl)
		adj[perm[v]] = nl
	}
	G.adj = adj
	return nil
}

func sortNeighbors(l []Neighbor) {
	sort.Slice(l, func(i, j int) bool {
		if l[i].To != l[j].To {
			return l[i].To < l[j].To
		}
		return l[i].Ofs.Less(l[j].Ofs)
	})
}

//SwapAxes permutes the offset coordinates: new component i takes old
//component p[i]. The caller owns the matching lattice update M -> M P^-1.
func (G *PeriodicGraph) SwapAxes(p [3]int) error {
	seen := [3]bool{}
	for _, x := range p {
		if x < 0 || x > 2 || seen[x] {
			return fmt.Errorf("SwapAxes: %v is not an axis permutation", p)
		}
		seen[x] = true
	}
	for v, l := range G.adj {
		for i, nb := range l {
			l[i].Ofs = Offset{nb.Ofs[p[0]], nb.Ofs[p[1]], nb.Ofs[p[2]]}
		}
		sortNeighbors(G.adj[v])
	}
	return nil
}

//TransformOffsets applies a unimodular basis change to every offset:
//o -> U o. |det U| must be 1 so the transform is invertible over the
//integers.
func (G *PeriodicGraph) TransformOffsets(u [3][3]int) error {
	det := u[0][0]*(u[1][1]*u[2][2]-u[1][2]*u[2][1]) -
		u[0][1]*(u[1][0]*u[2][2]-u[1][2]*u[2][0]) +
		u[0][2]*(u[1][0]*u[2][1]-u[1][1]*u[2][0])
	if det != 1 && det != -1 {
		return fmt.Errorf("TransformOffsets: determinant %d, want +-1", det)
	}
	for v, l := range G.adj {
		for i, nb := range l {
			var no Offset
			for r := 0; r < 3; r++ {
				no[r] = u[r][0]*nb.Ofs[0] + u[r][1]*nb.Ofs[1] + u[r][2]*nb.Ofs[2]
			}
			l[i].Ofs = no
		}
		sortNeighbors(G.adj[v])
	}
	return nil
}

//OffsetRepresentatives shifts the chosen cell-0 representative of each
//vertex v by delta[v]. Every edge (v, w, o) becomes (v, w, o - delta[v] +
//delta[w]); the infinite unrolled graph is unchanged.
func (G *PeriodicGraph) OffsetRepresentatives(delta []Offset) error {
	if len(delta) != len(G.adj) {
		return fmt.Errorf("OffsetRepresentatives: %d shifts for %d vertices", len(delta), len(G.adj))
	}
	for v, l := range G.adj {
		for i, nb := range l {
			l[i].Ofs = nb.Ofs.Sub(delta[v]).Add(delta[nb.To])
		}
		sortNeighbors(G.adj[v])
	}
	return nil
}

//RemoveVertices deletes the given vertices together with their incident
//edges and compacts the indices. It returns the old-to-new mapping, with
//-1 for removed vertices.
func (G *PeriodicGraph) RemoveVertices(drop []int) []int {
	gone := make(map[int]bool, len(drop))
	for _, v := range drop {
		gone[v] = true
	}
	mapping := make([]int, len(G.adj))
	next := 0
	for v := range G.adj {
		if gone[v] {
			mapping[v] = -1
		} else {
			mapping[v] = next
			next++
		}
	}
	adj := make([][]Neighbor, next)
	for v, l := range G.adj {
		if mapping[v] < 0 {
			continue
		}
		nl := make([]Neighbor, 0, len(l))
		for _, nb := range l {
			if mapping[nb.To] < 0 {
				continue
			}
			nl = append(nl, Neighbor{To: mapping[nb.To], Ofs: nb.Ofs})
		}
		adj[mapping[v]] = nl
	}
	G.adj = adj
	return mapping
}

//Subgraph returns the graph induced on the given vertices (which keep
//their relative order) plus the old-to-new index mapping.
func (G *PeriodicGraph) Subgraph(vertices []int) (*PeriodicGraph, []int) {
	ret := G.Clone()
	keep := make(map[int]bool, len(vertices))
	for _, v := range vertices {
		keep[v] = true
	}
	drop := make([]int, 0, len(G.adj)-len(vertices))
	for v := range G.adj {
		if !keep[v] {
			drop = append(drop, v)
		}
	}
	mapping := ret.RemoveVertices(drop)
	return ret, mapping
}

//Components returns the connected components of the quotient graph,
//each as a sorted vertex list, ordered by first vertex. Connectivity of
//the quotient equals connectivity of the infinite cover per component
//(offsets never disconnect a quotient-connected piece).
func (G *PeriodicGraph) Components() [][]int {
	und := simple.NewUndirectedGraph()
	for v := range G.adj {
		und.AddNode(simple.Node(v))
	}
	for v, l := range G.adj {
		for _, nb := range l {
			if v != nb.To && !und.HasEdgeBetween(int64(v), int64(nb.To)) {
				und.SetEdge(und.NewEdge(simple.Node(v), simple.Node(nb.To)))
			}
		}
	}
	comps := topo.ConnectedComponents(und)
	ret := make([][]int, 0, len(comps))
	for _, comp := range comps {
		vs := make([]int, 0, len(comp))
		for _, node := range comp {
			vs = append(vs, int(node.ID()))
		}
		sort.Ints(vs)
		ret = append(ret, vs)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}
