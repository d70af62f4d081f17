/*
 * graph_test.go, part of gonets.
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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectEdgeForm(t *testing.T) {
	e := Edge{From: 2, To: 1, Ofs: Offset{1, 0, 0}}
	d := e.Direct()
	require.Equal(t, Edge{From: 1, To: 2, Ofs: Offset{-1, 0, 0}}, d)
	require.Equal(t, d, d.Direct(), "direct form must be a fixpoint")

	//self-loops point in the lexicographically positive direction
	l := Edge{From: 0, To: 0, Ofs: Offset{0, -1, 2}}
	require.Equal(t, Edge{From: 0, To: 0, Ofs: Offset{0, 1, -2}}, l.Direct())
}

func TestAddEdgeValidation(t *testing.T) {
	g := NewPeriodicGraph(2, 3)
	require.Error(t, g.AddEdge(0, 0, Offset{}), "zero self-loop")
	require.Error(t, g.AddEdge(0, 5, Offset{}), "out of range")
	require.NoError(t, g.AddEdge(0, 1, Offset{1, 0, 0}))
	require.Error(t, g.AddEdge(0, 1, Offset{1, 0, 0}), "duplicate")
	require.Error(t, g.AddEdge(1, 0, Offset{-1, 0, 0}), "duplicate, reversed orientation")
	require.True(t, g.HasEdge(1, 0, Offset{-1, 0, 0}))
	require.Equal(t, 1, g.EdgeCount())
}

func TestRemoveEdgeEitherOrientation(t *testing.T) {
	g := NewPeriodicGraph(2, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{0, 1, 0}))
	require.True(t, g.RemoveEdge(1, 0, Offset{0, -1, 0}))
	require.Equal(t, 0, g.EdgeCount())
	require.False(t, g.RemoveEdge(1, 0, Offset{0, -1, 0}))
}

func buildDia(t *testing.T) *PeriodicGraph {
	t.Helper()
	g := NewPeriodicGraph(2, 3)
	for _, o := range []Offset{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}} {
		require.NoError(t, g.AddEdge(0, 1, o))
	}
	return g
}

func TestEdgesSerializationRoundTrip(t *testing.T) {
	g := buildDia(t)
	edges := g.Edges()
	require.Len(t, edges, 4)
	rebuilt := BuildGraph(g.VertexCount(), edges)
	require.Equal(t, edges, rebuilt.Edges())
}

func TestSelfLoopDegree(t *testing.T) {
	g := NewPeriodicGraph(1, 3)
	require.NoError(t, g.AddEdge(0, 0, Offset{1, 0, 0}))
	require.Equal(t, 2, g.Degree(0), "a loop contributes both half-edges")
	require.Len(t, g.Edges(), 1)
}

func TestRelabel(t *testing.T) {
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{1, 0, 0}))
	require.NoError(t, g.AddEdge(1, 2, Offset{0, 1, 0}))
	require.NoError(t, g.Relabel([]int{2, 0, 1}))
	require.True(t, g.HasEdge(2, 0, Offset{1, 0, 0}))
	require.True(t, g.HasEdge(0, 1, Offset{0, 1, 0}))
	require.Error(t, g.Relabel([]int{0, 0, 1}))
}

func TestSwapAxes(t *testing.T) {
	g := NewPeriodicGraph(1, 3)
	require.NoError(t, g.AddEdge(0, 0, Offset{1, 2, 3}))
	require.NoError(t, g.SwapAxes([3]int{2, 0, 1}))
	require.True(t, g.HasEdge(0, 0, Offset{3, 1, 2}))
	require.Error(t, g.SwapAxes([3]int{0, 0, 1}))
}

func TestOffsetRepresentatives(t *testing.T) {
	g := NewPeriodicGraph(2, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{0, 0, 0}))
	require.NoError(t, g.AddEdge(0, 1, Offset{1, 0, 0}))
	//move vertex 1's representative by (1,0,0): edges (0,1,o) gain
	//delta on the target side
	require.NoError(t, g.OffsetRepresentatives([]Offset{{}, {1, 0, 0}}))
	require.True(t, g.HasEdge(0, 1, Offset{1, 0, 0}))
	require.True(t, g.HasEdge(0, 1, Offset{2, 0, 0}))
	//and the reverse orientation agrees
	require.True(t, g.HasEdge(1, 0, Offset{-1, 0, 0}))
}

func TestOffsetRepresentativesSourceSide(t *testing.T) {
	g := NewPeriodicGraph(2, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{0, 0, 0}))
	//moving vertex 0's representative by delta turns (0,1,o) into
	//(0,1,o-delta)
	require.NoError(t, g.OffsetRepresentatives([]Offset{{0, 0, 1}, {}}))
	require.True(t, g.HasEdge(0, 1, Offset{0, 0, -1}))
}

func TestRemoveVerticesMapping(t *testing.T) {
	g := NewPeriodicGraph(4, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{1, 0, 0}))
	require.NoError(t, g.AddEdge(1, 2, Offset{0, 1, 0}))
	require.NoError(t, g.AddEdge(2, 3, Offset{0, 0, 1}))
	mapping := g.RemoveVertices([]int{1})
	require.Equal(t, []int{0, -1, 1, 2}, mapping)
	require.Equal(t, 3, g.VertexCount())
	require.Equal(t, 1, g.EdgeCount(), "edges touching the removed vertex are gone")
	require.True(t, g.HasEdge(1, 2, Offset{0, 0, 1}))
}

func TestComponentsAndSubgraph(t *testing.T) {
	g := NewPeriodicGraph(4, 3)
	require.NoError(t, g.AddEdge(0, 2, Offset{1, 0, 0}))
	require.NoError(t, g.AddEdge(1, 3, Offset{0, 1, 0}))
	comps := g.Components()
	require.Len(t, comps, 2)
	require.Equal(t, []int{0, 2}, comps[0])
	require.Equal(t, []int{1, 3}, comps[1])

	sub, mapping := g.Subgraph(comps[1])
	require.Equal(t, 2, sub.VertexCount())
	require.Equal(t, -1, mapping[0])
	require.True(t, sub.HasEdge(mapping[1], mapping[3], Offset{0, 1, 0}))
}

func TestTransformOffsets(t *testing.T) {
	g := NewPeriodicGraph(1, 3)
	require.NoError(t, g.AddEdge(0, 0, Offset{1, 0, 0}))
	require.NoError(t, g.AddEdge(0, 0, Offset{0, 1, 0}))
	u := [3][3]int{{1, 1, 0}, {0, 1, 0}, {0, 0, 1}}
	require.NoError(t, g.TransformOffsets(u))
	require.True(t, g.HasEdge(0, 0, Offset{1, 0, 0}))
	require.True(t, g.HasEdge(0, 0, Offset{1, 1, 0}))
	//non-unimodular transforms are refused
	require.Error(t, g.TransformOffsets([3][3]int{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}))
}
