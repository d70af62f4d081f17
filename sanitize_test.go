/*
 * sanitize_test.go, part of gonets.
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
	"go.uber.org/zap"
)

func bigCellCrystal(t *testing.T, atoms []Atom) *Crystal {
	t.Helper()
	return NewCrystal(cubicCell(t, 20), atoms)
}

func TestRemoveAtomOnBond(t *testing.T) {
	//B and C seen from A are about 1 degree apart; the farther edge (to C)
	//has to go
	c := bigCellCrystal(t, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.075, 0, 0}},      //1.5 A
		{Symbol: "C", Pos: [3]float64{0.145, 0.0025, 0}}, //2.9 A, nearly collinear
	})
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	removed := RemoveAtomOnBond(g, c, zap.NewNop())
	require.Equal(t, 1, removed)
	require.True(t, g.HasEdge(0, 1, Offset{}))
	require.False(t, g.HasEdge(0, 2, Offset{}))
}

func TestRemoveAtomOnBondKeepsWideAngles(t *testing.T) {
	c := bigCellCrystal(t, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.075, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0, 0.075, 0}}, //90 degrees apart
	})
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	require.Equal(t, 0, RemoveAtomOnBond(g, c, zap.NewNop()))
	require.Equal(t, 2, g.EdgeCount())
}

func TestRemoveTriangles(t *testing.T) {
	//A-C spans 3.4 A and is the diagonal of the A-B-C triangle with
	//sides 1.8 and 1.6: 3.4^2 > min(9, 1.8^2+1.6^2), so it goes
	c := bigCellCrystal(t, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.09, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.17, 0, 0}},
	})
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{})) //1.8
	require.NoError(t, g.AddEdge(1, 2, Offset{})) //1.6
	require.NoError(t, g.AddEdge(0, 2, Offset{})) //3.4
	removed := RemoveTriangles(g, c, zap.NewNop())
	require.Equal(t, 1, removed)
	require.False(t, g.HasEdge(0, 2, Offset{}))
	require.True(t, g.HasEdge(0, 1, Offset{}))
	require.True(t, g.HasEdge(1, 2, Offset{}))
}

func TestRemoveTrianglesKeepsShortDiagonals(t *testing.T) {
	//equilateral-ish triangle with 1.5 A sides: nothing is long enough
	//to prune
	c := bigCellCrystal(t, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.075, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.0375, 0.065, 0}},
	})
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(1, 2, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	require.Equal(t, 0, RemoveTriangles(g, c, zap.NewNop()))
	require.Equal(t, 3, g.EdgeCount())
}

func TestFixValenceTrimsLongest(t *testing.T) {
	//a carbon with five neighbors; the farthest one loses its bond
	atoms := []Atom{{Symbol: "C", Pos: [3]float64{0, 0, 0}}}
	dirs := [][3]float64{
		{0.077, 0, 0}, {0, 0.077, 0}, {0, 0, 0.077}, {0.0545, 0.0545, 0},
		{0, 0.06, 0.06}, //the longest: 1.7 A
	}
	for _, d := range dirs {
		atoms = append(atoms, Atom{Symbol: "C", Pos: d})
	}
	c := bigCellCrystal(t, atoms)
	g := NewPeriodicGraph(6, 3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, g.AddEdge(0, i, Offset{}))
	}
	invalid := FixValence(g, c, false, true, zap.NewNop())
	require.Empty(t, invalid)
	require.Equal(t, 4, g.Degree(0))
	require.False(t, g.HasEdge(0, 5, Offset{}), "the longest bond had to go")
}

func TestFixValenceProtectsHydrogen(t *testing.T) {
	//an oxygen bonded to two H and one C: over its max of 2, but the H
	//bonds are protected, so the C bond goes even though it is shorter
	c := bigCellCrystal(t, []Atom{
		{Symbol: "O", Pos: [3]float64{0, 0, 0}},
		{Symbol: "H", Pos: [3]float64{0.049, 0, 0}},
		{Symbol: "H", Pos: [3]float64{0, 0.049, 0}},
		{Symbol: "C", Pos: [3]float64{0, 0, 0.048}},
	})
	g := NewPeriodicGraph(4, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	require.NoError(t, g.AddEdge(0, 3, Offset{}))
	FixValence(g, c, false, true, zap.NewNop())
	require.Equal(t, 2, g.Degree(0))
	require.True(t, g.HasEdge(0, 1, Offset{}))
	require.True(t, g.HasEdge(0, 2, Offset{}))
	require.False(t, g.HasEdge(0, 3, Offset{}))
}

func TestFixValenceReportOnly(t *testing.T) {
	//an isolated hydrogen is under its minimum valence; report mode
	//must flag it without touching the graph
	c := bigCellCrystal(t, []Atom{
		{Symbol: "H", Pos: [3]float64{0, 0, 0}},
		{Symbol: "Fe", Pos: [3]float64{0.5, 0.5, 0.5}}, //no valence rule
	})
	g := NewPeriodicGraph(2, 3)
	invalid := FixValence(g, c, false, false, zap.NewNop())
	require.Equal(t, []int{0}, invalid)
}

func TestFixValenceMOFMode(t *testing.T) {
	//four bonds on an oxygen: trimmed to 2 normally, kept in MOF mode
	atoms := []Atom{{Symbol: "O", Pos: [3]float64{0, 0, 0}}}
	dirs := [][3]float64{{0.07, 0, 0}, {0, 0.07, 0}, {0, 0, 0.07}, {0.05, 0.05, 0}}
	for _, d := range dirs {
		atoms = append(atoms, Atom{Symbol: "C", Pos: d})
	}
	c := bigCellCrystal(t, atoms)
	build := func() *PeriodicGraph {
		g := NewPeriodicGraph(5, 3)
		for i := 1; i <= 4; i++ {
			require.NoError(t, g.AddEdge(0, i, Offset{}))
		}
		return g
	}
	g := build()
	FixValence(g, c, false, true, zap.NewNop())
	require.Equal(t, 2, g.Degree(0))
	g = build()
	FixValence(g, c, true, true, zap.NewNop())
	require.Equal(t, 4, g.Degree(0))
}

func TestSanityCheck(t *testing.T) {
	c := bigCellCrystal(t, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.25, 0, 0}},  //5 A: too long
		{Symbol: "N", Pos: [3]float64{0.02, 0, 0}},  //0.4 A: too short
		{Symbol: "C", Pos: [3]float64{0, 0.08, 0}},  //1.6 A: fine
	})
	g := NewPeriodicGraph(4, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	require.NoError(t, g.AddEdge(0, 3, Offset{}))
	removed := SanityCheck(g, c, zap.NewNop())
	require.Equal(t, 2, removed)
	require.True(t, g.HasEdge(0, 3, Offset{}))
}

func TestRemoveHomoatomic(t *testing.T) {
	c := bigCellCrystal(t, []Atom{
		{Symbol: "Fe", Pos: [3]float64{0, 0, 0}},
		{Symbol: "Fe", Pos: [3]float64{0.12, 0, 0}},
		{Symbol: "O", Pos: [3]float64{0, 0.1, 0}},
	})
	g := NewPeriodicGraph(3, 3)
	require.NoError(t, g.AddEdge(0, 1, Offset{}))
	require.NoError(t, g.AddEdge(0, 2, Offset{}))
	removed := RemoveHomoatomic(g, c, map[string]bool{"Fe": true}, zap.NewNop())
	require.Equal(t, 1, removed)
	require.False(t, g.HasEdge(0, 1, Offset{}))
	require.True(t, g.HasEdge(0, 2, Offset{}))
}
