/*
 * bonds_test.go, part of gonets.
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

//diamondCrystal is the conventional diamond cell in P1: eight carbons,
//a = 3.567 A.
func diamondCrystal(t *testing.T) *Crystal {
	t.Helper()
	cell := cubicCell(t, 3.567)
	pos := [][3]float64{
		{0, 0, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0},
		{0.25, 0.25, 0.25}, {0.25, 0.75, 0.75}, {0.75, 0.25, 0.75}, {0.75, 0.75, 0.25},
	}
	atoms := make([]Atom, len(pos))
	for i, p := range pos {
		atoms[i] = Atom{Symbol: "C", Label: "C" + string(rune('1'+i)), Pos: p}
	}
	return NewCrystal(cell, atoms)
}

func TestGuessBondsDiamond(t *testing.T) {
	c := diamondCrystal(t)
	edges, err := GuessBonds(c, DefaultOptions().Cutoff(), true)
	require.NoError(t, err)
	g := BuildGraph(len(c.Atoms), edges)
	//every carbon is 4-coordinated, second neighbors excluded
	for v := 0; v < g.VertexCount(); v++ {
		require.Equal(t, 4, g.Degree(v), "carbon %d", v)
	}
	require.Equal(t, 16, g.EdgeCount())
}

func TestGuessBondsNoHydrogenPairs(t *testing.T) {
	cell := cubicCell(t, 10)
	c := NewCrystal(cell, []Atom{
		{Symbol: "H", Pos: [3]float64{0, 0, 0}},
		{Symbol: "H", Pos: [3]float64{0.08, 0, 0}}, //0.8 A apart
	})
	edges, err := GuessBonds(c, 0.55, true)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestGuessBondsTooClose(t *testing.T) {
	cell := cubicCell(t, 10)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.03, 0, 0}}, //0.3 A: collision, not bond
	})
	edges, err := GuessBonds(c, 0.55, true)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestGuessBondsMetalWidening(t *testing.T) {
	cell := cubicCell(t, 10)
	//Zn-O at 2.1 A: inside the widened cutoff, outside the plain one
	c := NewCrystal(cell, []Atom{
		{Symbol: "Zn", Pos: [3]float64{0, 0, 0}},
		{Symbol: "O", Pos: [3]float64{0.21, 0, 0}},
	})
	edges, err := GuessBonds(c, 0.55, true)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	edges, err = GuessBonds(c, 0.55, false)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestGuessBondsUnknownElement(t *testing.T) {
	cell := cubicCell(t, 10)
	c := NewCrystal(cell, []Atom{{Symbol: "Xx", Pos: [3]float64{0, 0, 0}}})
	_, err := GuessBonds(c, 0.55, true)
	require.ErrorIs(t, err, ErrMissingAtomInformation)
}

func TestInputBondEdges(t *testing.T) {
	cell := cubicCell(t, 4)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Label: "C1", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Label: "C2", Pos: [3]float64{0.5, 0, 0}},
	})
	_, err := InputBondEdges(c)
	require.ErrorIs(t, err, ErrBondingUnavailable)

	//a declared 2 A bond matches both the inside pair and the pair
	//through the cell wall
	c.Bonds = []LabelBond{{Label1: "C1", Label2: "C2", Dist: 2.0}}
	edges, err := InputBondEdges(c)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	//without a declared distance only the minimum image is taken
	c.Bonds = []LabelBond{{Label1: "C1", Label2: "C2"}}
	edges, err = InputBondEdges(c)
	require.NoError(t, err)
	require.Len(t, edges, 1)
}
