/*
 * crystal_test.go, part of gonets.
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

func TestNewCrystalNormalizes(t *testing.T) {
	c := NewCrystal(cubicCell(t, 5), []Atom{
		{Symbol: "C", Pos: [3]float64{1.25, -0.25, 3.0}},
	})
	require.InDelta(t, 0.25, c.Atoms[0].Pos[0], 1e-9)
	require.InDelta(t, 0.75, c.Atoms[0].Pos[1], 1e-9)
	require.InDelta(t, 0.0, c.Atoms[0].Pos[2], 1e-9)
	require.Equal(t, 1.0, c.Atoms[0].Occupancy)
}

func TestExpandSymmetry(t *testing.T) {
	cell := cubicCell(t, 6)
	inv, err := ParseSymOp("-x,-y,-z")
	require.NoError(t, err)
	cell.AddOp(inv)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Label: "C1", Pos: [3]float64{0.2, 0.0, 0.0}},
		{Symbol: "O", Label: "O1", Pos: [3]float64{0.5, 0.5, 0.5}},
	})
	e := c.ExpandSymmetry()
	//C gains an image at 0.8; O maps onto itself (0.5 -> -0.5 -> 0.5)
	require.Len(t, e.Atoms, 3)
	found := false
	for _, at := range e.Atoms {
		if at.Symbol == "C" && posEqualMod1(at.Pos, [3]float64{0.8, 0, 0}, 1e-6) {
			found = true
		}
	}
	require.True(t, found, "missing the inverted carbon image")
}

func TestExpandSymmetryKeepsDistinctElements(t *testing.T) {
	cell := cubicCell(t, 6)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Pos: [3]float64{0.1, 0, 0}},
		{Symbol: "N", Pos: [3]float64{0.1, 0, 0}},
	})
	e := c.ExpandSymmetry()
	//same position, different symbols: both stay (collision pruning is
	//a separate, later step)
	require.Len(t, e.Atoms, 2)
}

func TestCollidingAtoms(t *testing.T) {
	cell := cubicCell(t, 10)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.02, 0, 0}},  //0.2 A away
		{Symbol: "C", Pos: [3]float64{0.5, 0.5, 0.5}},
		{Symbol: "C", Pos: [3]float64{0.999, 0, 0}}, //collides through the wall
	})
	doomed := c.CollidingAtoms()
	require.Equal(t, []int{1, 3}, doomed)

	pruned, mapping := c.RemoveAtoms(doomed)
	require.Len(t, pruned.Atoms, 2)
	require.Equal(t, []int{0, -1, 1, -1}, mapping)
}

func TestEdgeLength(t *testing.T) {
	cell := cubicCell(t, 4)
	c := NewCrystal(cell, []Atom{
		{Symbol: "C", Pos: [3]float64{0, 0, 0}},
		{Symbol: "C", Pos: [3]float64{0.5, 0, 0}},
	})
	require.InDelta(t, 2.0, c.EdgeLength(0, 1, Offset{}), 1e-9)
	require.InDelta(t, 2.0, c.EdgeLength(1, 0, Offset{1, 0, 0}), 1e-9)
	require.InDelta(t, 6.0, c.EdgeLength(0, 1, Offset{1, 0, 0}), 1e-9)
}
