/*
 * cell_test.go, part of gonets.
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
	"testing"

	"github.com/stretchr/testify/require"
)

func cubicCell(t *testing.T, a float64) *Cell {
	t.Helper()
	c, err := NewCell(a, a, a, 90, 90, 90)
	require.NoError(t, err)
	return c
}

func TestNewCellCubic(t *testing.T) {
	c := cubicCell(t, 4)
	m := c.Matrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 4
			}
			require.InDelta(t, want, m.At(i, j), 1e-9)
		}
	}
	require.InDelta(t, 64, c.Volume(), 1e-9)
}

func TestNewCellTriclinic(t *testing.T) {
	c, err := NewCell(5, 6, 7, 80, 95, 110)
	require.NoError(t, err)
	//column lengths must reproduce the cell parameters
	m := c.Matrix()
	for j, want := range []float64{5, 6, 7} {
		l := math.Hypot(math.Hypot(m.At(0, j), m.At(1, j)), m.At(2, j))
		require.InDelta(t, want, l, 1e-9)
	}
	require.Greater(t, c.Volume(), 0.0)
}

func TestNewCellRejectsBadParameters(t *testing.T) {
	_, err := NewCell(-1, 2, 3, 90, 90, 90)
	require.Error(t, err)
	_, err = NewCell(1, 2, 3, 10, 10, 170)
	require.Error(t, err)
}

func TestMinImageAcrossBoundary(t *testing.T) {
	c := cubicCell(t, 10)
	//0.95 and 0.05 are 1 A apart through the cell wall
	d, k := c.MinImage([3]float64{0.95, 0, 0}, [3]float64{0.05, 0, 0})
	require.InDelta(t, 1.0, d, 1e-9)
	require.Equal(t, [3]int{1, 0, 0}, k)

	d = c.MinImageDistance([3]float64{0.2, 0.2, 0.2}, [3]float64{0.3, 0.2, 0.2})
	require.InDelta(t, 1.0, d, 1e-9)
}

func TestCartFracConsistency(t *testing.T) {
	c, err := NewCell(5, 6, 7, 80, 95, 110)
	require.NoError(t, err)
	cart := c.Cart([3]float64{1, 0, 0})
	require.InDelta(t, 5, math.Hypot(math.Hypot(cart[0], cart[1]), cart[2]), 1e-9)
	require.InDelta(t, c.Norm([3]float64{0, 1, 0}), 6, 1e-9)
}

func TestCellOpsIdentityDropped(t *testing.T) {
	c := cubicCell(t, 4)
	c.AddOp(Identity())
	require.Empty(t, c.Ops())
	op, err := ParseSymOp("-x,-y,z")
	require.NoError(t, err)
	c.AddOp(op)
	require.Len(t, c.Ops(), 1)
}
