/*
 * cell.go, part of gonets.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

const deg2rad = math.Pi / 180.0

//Cell is a crystallographic unit cell: the 3x3 matrix whose columns are
//the lattice basis vectors, the list of equivalent positions of the space
//group (identity excluded, it is implicit) and, when known, the Hall
//number of the group.
type Cell struct {
	m    *mat.Dense //column-major lattice vectors, det > 0
	ops  []SymOp
	hall int
}

//NewCell builds a Cell from the cell parameters: lengths in A, angles in
//degrees. The resulting matrix follows the usual crystallographic
//convention (a along x, b in the xy plane).
func NewCell(a, b, c, alpha, beta, gamma float64) (*Cell, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, fmt.Errorf("NewCell: nonpositive cell length (%g, %g, %g)", a, b, c)
	}
	ca := math.Cos(alpha * deg2rad)
	cb := math.Cos(beta * deg2rad)
	cg := math.Cos(gamma * deg2rad)
	sg := math.Sin(gamma * deg2rad)
	if sg == 0 {
		return nil, fmt.Errorf("NewCell: degenerate gamma angle %g", gamma)
	}
	cz := (ca - cb*cg) / sg
	s := 1 - cb*cb - cz*cz
	if s <= 0 {
		return nil, fmt.Errorf("NewCell: cell angles (%g, %g, %g) do not close a cell", alpha, beta, gamma)
	}
	m := mat.NewDense(3, 3, []float64{
		a, b * cg, c * cb,
		0, b * sg, c * cz,
		0, 0, c * math.Sqrt(s),
	})
	return NewCellFromMatrix(m)
}

//NewCellFromMatrix builds a Cell from an explicit lattice matrix, whose
//columns are the lattice vectors. The determinant must be positive.
func NewCellFromMatrix(m *mat.Dense) (*Cell, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return nil, fmt.Errorf("NewCellFromMatrix: need a 3x3 matrix, got %dx%d", r, c)
	}
	if det := mat.Det(m); det <= 0 {
		return nil, fmt.Errorf("NewCellFromMatrix: cell determinant %g is not positive", det)
	}
	ret := &Cell{m: mat.DenseCopyOf(m)}
	return ret, nil
}

//Matrix returns a copy of the lattice matrix.
func (C *Cell) Matrix() *mat.Dense {
	return mat.DenseCopyOf(C.m)
}

//Volume returns the cell volume in A^3.
func (C *Cell) Volume() float64 {
	return mat.Det(C.m)
}

//Hall returns the space-group number stored for the cell, 0 if unknown.
//ReadCIF stores the International Tables number here; no conversion to
//a Hall number is made.
func (C *Cell) Hall() int {
	return C.hall
}

//SetHall stores the Hall number for the cell.
func (C *Cell) SetHall(h int) {
	C.hall = h
}

//Ops returns the equivalent positions of the cell. The identity is not
//in the list.
func (C *Cell) Ops() []SymOp {
	return C.ops
}

//AddOp appends an equivalent position, silently dropping identities.
func (C *Cell) AddOp(op SymOp) {
	if op.IsIdentity() {
		return
	}
	C.ops = append(C.ops, op)
}

//Cart converts a fractional position to Cartesian coordinates.
func (C *Cell) Cart(frac [3]float64) [3]float64 {
	var ret [3]float64
	for i := 0; i < 3; i++ {
		ret[i] = C.m.At(i, 0)*frac[0] + C.m.At(i, 1)*frac[1] + C.m.At(i, 2)*frac[2]
	}
	return ret
}

//Norm returns the Cartesian length of a fractional displacement.
func (C *Cell) Norm(frac [3]float64) float64 {
	cart := C.Cart(frac)
	return math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
}

//MinImage returns the smallest Cartesian distance between fractional
//positions p and q over all images q+k, k in {-1,0,1}^3, together with
//the k realizing it. Positions are expected in [0,1), so scanning the 27
//neighbor cells is enough.
func (C *Cell) MinImage(p, q [3]float64) (float64, [3]int) {
	best := math.Inf(1)
	var bestk [3]int
	for kx := -1; kx <= 1; kx++ {
		for ky := -1; ky <= 1; ky++ {
			for kz := -1; kz <= 1; kz++ {
				d := C.Norm([3]float64{
					q[0] + float64(kx) - p[0],
					q[1] + float64(ky) - p[1],
					q[2] + float64(kz) - p[2],
				})
				if d < best {
					best = d
					bestk = [3]int{kx, ky, kz}
				}
			}
		}
	}
	return best, bestk
}

//MinImageDistance is MinImage without the offset.
func (C *Cell) MinImageDistance(p, q [3]float64) float64 {
	d, _ := C.MinImage(p, q)
	return d
}

//wrap01 reduces x to [0,1). Values that are negative zero or within
//float noise of 1 collapse to 0.
func wrap01(x float64) float64 {
	x = x - math.Floor(x)
	if x >= 1 || 1-x < 1e-12 {
		x = 0
	}
	return x
}
