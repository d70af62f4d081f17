/*
 * crystal.go, part of gonets.
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

import "math"

//Positions closer than this (in A, minimum image) are collapsed into a
//single atom during collision pruning.
const collisionDist = 0.55

//Two fractional positions are the same symmetry image if every component
//differs by less than this after reduction mod 1.
const symEqTol = 1e-4

//Atom is one atom site: element symbol, fractional position in [0,1)^3,
//occupancy in (0,1] and an optional residue label used by clustering
//modes. Label keeps the name the site had in the input file, which is
//what declared bonds refer to.
type Atom struct {
	Symbol    string
	Label     string
	Pos       [3]float64
	Occupancy float64
	Residue   string
}

//LabelBond is a bond declared in the input between two atom labels, at a
//given symmetric distance in A.
type LabelBond struct {
	Label1, Label2 string
	Dist           float64
}

//Crystal is a unit cell plus its atom list and any bonds declared in the
//input. It is built once per input file and not mutated after the
//sanitation pipeline completes.
type Crystal struct {
	Cell  *Cell
	Atoms []Atom
	Bonds []LabelBond
}

//NewCrystal builds a Crystal, normalizing every fractional coordinate to
//[0,1) and defaulting absent occupancies to 1.
func NewCrystal(cell *Cell, atoms []Atom) *Crystal {
	for i := range atoms {
		for k := 0; k < 3; k++ {
			atoms[i].Pos[k] = wrap01(atoms[i].Pos[k])
		}
		if atoms[i].Occupancy == 0 {
			atoms[i].Occupancy = 1
		}
	}
	return &Crystal{Cell: cell, Atoms: atoms}
}

//posEqualMod1 compares fractional positions modulo full cell translations.
func posEqualMod1(p, q [3]float64, tol float64) bool {
	for k := 0; k < 3; k++ {
		d := p[k] - q[k]
		d -= math.Round(d)
		if math.Abs(d) > tol {
			return false
		}
	}
	return true
}

//ExpandSymmetry applies every equivalent position of the cell to every
//atom and returns a new Crystal holding the full contents of one unit
//cell. Images that coincide with an existing atom of the same symbol
//(within 1e-4 mod 1) are dropped. Declared bonds carry over untouched:
//they are expanded to image pairs when resolved into edges.
func (C *Crystal) ExpandSymmetry() *Crystal {
	expanded := make([]Atom, 0, len(C.Atoms)*(len(C.Cell.Ops())+1))
	expanded = append(expanded, C.Atoms...)
	for _, op := range C.Cell.Ops() {
		for _, at := range C.Atoms {
			img := at
			img.Pos = op.Apply(at.Pos)
			dup := false
			for _, have := range expanded {
				if have.Symbol == img.Symbol && posEqualMod1(have.Pos, img.Pos, symEqTol) {
					dup = true
					break
				}
			}
			if !dup {
				expanded = append(expanded, img)
			}
		}
	}
	return &Crystal{Cell: C.Cell, Atoms: expanded, Bonds: C.Bonds}
}

//CollidingAtoms returns the indices of atoms to remove so that no two
//surviving atoms sit closer than 0.55 A in the minimum image. For each
//colliding cluster all members but the lowest-indexed one go.
func (C *Crystal) CollidingAtoms() []int {
	doomed := make(map[int]bool)
	n := len(C.Atoms)
	for i := 0; i < n; i++ {
		if doomed[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if doomed[j] {
				continue
			}
			if C.Cell.MinImageDistance(C.Atoms[i].Pos, C.Atoms[j].Pos) < collisionDist {
				doomed[j] = true
			}
		}
	}
	ret := make([]int, 0, len(doomed))
	for i := 0; i < n; i++ {
		if doomed[i] {
			ret = append(ret, i)
		}
	}
	return ret
}

//RemoveAtoms returns a new Crystal without the given atoms, plus the
//old-index to new-index mapping (-1 for removed atoms).
func (C *Crystal) RemoveAtoms(indices []int) (*Crystal, []int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	mapping := make([]int, len(C.Atoms))
	kept := make([]Atom, 0, len(C.Atoms)-len(drop))
	for i, at := range C.Atoms {
		if drop[i] {
			mapping[i] = -1
			continue
		}
		mapping[i] = len(kept)
		kept = append(kept, at)
	}
	return &Crystal{Cell: C.Cell, Atoms: kept, Bonds: C.Bonds}, mapping
}

//EdgeVector returns the Cartesian vector from atom i in cell 0 to atom j
//in cell o.
func (C *Crystal) EdgeVector(i, j int, o Offset) [3]float64 {
	return C.Cell.Cart([3]float64{
		C.Atoms[j].Pos[0] + float64(o[0]) - C.Atoms[i].Pos[0],
		C.Atoms[j].Pos[1] + float64(o[1]) - C.Atoms[i].Pos[1],
		C.Atoms[j].Pos[2] + float64(o[2]) - C.Atoms[i].Pos[2],
	})
}

//EdgeLength returns the Cartesian length of edge (i, j, o), in A.
func (C *Crystal) EdgeLength(i, j int, o Offset) float64 {
	v := C.EdgeVector(i, j, o)
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
