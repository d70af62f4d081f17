/*
 * cif_test.go, part of gonets.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const diamondCIF = `data_diamond
_cell_length_a    3.567
_cell_length_b    3.567
_cell_length_c    3.567
_cell_angle_alpha 90.0
_cell_angle_beta  90.0
_cell_angle_gamma 90.0
_symmetry_int_tables_number 227
loop_
_symmetry_equiv_pos_as_xyz
'x, y, z'
loop_
_atom_site_label
_atom_site_type_symbol
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
_atom_site_occupancy
C1 C 0.00 0.00 0.00 1.0
C2 C 0.00 0.50 0.50 1.0
C3 C 0.50 0.00 0.50 1.0
C4 C 0.50 0.50 0.00 1.0
C5 C 0.25 0.25 0.25 1.0
C6 C 0.25 0.75 0.75 1.0
C7 C 0.75 0.25 0.75 1.0
C8 C 0.75 0.75 0.25 1.0
`

func TestReadCIFDiamond(t *testing.T) {
	c, err := ReadCIF(strings.NewReader(diamondCIF), "diamond.cif")
	require.NoError(t, err)
	require.Len(t, c.Atoms, 8)
	require.Equal(t, "C", c.Atoms[0].Symbol)
	require.Equal(t, "C5", c.Atoms[4].Label)
	require.InDelta(t, 0.25, c.Atoms[4].Pos[0], 1e-9)
	require.InDelta(t, 3.567, c.Cell.Matrix().At(0, 0), 1e-9)
	require.Equal(t, 227, c.Cell.Hall())
	require.Empty(t, c.Cell.Ops(), "the identity op is implicit")
}

func TestReadCIFSymmetryAndBonds(t *testing.T) {
	cif := `data_x
_cell_length_a 6.0
_cell_length_b 6.0
_cell_length_c 6.0
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
loop_
_space_group_symop_operation_xyz
'x, y, z'
'-x, -y, -z'
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
Si1 0.20 0.00 0.00
O1  0.10 0.00 0.00
loop_
_geom_bond_atom_site_label_1
_geom_bond_atom_site_label_2
_geom_bond_distance
Si1 O1 0.600(2)
`
	c, err := ReadCIF(strings.NewReader(cif), "x.cif")
	require.NoError(t, err)
	require.Len(t, c.Cell.Ops(), 1)
	require.Len(t, c.Atoms, 2)
	require.Equal(t, "Si", c.Atoms[0].Symbol)
	require.Equal(t, "O", c.Atoms[1].Symbol)
	require.Len(t, c.Bonds, 1)
	require.InDelta(t, 0.6, c.Bonds[0].Dist, 1e-9)
}

func TestReadCIFUncertainties(t *testing.T) {
	cif := strings.Replace(diamondCIF, "_cell_length_a    3.567",
		"_cell_length_a    3.567(4)", 1)
	c, err := ReadCIF(strings.NewReader(cif), "d.cif")
	require.NoError(t, err)
	require.InDelta(t, 3.567, c.Cell.Matrix().At(0, 0), 1e-9)
}

func TestReadCIFMissingCell(t *testing.T) {
	cif := `data_broken
_cell_length_a 4.0
loop_
_atom_site_label
_atom_site_fract_x
_atom_site_fract_y
_atom_site_fract_z
C1 0 0 0
`
	_, err := ReadCIF(strings.NewReader(cif), "broken.cif")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestReadCIFUnknownElement(t *testing.T) {
	cif := strings.Replace(diamondCIF, "C1 C", "Qq1 Qq", 1)
	_, err := ReadCIF(strings.NewReader(cif), "d.cif")
	require.ErrorIs(t, err, ErrMissingAtomInformation)
}

func TestReadCIFNoAtoms(t *testing.T) {
	cif := `data_empty
_cell_length_a 4
_cell_length_b 4
_cell_length_c 4
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
`
	_, err := ReadCIF(strings.NewReader(cif), "empty.cif")
	require.ErrorIs(t, err, ErrMissingAtomInformation)
}

func TestReadCIFFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diamond.cif.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(diamondCIF))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	c, err := ReadCIFFile(path)
	require.NoError(t, err)
	require.Len(t, c.Atoms, 8)
}
