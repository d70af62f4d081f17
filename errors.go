/*
 * errors.go, part of gonets.
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

	"github.com/pkg/errors"
)

//Sentinel errors for the failure kinds the pipeline can produce. Callers
//match them with errors.Is after any amount of wrapping.
var (
	//ErrMissingAtomInformation means a required atom field was absent or
	//an element symbol could not be recognized.
	ErrMissingAtomInformation = errors.New("missing atom information")

	//ErrBondingUnavailable means the bonding mode was Input but the file
	//declared no bonds.
	ErrBondingUnavailable = errors.New("input bonds requested but none given")

	//ErrResidueAssignment means a clustering mode required residues and
	//some atoms lack one.
	ErrResidueAssignment = errors.New("atoms without residue assignment")

	//ErrArchiveFormat means the archive could not be parsed or its format
	//stamp was not understood.
	ErrArchiveFormat = errors.New("unreadable archive")

	//ErrNonPeriodic means the effective lattice rank of the structure is
	//zero: the input is a molecule, not a crystal net.
	ErrNonPeriodic = errors.New("structure is not periodic")
)

//ParseError is a malformed input file at a specific location.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
