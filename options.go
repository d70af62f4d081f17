/*
 * options.go, part of gonets.
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
	"runtime"
	"strings"

	"go.uber.org/zap"
)

//StructureType selects the preset heuristics used during bond
//sanitation.
type StructureType int

const (
	StructureAuto StructureType = iota
	StructureMOF
	StructureCluster
	StructureZeolite
	StructureGuess
	StructureAtom
)

//ParseStructureType maps the CLI spelling to a StructureType.
func ParseStructureType(s string) (StructureType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return StructureAuto, nil
	case "mof":
		return StructureMOF, nil
	case "cluster":
		return StructureCluster, nil
	case "zeolite":
		return StructureZeolite, nil
	case "guess":
		return StructureGuess, nil
	case "atom":
		return StructureAtom, nil
	}
	return StructureAuto, fmt.Errorf("unknown structure type %q", s)
}

//BondingMode selects where the candidate edges come from.
type BondingMode int

const (
	//BondingAuto uses declared bonds when the input has them, guessed
	//bonds otherwise, and falls back to guessing when the declared set
	//fails the sanity check.
	BondingAuto BondingMode = iota
	//BondingInput requires declared bonds.
	BondingInput
	//BondingGuess always derives bonds from geometry.
	BondingGuess
)

//Options collects the knobs of the identification pipeline.
type Options struct {
	structure  StructureType
	bonding    BondingMode
	cutoff     float64
	wideMetals bool
	homoatomic map[string]bool
	logger     *zap.Logger
	cpus       int
}

//DefaultOptions returns reasonable settings: automatic structure type
//and bonding, a 0.55 radius-sum cutoff (tight enough to keep the second
//coordination sphere out), widened metal radii, no logging, and every
//logical CPU for batch work.
func DefaultOptions() *Options {
	r := new(Options)
	r.structure = StructureAuto
	r.bonding = BondingAuto
	r.cutoff = 0.55
	r.wideMetals = true
	r.logger = zap.NewNop()
	r.cpus = runtime.NumCPU()
	return r
}

//Structure returns the structure type, setting it first if an argument
//is given.
func (O *Options) Structure(t ...StructureType) StructureType {
	if len(t) > 0 {
		O.structure = t[0]
	}
	return O.structure
}

//Bonding returns the bonding mode, setting it first if an argument is
//given.
func (O *Options) Bonding(m ...BondingMode) BondingMode {
	if len(m) > 0 {
		O.bonding = m[0]
	}
	return O.bonding
}

//Cutoff returns the bond-guess cutoff coefficient, setting it first if
//a positive argument is given.
func (O *Options) Cutoff(v ...float64) float64 {
	if len(v) > 0 && v[0] > 0 {
		O.cutoff = v[0]
	}
	return O.cutoff
}

//WideMetals returns whether metal radii are widened during the bond
//guess, setting it first if an argument is given.
func (O *Options) WideMetals(b ...bool) bool {
	if len(b) > 0 {
		O.wideMetals = b[0]
	}
	return O.wideMetals
}

//Homoatomic returns the set of elements whose homoatomic bonds are
//removed, setting it first if an argument is given.
func (O *Options) Homoatomic(m ...map[string]bool) map[string]bool {
	if len(m) > 0 {
		O.homoatomic = m[0]
	}
	return O.homoatomic
}

//Logger returns the diagnostic logger, setting it first if an argument
//is given. The zero logger silences all warnings.
func (O *Options) Logger(l ...*zap.Logger) *zap.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	return O.logger
}

//Cpus returns the number of goroutines used for batch identification,
//setting it first if a positive argument is given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

//mof reports whether the MOF valence bounds apply.
func (O *Options) mof() bool {
	return O.structure == StructureMOF
}

//contractBridges reports whether 2-coordinated vertices are contracted
//into edges before canonicalization. Zeolite and cluster work is about
//the T-atom net, where bridging atoms are wires, not vertices.
func (O *Options) contractBridges() bool {
	return O.structure == StructureZeolite || O.structure == StructureCluster
}
