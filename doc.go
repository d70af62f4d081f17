/*
 * doc.go, part of gonets.
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

//Package nets identifies the underlying periodic graph ("net") of a
//crystalline structure and matches it against an archive of known
//topologies. Given atoms, fractional coordinates in a unit cell and
//explicit or guessed chemical bonds, it computes a canonical,
//coordinate-independent string (the "topological genome") of the infinite
//periodic graph generated under lattice translation, and looks that string
//up in an archive to recover a net name such as "dia" or "pcu".
//
//The package exposes the pipeline pieces separately (cell and symmetry
//handling, bond guessing, bond sanitation, periodic graphs,
//canonicalization, the archive) as well as the Identify convenience
//orchestration on top of them.
package nets
