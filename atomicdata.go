/*
 * atomicdata.go, part of gonets.
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

import "strings"

//A map for assigning van der Waals radii to elements, in A.
//Main-group values from 10.1021/j100785a001 and 10.1021/jp8111556,
//metal radii from 10.1023/A:1011625728803.
var symbolVdwrad = map[string]float64{
	"H":  1.10,
	"He": 1.40,
	"Li": 1.81,
	"Be": 1.53,
	"B":  1.92,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"Na": 2.27,
	"Mg": 1.73,
	"Al": 1.84,
	"Si": 2.10,
	"P":  1.80,
	"S":  1.80,
	"Cl": 1.75,
	"K":  2.75,
	"Ca": 2.31,
	"Sc": 2.15,
	"Ti": 2.11,
	"V":  2.07,
	"Cr": 1.97,
	"Mn": 1.96,
	"Fe": 1.96,
	"Co": 1.95,
	"Ni": 1.94,
	"Cu": 2.00,
	"Zn": 2.02,
	"Ga": 1.87,
	"Ge": 2.11,
	"As": 1.85,
	"Se": 1.90,
	"Br": 1.83,
	"Rb": 3.03,
	"Sr": 2.49,
	"Y":  2.32,
	"Zr": 2.23,
	"Nb": 2.18,
	"Mo": 2.17,
	"Ru": 2.13,
	"Rh": 2.10,
	"Pd": 2.10,
	"Ag": 2.11,
	"Cd": 2.18,
	"In": 1.93,
	"Sn": 2.17,
	"Sb": 2.06,
	"Te": 2.06,
	"I":  1.98,
	"Cs": 3.43,
	"Ba": 2.68,
	"La": 2.43,
	"Ce": 2.42,
	"Nd": 2.39,
	"Gd": 2.34,
	"Hf": 2.23,
	"Ta": 2.22,
	"W":  2.18,
	"Re": 2.16,
	"Os": 2.16,
	"Ir": 2.13,
	"Pt": 2.13,
	"Au": 2.14,
	"Hg": 2.23,
	"Tl": 1.96,
	"Pb": 2.02,
	"Bi": 2.07,
	"Th": 2.45,
	"U":  2.41,
}

//Elements treated as metals for bond-guess widening and for the shorter
//triangle cutoff. Metalloids are deliberately not included.
var symbolMetal = map[string]bool{
	"Li": true, "Be": true, "Na": true, "Mg": true, "Al": true,
	"K": true, "Ca": true, "Sc": true, "Ti": true, "V": true,
	"Cr": true, "Mn": true, "Fe": true, "Co": true, "Ni": true,
	"Cu": true, "Zn": true, "Ga": true, "Rb": true, "Sr": true,
	"Y": true, "Zr": true, "Nb": true, "Mo": true, "Ru": true,
	"Rh": true, "Pd": true, "Ag": true, "Cd": true, "In": true,
	"Sn": true, "Cs": true, "Ba": true, "La": true, "Ce": true,
	"Nd": true, "Gd": true, "Hf": true, "Ta": true, "W": true,
	"Re": true, "Os": true, "Ir": true, "Pt": true, "Au": true,
	"Hg": true, "Tl": true, "Pb": true, "Bi": true, "Th": true,
	"U": true,
}

//Atomic numbers, used only for telling "real" symbols from CIF labels.
var symbolNumber = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Sc": 21, "Ti": 22,
	"V": 23, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29,
	"Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "La": 57,
	"Ce": 58, "Pr": 59, "Nd": 60, "Sm": 62, "Eu": 63, "Gd": 64, "Tb": 65,
	"Dy": 66, "Ho": 67, "Er": 68, "Tm": 69, "Yb": 70, "Lu": 71, "Hf": 72,
	"Ta": 73, "W": 74, "Re": 75, "Os": 76, "Ir": 77, "Pt": 78, "Au": 79,
	"Hg": 80, "Tl": 81, "Pb": 82, "Bi": 83, "Th": 90, "U": 92,
}

//VdwRad returns the van der Waals radius for an element symbol, or 0
//if the element is not tabulated.
func VdwRad(symbol string) float64 {
	return symbolVdwrad[symbol]
}

//IsMetal reports whether the element is treated as a metal.
func IsMetal(symbol string) bool {
	return symbolMetal[symbol]
}

//normalizeSymbol turns a CIF atom label or type symbol ("ZN2+", "o1_w",
//"Si3") into a plain element symbol ("Zn", "O", "Si"). It returns "" when
//no tabulated element matches.
func normalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	//strip everything after the leading alphabetic run
	end := 0
	for end < len(s) && ((s[end] >= 'a' && s[end] <= 'z') || (s[end] >= 'A' && s[end] <= 'Z')) {
		end++
	}
	s = s[:end]
	if s == "" {
		return ""
	}
	if len(s) > 2 {
		s = s[:2]
	}
	//With a lowercase second letter, try the two-letter form first, then
	//one letter. "CO" in a label is almost always carbon+something, not
	//cobalt, so an uppercase pair is read as one letter first and as a
	//two-letter symbol ("ZN" -> "Zn") only when that fails.
	if len(s) == 2 && s[1] >= 'a' && s[1] <= 'z' {
		cand := strings.ToUpper(s[:1]) + s[1:]
		if _, ok := symbolNumber[cand]; ok {
			return cand
		}
	}
	cand := strings.ToUpper(s[:1])
	if _, ok := symbolNumber[cand]; ok {
		return cand
	}
	if len(s) == 2 {
		cand = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		if _, ok := symbolNumber[cand]; ok {
			return cand
		}
	}
	return ""
}
