/*
 * cif.go, part of gonets.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//A deliberately minimal CIF reader: key/value pairs and loop_ tables,
//which is all the identification pipeline needs. Multi-line
//semicolon-delimited text fields are skipped wholesale.

var tl = strings.ToLower

type cifLoop struct {
	headers []string
	rows    [][]string
}

func (l *cifLoop) col(key string) int {
	for i, h := range l.headers {
		if h == key {
			return i
		}
	}
	return -1
}

type cifBlock struct {
	name  string
	kv    map[string]string
	loops []cifLoop
}

//splitCIFFields splits a CIF data line into fields, honoring single and
//double quotes.
func splitCIFFields(line string) []string {
	var out []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i == len(line) {
			break
		}
		if line[i] == '\'' || line[i] == '"' {
			q := line[i]
			j := i + 1
			for j < len(line) && line[j] != q {
				j++
			}
			out = append(out, line[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		out = append(out, line[i:j])
		i = j
	}
	return out
}

//parseCIFBlock reads the first data block of a CIF stream.
func parseCIFBlock(r io.Reader, name string) (*cifBlock, error) {
	blk := &cifBlock{kv: make(map[string]string)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	inText := false
	var lines []string
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		if strings.HasPrefix(raw, ";") {
			inText = !inText
			continue
		}
		if inText {
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{File: name, Line: lineNo, Msg: err.Error()}
	}
	i := 0
	seenData := false
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(tl(line), "data_"):
			if seenData {
				return blk, nil //only the first block
			}
			seenData = true
			blk.name = line[5:]
			i++
		case strings.HasPrefix(tl(line), "loop_"):
			i++
			var lp cifLoop
			for i < len(lines) && strings.HasPrefix(lines[i], "_") {
				lp.headers = append(lp.headers, tl(splitCIFFields(lines[i])[0]))
				i++
			}
			var pending []string
			for i < len(lines) && !strings.HasPrefix(lines[i], "_") &&
				!strings.HasPrefix(tl(lines[i]), "loop_") && !strings.HasPrefix(tl(lines[i]), "data_") {
				pending = append(pending, splitCIFFields(lines[i])...)
				i++
				for len(pending) >= len(lp.headers) && len(lp.headers) > 0 {
					lp.rows = append(lp.rows, pending[:len(lp.headers)])
					pending = pending[len(lp.headers):]
				}
			}
			if len(pending) != 0 {
				return nil, &ParseError{File: name, Line: i, Msg: "loop_ row does not match its headers"}
			}
			blk.loops = append(blk.loops, lp)
		case strings.HasPrefix(line, "_"):
			fields := splitCIFFields(line)
			if len(fields) == 1 {
				//value on the next line (or in a skipped text block)
				if i+1 < len(lines) && !strings.HasPrefix(lines[i+1], "_") &&
					!strings.HasPrefix(tl(lines[i+1]), "loop_") {
					blk.kv[tl(fields[0])] = strings.Trim(lines[i+1], "'\"")
					i++
				}
				i++
				continue
			}
			blk.kv[tl(fields[0])] = strings.Trim(strings.TrimSpace(line[len(fields[0]):]), "'\" \t")
			i++
		default:
			return nil, &ParseError{File: name, Line: i + 1, Msg: fmt.Sprintf("unexpected %q", line)}
		}
	}
	return blk, nil
}

//parseCIFNumber parses a CIF numeric value, dropping the standard
//uncertainty suffix: "1.2345(6)" -> 1.2345.
func parseCIFNumber(s string) (float64, error) {
	if p := strings.IndexByte(s, '('); p >= 0 {
		s = s[:p]
	}
	return strconv.ParseFloat(s, 64)
}

func (b *cifBlock) number(key string) (float64, error) {
	v, ok := b.kv[key]
	if !ok || v == "." || v == "?" {
		return 0, fmt.Errorf("missing %s", key)
	}
	return parseCIFNumber(v)
}

//findLoop returns the first loop containing the key, or nil.
func (b *cifBlock) findLoop(key string) *cifLoop {
	for i := range b.loops {
		if b.loops[i].col(key) >= 0 {
			return &b.loops[i]
		}
	}
	return nil
}

//ReadCIF reads a crystal from CIF text: cell parameters, equivalent
//positions, atom sites and any declared bonds. name is used in error
//messages only.
func ReadCIF(r io.Reader, name string) (*Crystal, error) {
	blk, err := parseCIFBlock(r, name)
	if err != nil {
		return nil, err
	}
	var lengths [3]float64
	var angles [3]float64
	for i, k := range []string{"_cell_length_a", "_cell_length_b", "_cell_length_c"} {
		if lengths[i], err = blk.number(k); err != nil {
			return nil, &ParseError{File: name, Msg: err.Error()}
		}
	}
	for i, k := range []string{"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma"} {
		if angles[i], err = blk.number(k); err != nil {
			return nil, &ParseError{File: name, Msg: err.Error()}
		}
	}
	cell, err := NewCell(lengths[0], lengths[1], lengths[2], angles[0], angles[1], angles[2])
	if err != nil {
		return nil, &ParseError{File: name, Msg: err.Error()}
	}
	if v, ok := blk.kv["_symmetry_int_tables_number"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cell.SetHall(n)
		}
	}
	for _, key := range []string{"_symmetry_equiv_pos_as_xyz", "_space_group_symop_operation_xyz"} {
		lp := blk.findLoop(key)
		if lp == nil {
			continue
		}
		c := lp.col(key)
		for _, row := range lp.rows {
			op, err := ParseSymOp(row[c])
			if err != nil {
				return nil, &ParseError{File: name, Msg: err.Error()}
			}
			cell.AddOp(op)
		}
		break
	}

	sites := blk.findLoop("_atom_site_label")
	if sites == nil {
		return nil, errors.Wrapf(ErrMissingAtomInformation, "%s: no _atom_site_label loop", name)
	}
	labCol := sites.col("_atom_site_label")
	symCol := sites.col("_atom_site_type_symbol")
	xCol := sites.col("_atom_site_fract_x")
	yCol := sites.col("_atom_site_fract_y")
	zCol := sites.col("_atom_site_fract_z")
	occCol := sites.col("_atom_site_occupancy")
	resCol := sites.col("_atom_site_label_comp_id")
	if xCol < 0 || yCol < 0 || zCol < 0 {
		return nil, errors.Wrapf(ErrMissingAtomInformation, "%s: no fractional coordinates", name)
	}
	atoms := make([]Atom, 0, len(sites.rows))
	for _, row := range sites.rows {
		at := Atom{Label: row[labCol], Occupancy: 1}
		raw := at.Label
		if symCol >= 0 {
			raw = row[symCol]
		}
		at.Symbol = normalizeSymbol(raw)
		if at.Symbol == "" {
			return nil, errors.Wrapf(ErrMissingAtomInformation,
				"%s: cannot tell the element of site %q", name, at.Label)
		}
		for k, col := range []int{xCol, yCol, zCol} {
			v, err := parseCIFNumber(row[col])
			if err != nil {
				return nil, &ParseError{File: name,
					Msg: fmt.Sprintf("site %q: bad coordinate %q", at.Label, row[col])}
			}
			at.Pos[k] = v
		}
		if occCol >= 0 && row[occCol] != "." && row[occCol] != "?" {
			if v, err := parseCIFNumber(row[occCol]); err == nil {
				at.Occupancy = v
			}
		}
		if resCol >= 0 {
			at.Residue = row[resCol]
		}
		atoms = append(atoms, at)
	}
	crystal := NewCrystal(cell, atoms)

	if bl := blk.findLoop("_geom_bond_atom_site_label_1"); bl != nil {
		l1 := bl.col("_geom_bond_atom_site_label_1")
		l2 := bl.col("_geom_bond_atom_site_label_2")
		dc := bl.col("_geom_bond_distance")
		if l2 >= 0 {
			for _, row := range bl.rows {
				b := LabelBond{Label1: row[l1], Label2: row[l2]}
				if dc >= 0 && row[dc] != "." && row[dc] != "?" {
					if v, err := parseCIFNumber(row[dc]); err == nil {
						b.Dist = v
					}
				}
				crystal.Bonds = append(crystal.Bonds, b)
			}
		}
	}
	return crystal, nil
}

//ReadCIFFile reads a crystal from a CIF file, transparently handling
//.gz and .zst compression.
func ReadCIFFile(path string) (*Crystal, error) {
	r, closer, err := openMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer closer()
	return ReadCIF(r, path)
}
