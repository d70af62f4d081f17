/*
 * symop.go, part of gonets.
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
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

//SymOp is a crystallographic equivalent position: an integer rotation or
//reflection matrix plus a translation whose components are multiples of
//1/12 (every space-group translation is).
type SymOp struct {
	Rot [3][3]int
	Tr  [3]float64
}

//Identity returns the identity operation.
func Identity() SymOp {
	return SymOp{Rot: [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

//IsIdentity reports whether the operation is x,y,z.
func (S SymOp) IsIdentity() bool {
	id := Identity()
	return S.Rot == id.Rot && S.Tr == id.Tr
}

//Apply transforms a fractional position, reducing each component to [0,1).
func (S SymOp) Apply(p [3]float64) [3]float64 {
	var ret [3]float64
	for i := 0; i < 3; i++ {
		x := S.Tr[i]
		for j := 0; j < 3; j++ {
			x += float64(S.Rot[i][j]) * p[j]
		}
		ret[i] = wrap01(x)
	}
	return ret
}

//String renders the operation in the x,y,z notation it was parsed from.
func (S SymOp) String() string {
	axes := [3]string{"x", "y", "z"}
	parts := make([]string, 3)
	for i := 0; i < 3; i++ {
		var b strings.Builder
		for j := 0; j < 3; j++ {
			switch S.Rot[i][j] {
			case 1:
				if b.Len() > 0 {
					b.WriteByte('+')
				}
				b.WriteString(axes[j])
			case -1:
				b.WriteByte('-')
				b.WriteString(axes[j])
			}
		}
		if S.Tr[i] != 0 {
			num := int(math.Round(S.Tr[i] * 12))
			den := 12
			for d := 2; d <= num; d++ {
				for num%d == 0 && den%d == 0 {
					num /= d
					den /= d
				}
			}
			fmt.Fprintf(&b, "+%d/%d", num, den)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ",")
}

//The grammar of one equivalent-position string, e.g. "-y+1/2, x, z".
//Each coordinate is a run of signed terms; a term is either an axis
//variable or a rational (or decimal) constant.
type symExprAST struct {
	Coords []*symCoordAST `@@ ("," @@)*`
}

type symCoordAST struct {
	Terms []*symTermAST `@@+`
}

type symTermAST struct {
	Sign string `@("+" | "-")?`
	Var  string `( @Ident`
	Num  string `| (@Float | @Int)`
	Den  string `  ("/" @Int)? )`
}

var symOpParser = participle.MustBuild[symExprAST]()

//ParseSymOp parses one equivalent position in the CIF x,y,z notation.
func ParseSymOp(s string) (SymOp, error) {
	var op SymOp
	ast, err := symOpParser.ParseString("", s)
	if err != nil {
		return op, fmt.Errorf("ParseSymOp: %q: %v", s, err)
	}
	if len(ast.Coords) != 3 {
		return op, fmt.Errorf("ParseSymOp: %q has %d coordinates, want 3", s, len(ast.Coords))
	}
	for i, coord := range ast.Coords {
		for _, t := range coord.Terms {
			sign := 1
			if t.Sign == "-" {
				sign = -1
			}
			if t.Var != "" {
				j := strings.IndexByte("xyz", byte(strings.ToLower(t.Var)[0]))
				if j < 0 || len(t.Var) != 1 {
					return op, fmt.Errorf("ParseSymOp: %q: unknown variable %q", s, t.Var)
				}
				op.Rot[i][j] += sign
				continue
			}
			v, err := strconv.ParseFloat(t.Num, 64)
			if err != nil {
				return op, fmt.Errorf("ParseSymOp: %q: bad constant %q", s, t.Num)
			}
			if t.Den != "" {
				d, err := strconv.ParseFloat(t.Den, 64)
				if err != nil || d == 0 {
					return op, fmt.Errorf("ParseSymOp: %q: bad denominator %q", s, t.Den)
				}
				v /= d
			}
			op.Tr[i] += float64(sign) * v
		}
	}
	for i := 0; i < 3; i++ {
		//space-group translations live on the 1/12 grid
		op.Tr[i] = wrap01(math.Round(op.Tr[i]*12) / 12)
	}
	return op, nil
}
