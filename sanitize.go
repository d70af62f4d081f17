/*
 * sanitize.go, part of gonets.
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
	"sort"

	"go.uber.org/zap"
)

const (
	//Neighbors within this angle (degrees) of each other are treated as
	//lying on the same bond line.
	onBondAngle = 10.0
	//Edges longer than this (A) are candidates for triangle pruning;
	//the shorter value applies when either endpoint is a metal.
	triangleCutoff      = 3.0
	triangleCutoffMetal = 2.5
	//Absolute bond-length sanity bounds (A).
	maxSaneBond     = 4.0
	minSaneBond     = 0.65
	triangleSqBound = 9.0
)

//valenceRule bounds the degree of an element's vertices. max applies in
//ordinary mode, maxMOF when the structure is treated as a MOF; 0 means
//unbounded. protectH keeps edges to hydrogen out of the removal pool.
type valenceRule struct {
	min, max, maxMOF int
	protectH         bool
}

//Target valences. The MOF-mode bounds (O up to 4, C and N up to 5) are
//heuristics inherited from common MOF coordination patterns.
var valenceRules = map[string]valenceRule{
	"H": {min: 1, max: 1, maxMOF: 1},
	"O": {min: 2, max: 2, maxMOF: 4, protectH: true},
	"C": {min: 2, max: 4, maxMOF: 5, protectH: true},
	"N": {min: 2, max: 4, maxMOF: 5, protectH: true},
}

//RemoveAtomOnBond deletes, for every vertex having two neighbors within
//10 degrees of each other, the edge to the farther of the two. The scan
//repeats until no such pair remains; it returns the number of edges
//removed.
func RemoveAtomOnBond(g *PeriodicGraph, c *Crystal, log *zap.Logger) int {
	cosLimit := math.Cos(onBondAngle * deg2rad)
	removed := 0
	for {
		again := false
		for v := 0; v < g.VertexCount(); v++ {
			nbs := g.Neighbors(v)
			if len(nbs) < 2 {
				continue
			}
			type arm struct {
				nb   Neighbor
				vec  [3]float64
				dist float64
			}
			arms := make([]arm, len(nbs))
			for i, nb := range nbs {
				vec := c.EdgeVector(v, nb.To, nb.Ofs)
				arms[i] = arm{nb: nb, vec: vec, dist: math.Sqrt(vec[0]*vec[0] + vec[1]*vec[1] + vec[2]*vec[2])}
			}
			for i := 0; i < len(arms) && !again; i++ {
				for j := i + 1; j < len(arms); j++ {
					a, b := arms[i], arms[j]
					if a.dist == 0 || b.dist == 0 {
						continue
					}
					dot := a.vec[0]*b.vec[0] + a.vec[1]*b.vec[1] + a.vec[2]*b.vec[2]
					if dot/(a.dist*b.dist) <= cosLimit {
						continue
					}
					far := a
					if b.dist > a.dist {
						far = b
					}
					g.RemoveEdge(v, far.nb.To, far.nb.Ofs)
					log.Warn("atom on a bond line, dropping the farther edge",
						zap.Int("vertex", v), zap.Int("to", far.nb.To), zap.Float64("dist", far.dist))
					removed++
					again = true
					break
				}
			}
		}
		if !again {
			return removed
		}
	}
}

//triangleWitness looks for a vertex x closing a triangle over edge e:
//edges (s, x, o1) and (d, x, o2) with o2 = o1 - o, both strictly shorter
//than e, with l1^2 + l2^2 (capped at 9 A^2) below e^2.
func triangleWitness(g *PeriodicGraph, c *Crystal, e Edge, elen float64) bool {
	for _, nb1 := range g.adj[e.From] {
		x, o1 := nb1.To, nb1.Ofs
		o2 := o1.Sub(e.Ofs)
		if x == e.To && o1 == e.Ofs {
			continue //that is e itself
		}
		if !g.HasEdge(e.To, x, o2) {
			continue
		}
		l1 := c.EdgeLength(e.From, x, o1)
		l2 := c.EdgeLength(e.To, x, o2)
		if l1 >= elen || l2 >= elen {
			continue
		}
		if elen*elen > math.Min(triangleSqBound, l1*l1+l2*l2) {
			return true
		}
	}
	return false
}

//RemoveTriangles deletes long edges that are spanned by a pair of
//shorter edges through a common neighbor (the spurious diagonal of a
//coordination triangle). Removals invalidate witnesses, so the scan
//restarts until it completes with the graph unchanged. Returns the
//number of edges removed.
func RemoveTriangles(g *PeriodicGraph, c *Crystal, log *zap.Logger) int {
	removed := 0
	for {
		hit := false
		for _, e := range g.Edges() {
			cut := triangleCutoff
			if symbolMetal[c.Atoms[e.From].Symbol] || symbolMetal[c.Atoms[e.To].Symbol] {
				cut = triangleCutoffMetal
			}
			elen := c.EdgeLength(e.From, e.To, e.Ofs)
			if elen <= cut {
				continue
			}
			if triangleWitness(g, c, e, elen) {
				g.RemoveEdge(e.From, e.To, e.Ofs)
				log.Warn("removing triangle diagonal",
					zap.Int("from", e.From), zap.Int("to", e.To), zap.Float64("len", elen))
				removed++
				hit = true
				break
			}
		}
		if !hit {
			return removed
		}
	}
}

//FixValence enforces the per-element degree bounds. Vertices above their
//maximum lose their longest bonds until they comply (never a bond to H
//for C, N, O); vertices below their minimum are reported as invalid but
//keep their edges. With apply false the graph is left untouched and only
//the would-be-invalid set is returned.
func FixValence(g *PeriodicGraph, c *Crystal, mof, apply bool, log *zap.Logger) []int {
	work := g
	if !apply {
		work = g.Clone()
	}
	var invalid []int
	for v := 0; v < work.VertexCount(); v++ {
		rule, ok := valenceRules[c.Atoms[v].Symbol]
		if !ok {
			continue
		}
		max := rule.max
		if mof {
			max = rule.maxMOF
		}
		if max > 0 && work.Degree(v) > max {
			trimValence(work, c, v, max, rule.protectH)
			if work.Degree(v) > max {
				log.Warn("vertex still over its valence after trimming",
					zap.Int("vertex", v), zap.String("symbol", c.Atoms[v].Symbol),
					zap.Int("degree", work.Degree(v)))
			}
		}
		if rule.min > 0 && work.Degree(v) < rule.min {
			log.Warn("valence below the element minimum",
				zap.Int("vertex", v), zap.String("symbol", c.Atoms[v].Symbol),
				zap.Int("degree", work.Degree(v)), zap.Int("min", rule.min))
			invalid = append(invalid, v)
		}
	}
	return invalid
}

//trimValence removes v's longest removable edges until its degree drops
//to max.
func trimValence(g *PeriodicGraph, c *Crystal, v, max int, protectH bool) {
	for g.Degree(v) > max {
		nbs := g.Neighbors(v)
		sort.Slice(nbs, func(i, j int) bool {
			return c.EdgeLength(v, nbs[i].To, nbs[i].Ofs) > c.EdgeLength(v, nbs[j].To, nbs[j].Ofs)
		})
		cut := false
		for _, nb := range nbs {
			if protectH && c.Atoms[nb.To].Symbol == "H" {
				continue
			}
			g.RemoveEdge(v, nb.To, nb.Ofs)
			cut = true
			break
		}
		if !cut {
			return //only protected bonds left
		}
	}
}

//SanityCheck deletes bonds longer than 4 A, and bonds between non-H
//atoms shorter than 0.65 A. It returns how many edges were deleted; a
//nonzero return under Auto bonding makes the caller restart from guessed
//bonds.
func SanityCheck(g *PeriodicGraph, c *Crystal, log *zap.Logger) int {
	removed := 0
	for _, e := range g.Edges() {
		l := c.EdgeLength(e.From, e.To, e.Ofs)
		tooShort := l < minSaneBond && c.Atoms[e.From].Symbol != "H" && c.Atoms[e.To].Symbol != "H"
		if l > maxSaneBond || tooShort {
			g.RemoveEdge(e.From, e.To, e.Ofs)
			log.Warn("suspicious bond length, deleting",
				zap.Int("from", e.From), zap.Int("to", e.To), zap.Float64("len", l))
			removed++
		}
	}
	return removed
}

//RemoveHomoatomic deletes every edge joining two atoms of the same,
//targeted element. Metal-metal bonds are the usual target: they are
//artifacts of the widened guess radii.
func RemoveHomoatomic(g *PeriodicGraph, c *Crystal, targets map[string]bool, log *zap.Logger) int {
	if len(targets) == 0 {
		return 0
	}
	removed := 0
	for _, e := range g.Edges() {
		s := c.Atoms[e.From].Symbol
		if s == c.Atoms[e.To].Symbol && targets[s] {
			g.RemoveEdge(e.From, e.To, e.Ofs)
			removed++
		}
	}
	if removed > 0 {
		log.Warn("removed homoatomic bonds", zap.Int("count", removed))
	}
	return removed
}
