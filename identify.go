/*
 * identify.go, part of gonets.
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
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//Subnet is the identification of one connected component.
type Subnet struct {
	Name     string //archive identifier, or "UNKNOWN"
	Genome   string
	Dim      int
	Size     int //number of quotient vertices
	Unstable bool
}

//Result is the identification of a whole structure: one Subnet per
//connected component plus the composite answer, which is the identifier
//of the largest component.
type Result struct {
	Name     string
	Genome   string
	Unstable bool
	Subnets  []Subnet
}

//Recognized reports whether the composite net was found in the archive.
func (R *Result) Recognized() bool {
	return R.Name != "UNKNOWN"
}

//resolveBonds turns the crystal into candidate edges following the
//bonding mode. The second return tells whether declared bonds were
//used, which matters for the Auto-mode restart.
func resolveBonds(c *Crystal, opts *Options) ([]Edge, bool, error) {
	switch opts.Bonding() {
	case BondingInput:
		edges, err := InputBondEdges(c)
		return edges, true, err
	case BondingGuess:
		edges, err := GuessBonds(c, opts.Cutoff(), opts.WideMetals())
		return edges, false, err
	default:
		if len(c.Bonds) > 0 {
			edges, err := InputBondEdges(c)
			if err == nil {
				return edges, true, nil
			}
		}
		edges, err := GuessBonds(c, opts.Cutoff(), opts.WideMetals())
		return edges, false, err
	}
}

//sanitize runs the cleaning passes in their load-bearing order and
//returns the number of edges the final sanity check had to delete.
func sanitize(g *PeriodicGraph, c *Crystal, opts *Options, log *zap.Logger) int {
	RemoveAtomOnBond(g, c, log)
	RemoveTriangles(g, c, log)
	FixValence(g, c, opts.mof(), true, log)
	deleted := SanityCheck(g, c, log)
	RemoveHomoatomic(g, c, opts.Homoatomic(), log)
	return deleted
}

//ContractBridges replaces every 2-coordinated vertex by a direct edge
//between its two neighbors, repeatedly, and drops the contracted
//vertices. Bridging atoms (the oxygens of a zeolite framework) are
//wires of the net, not vertices of it. Returns the number of vertices
//contracted.
func ContractBridges(g *PeriodicGraph) int {
	contracted := 0
	for {
		v := -1
		for u := 0; u < g.VertexCount(); u++ {
			if g.Degree(u) != 2 {
				continue
			}
			nbs := g.Neighbors(u)
			if nbs[0].To == u || nbs[1].To == u {
				continue //a lone self-loop is not a bridge
			}
			v = u
			break
		}
		if v < 0 {
			return contracted
		}
		nbs := g.Neighbors(v)
		w1, o1 := nbs[0].To, nbs[0].Ofs
		w2, o2 := nbs[1].To, nbs[1].Ofs
		g.RemoveVertices([]int{v})
		//vertex indices above v shifted down by one
		if w1 > v {
			w1--
		}
		if w2 > v {
			w2--
		}
		o := o2.Sub(o1)
		if (w1 == w2 && o.IsZero()) || g.HasEdge(w1, w2, o) {
			contracted++
			continue //the bridge closed a trivial or parallel path
		}
		g.AddEdge(w1, w2, o)
		contracted++
	}
}

//removeIsolated drops degree-0 vertices.
func removeIsolated(g *PeriodicGraph) {
	var drop []int
	for v := 0; v < g.VertexCount(); v++ {
		if g.Degree(v) == 0 {
			drop = append(drop, v)
		}
	}
	if len(drop) > 0 {
		g.RemoveVertices(drop)
	}
}

//Identify runs the whole pipeline on a crystal: symmetry expansion,
//collision pruning, bond resolution, sanitation, per-component
//canonicalization and archive lookup. Components that turn out to be
//molecular (rank zero) are reported and skipped; if nothing periodic
//remains the error is ErrNonPeriodic.
func Identify(ctx context.Context, c *Crystal, archive *Archive, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger()

	cr := c.ExpandSymmetry()
	if colliding := cr.CollidingAtoms(); len(colliding) > 0 {
		log.Warn("removing colliding atoms", zap.Int("count", len(colliding)))
		cr, _ = cr.RemoveAtoms(colliding)
	}
	if opts.Structure() == StructureCluster {
		for i, at := range cr.Atoms {
			if at.Residue == "" {
				return nil, errors.Wrapf(ErrResidueAssignment, "atom %d (%s)", i, at.Label)
			}
		}
	}

	edges, usedInput, err := resolveBonds(cr, opts)
	if err != nil {
		return nil, err
	}
	g := BuildGraph(len(cr.Atoms), edges)
	deleted := sanitize(g, cr, opts, log)
	if deleted > 0 && usedInput && opts.Bonding() == BondingAuto {
		//the declared bonds were not believable; start over from geometry
		log.Warn("declared bonds failed the sanity check, reguessing", zap.Int("deleted", deleted))
		edges, err = GuessBonds(cr, opts.Cutoff(), opts.WideMetals())
		if err != nil {
			return nil, err
		}
		g = BuildGraph(len(cr.Atoms), edges)
		sanitize(g, cr, opts, log)
	}
	removeIsolated(g)
	if g.VertexCount() == 0 {
		return nil, errors.WithStack(ErrNonPeriodic)
	}

	var subnets []Subnet
	for _, comp := range g.Components() {
		sub, _ := g.Subgraph(comp)
		if opts.contractBridges() {
			ContractBridges(sub)
			removeIsolated(sub)
			if sub.VertexCount() == 0 {
				continue
			}
		}
		canon, err := Canonicalize(ctx, sub)
		if err != nil {
			if errors.Is(err, ErrNonPeriodic) {
				log.Warn("skipping molecular component", zap.Int("atoms", len(comp)))
				continue
			}
			return nil, err
		}
		name, ok := archive.Lookup(canon.Genome)
		if !ok {
			name = "UNKNOWN"
		}
		subnets = append(subnets, Subnet{
			Name:     name,
			Genome:   canon.Genome,
			Dim:      canon.Dim,
			Size:     sub.VertexCount(),
			Unstable: canon.Unstable,
		})
	}
	if len(subnets) == 0 {
		return nil, errors.WithStack(ErrNonPeriodic)
	}
	sort.Slice(subnets, func(i, j int) bool {
		if subnets[i].Size != subnets[j].Size {
			return subnets[i].Size > subnets[j].Size
		}
		return subnets[i].Genome < subnets[j].Genome
	})
	return &Result{
		Name:     subnets[0].Name,
		Genome:   subnets[0].Genome,
		Unstable: subnets[0].Unstable,
		Subnets:  subnets,
	}, nil
}

//LookupGenome canonicalizes a genome string and looks it up, the
//workhorse of the CLI's -g flag. The input need not be in canonical
//form.
func LookupGenome(ctx context.Context, genome string, archive *Archive) (*Result, error) {
	g, err := ParseGenome(genome)
	if err != nil {
		return nil, err
	}
	canon, err := Canonicalize(ctx, g)
	if err != nil {
		return nil, err
	}
	name, ok := archive.Lookup(canon.Genome)
	if !ok {
		name = "UNKNOWN"
	}
	sub := Subnet{Name: name, Genome: canon.Genome, Dim: canon.Dim,
		Size: g.VertexCount(), Unstable: canon.Unstable}
	return &Result{Name: name, Genome: canon.Genome, Unstable: canon.Unstable,
		Subnets: []Subnet{sub}}, nil
}

//FileResult pairs one input path of a batch with its outcome.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

//IdentifyFiles processes many inputs in parallel; the inputs are
//independent, so this is a plain fan-out over Cpus() goroutines.
//Failures are isolated per input.
func IdentifyFiles(ctx context.Context, paths []string, archive *Archive, opts *Options) []FileResult {
	if opts == nil {
		opts = DefaultOptions()
	}
	out := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.Cpus(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i].Path = paths[i]
				crystal, err := ReadCIFFile(paths[i])
				if err != nil {
					out[i].Err = err
					continue
				}
				out[i].Result, out[i].Err = Identify(ctx, crystal, archive, opts)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
