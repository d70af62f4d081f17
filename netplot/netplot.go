/*
 * netplot.go, part of gonets.
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

//Package netplot renders quick 2D projections of a periodic net's
//barycentric embedding. It exists for eyeballing what the sanitation
//pipeline produced, nothing more.
package netplot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	nets "github.com/rmera/gonets"
)

//reps is how many cells are drawn along each of the two plotted axes.
const reps = 2

//Projection draws the net's equilibrium embedding projected on the
//first two periodic axes, with a few repeated cells so the periodicity
//is visible. 1-periodic nets are drawn along x.
func Projection(g *nets.PeriodicGraph, title string) (*plot.Plot, error) {
	pos, err := nets.BarycentricPlacement(g)
	if err != nil {
		return nil, err
	}
	at := func(v int, cellX, cellY int) (float64, float64) {
		x := pos[v][0] + float64(cellX)
		y := float64(cellY)
		if g.Dim() > 1 {
			y += pos[v][1]
		}
		return x, y
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "a"
	p.Y.Label.Text = "b"
	p.Add(plotter.NewGrid())

	verts := make(plotter.XYs, 0, g.VertexCount()*reps*reps)
	for cx := 0; cx < reps; cx++ {
		for cy := 0; cy < reps; cy++ {
			for v := 0; v < g.VertexCount(); v++ {
				x, y := at(v, cx, cy)
				verts = append(verts, plotter.XY{X: x, Y: y})
			}
			for _, e := range g.Edges() {
				x1, y1 := at(e.From, cx, cy)
				x2, y2 := at(e.To, cx+e.Ofs[0], cy+e.Ofs[1])
				line, err := plotter.NewLine(plotter.XYs{{X: x1, Y: y1}, {X: x2, Y: y2}})
				if err != nil {
					return nil, err
				}
				line.Color = color.RGBA{B: 180, A: 255}
				p.Add(line)
			}
		}
	}
	sc, err := plotter.NewScatter(verts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	sc.GlyphStyle.Radius = vg.Points(3)
	p.Add(sc)
	return p, nil
}

//Save renders the projection straight to an image file; the format
//follows the extension (png, svg, pdf).
func Save(g *nets.PeriodicGraph, title, filename string) error {
	p, err := Projection(g, title)
	if err != nil {
		return err
	}
	return p.Save(12*vg.Centimeter, 12*vg.Centimeter, filename)
}
