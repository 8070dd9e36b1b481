/*
Copyright © 2022 the iconarray authors.
This file is part of iconarray.

iconarray is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

iconarray is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with iconarray.  If not, see <http://www.gnu.org/licenses/>.
*/

package plot

import (
	"image/color"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A Feature is a map layer drawn on top of the data, such as country
// borders or hydrography.
type Feature interface {
	// Name identifies the feature in error messages.
	Name() string

	// Draw renders the feature onto the map.
	Draw(m *Map) error
}

// Borders draws country border lines from a shapefile, for example the
// Natural Earth admin-0 boundary lines.
type Borders struct {
	// Shapefile is the path to the boundary line shapefile.
	Shapefile string

	// Color defaults to black.
	Color color.NRGBA

	// LineWidth is in points and defaults to 1.
	LineWidth float64
}

func (b *Borders) Name() string { return "borders" }

func (b *Borders) Draw(m *Map) error {
	c := b.Color
	if c == (color.NRGBA{}) {
		c = color.NRGBA{A: 255}
	}
	w := b.LineWidth
	if w == 0 {
		w = 1
	}
	return drawShapefile(m, b.Shapefile, draw.LineStyle{Color: c, Width: vg.Points(w)})
}

// Rivers draws river center lines from a shapefile, for example the
// Natural Earth 10m rivers and lake centerlines.
type Rivers struct {
	Shapefile string

	// Color defaults to a water blue.
	Color color.NRGBA

	// LineWidth is in points and defaults to 0.5.
	LineWidth float64
}

func (r *Rivers) Name() string { return "rivers" }

func (r *Rivers) Draw(m *Map) error {
	c := r.Color
	if c == (color.NRGBA{}) {
		c = color.NRGBA{R: 70, G: 130, B: 180, A: 255}
	}
	w := r.LineWidth
	if w == 0 {
		w = 0.5
	}
	return drawShapefile(m, r.Shapefile, draw.LineStyle{Color: c, Width: vg.Points(w)})
}

// Lakes draws lake outlines from a shapefile, for example the Natural
// Earth 10m lakes.
type Lakes struct {
	Shapefile string

	// Color defaults to a water blue.
	Color color.NRGBA

	// LineWidth is in points and defaults to 0.4.
	LineWidth float64
}

func (l *Lakes) Name() string { return "lakes" }

func (l *Lakes) Draw(m *Map) error {
	c := l.Color
	if c == (color.NRGBA{}) {
		c = color.NRGBA{R: 70, G: 130, B: 180, A: 255}
	}
	w := l.LineWidth
	if w == 0 {
		w = 0.4
	}
	return drawShapefile(m, l.Shapefile, draw.LineStyle{Color: c, Width: vg.Points(w)})
}

// drawShapefile strokes every geometry in a shapefile that overlaps
// the map extent.
func drawShapefile(m *Map, path string, ls draw.LineStyle) error {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return err
	}
	defer dec.Close()
	extent := &geom.Bounds{
		Min: geom.Point{X: m.W, Y: m.S},
		Max: geom.Point{X: m.E, Y: m.N},
	}
	for {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		if g == nil || !g.Bounds().Overlaps(extent) {
			continue
		}
		if err := m.DrawGeom(g, ls); err != nil {
			return err
		}
	}
	return dec.Error()
}
