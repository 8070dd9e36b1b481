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

// Package plot renders ICON fields on their unstructured grid. Each
// triangle cell is filled with the color of its data value, and map
// features such as country borders, rivers, and lakes can be layered
// on top from shapefiles.
package plot

import (
	"fmt"
	"image/color"
	"io"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/C2SM/iconarray"
)

// A Map renders one field on a longitude/latitude extent.
type Map struct {
	// N, S, E, W are the map extent in the units of the grid
	// coordinates.
	N, S, E, W float64

	raster *carto.RasterMap
	cmap   *carto.ColorMap
}

// New creates a map with the given extent and pixel width. The height
// follows from the aspect ratio of the extent.
func New(N, S, E, W float64, width int) *Map {
	return &Map{
		N: N, S: S, E: E, W: W,
		raster: carto.NewRasterMap(N, S, E, W, width),
		cmap:   carto.NewColorMap(carto.LinCutoff),
	}
}

// DrawCells fills the grid's triangles with colors corresponding to
// vals, which must hold one value per grid cell. The grid needs its
// cell boundary coordinates.
func (m *Map) DrawCells(g *iconarray.Grid, vals []float64) error {
	if len(vals) != g.NCell {
		return fmt.Errorf("plot: have %d values for %d grid cells", len(vals), g.NCell)
	}
	if g.CLonBounds == nil || g.CLatBounds == nil {
		return fmt.Errorf("plot: grid has no cell boundary coordinates")
	}
	m.cmap.AddArray(vals)
	m.cmap.Set()
	nv := g.CLonBounds.Shape[1]
	for i := 0; i < g.NCell; i++ {
		ring := make([]geom.Point, nv+1)
		for k := 0; k < nv; k++ {
			ring[k] = geom.Point{X: g.CLonBounds.Get(i, k), Y: g.CLatBounds.Get(i, k)}
		}
		ring[nv] = ring[0]
		err := m.raster.DrawVector(geom.Polygon{ring},
			m.cmap.GetColor(vals[i]), draw.LineStyle{}, draw.GlyphStyle{})
		if err != nil {
			return fmt.Errorf("plot: drawing cell %d: %v", i, err)
		}
	}
	return nil
}

// DrawGeom strokes an arbitrary geometry onto the map.
func (m *Map) DrawGeom(g geom.Geom, ls draw.LineStyle) error {
	return m.raster.DrawVector(g, color.NRGBA{}, ls, draw.GlyphStyle{})
}

// Marker draws a point marker at the given location.
func (m *Map) Marker(p iconarray.Point, c color.NRGBA) error {
	glyph := draw.GlyphStyle{
		Color:  c,
		Radius: vg.Points(3),
		Shape:  draw.RingGlyph{},
	}
	return m.raster.DrawVector(geom.Point{X: p.Lon, Y: p.Lat},
		c, draw.LineStyle{}, glyph)
}

// AddFeature draws a map feature on top of the current map content.
func (m *Map) AddFeature(f Feature) error {
	if err := f.Draw(m); err != nil {
		return fmt.Errorf("plot: drawing feature %s: %v", f.Name(), err)
	}
	return nil
}

// WritePNG writes the rendered map to w in PNG format.
func (m *Map) WritePNG(w io.Writer) error {
	return m.raster.WriteTo(w)
}

// Legend writes a PNG legend for the colors used by DrawCells.
func (m *Map) Legend(w io.Writer, label string) error {
	const legendWidth = 6.2 * vg.Inch
	const legendHeight = legendWidth * 0.1067
	m.cmap.LegendWidth = legendWidth
	m.cmap.LegendHeight = legendHeight
	m.cmap.LineWidth = 0.5
	m.cmap.FontSize = 8

	c := vgimg.New(legendWidth, legendHeight)
	dc := draw.New(c)
	if err := m.cmap.Legend(&dc, label); err != nil {
		return fmt.Errorf("plot: drawing legend: %v", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("plot: writing legend: %v", err)
	}
	return nil
}
