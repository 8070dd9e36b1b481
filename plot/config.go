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
	"fmt"
	"image/color"
	"io"

	"github.com/ctessum/geom/carto"

	"github.com/C2SM/iconarray"
)

// A Marker is a named point of interest drawn on the map.
type Marker struct {
	Name     string
	Lon, Lat float64
	// Color defaults to red.
	Color color.NRGBA
}

// MapConfig describes a complete map plot: extent, size, color scheme,
// markers, and overlay features.
type MapConfig struct {
	// North, South, East, West are the map extent in the units of the
	// grid coordinates.
	North, South, East, West float64

	// Width is the plot width in pixels. Zero means 800.
	Width int

	// Title labels the color legend.
	Title string

	// ColorScheme selects the color mapping: "linear" or "lincutoff"
	// (the default, which cuts off outliers beyond the 99.9th
	// percentile).
	ColorScheme string

	Markers  []Marker
	Features []Feature
}

// Map builds an empty map from the configuration.
func (c *MapConfig) Map() (*Map, error) {
	if c.North <= c.South || c.East <= c.West {
		return nil, fmt.Errorf("plot: invalid map extent N=%g S=%g E=%g W=%g",
			c.North, c.South, c.East, c.West)
	}
	width := c.Width
	if width == 0 {
		width = 800
	}
	m := New(c.North, c.South, c.East, c.West, width)
	switch c.ColorScheme {
	case "", "lincutoff":
	case "linear":
		m.cmap = carto.NewColorMap(carto.Linear)
	default:
		return nil, fmt.Errorf("plot: unknown color scheme %q", c.ColorScheme)
	}
	return m, nil
}

// Render draws the configured plot of one value per grid cell and
// writes it to w in PNG format: the colored cells first, then the
// overlay features, then the markers. The returned Map can be used to
// write a legend labeled with the configured title.
func (c *MapConfig) Render(g *iconarray.Grid, vals []float64, w io.Writer) (*Map, error) {
	m, err := c.Map()
	if err != nil {
		return nil, err
	}
	if err := m.DrawCells(g, vals); err != nil {
		return nil, err
	}
	for _, f := range c.Features {
		if err := m.AddFeature(f); err != nil {
			return nil, err
		}
	}
	for _, marker := range c.Markers {
		posLon, posLat := iconarray.AddCoordinates(marker.Lon, marker.Lat,
			c.West, c.East, c.South, c.North)
		if posLon < 0 || posLon > 1 || posLat < 0 || posLat > 1 {
			return nil, fmt.Errorf("plot: marker %s at (%g, %g) is outside the map extent",
				marker.Name, marker.Lon, marker.Lat)
		}
		col := marker.Color
		if col == (color.NRGBA{}) {
			col = color.NRGBA{R: 255, A: 255}
		}
		if err := m.Marker(iconarray.Point{Lon: marker.Lon, Lat: marker.Lat}, col); err != nil {
			return nil, err
		}
	}
	if err := m.WritePNG(w); err != nil {
		return nil, err
	}
	return m, nil
}
