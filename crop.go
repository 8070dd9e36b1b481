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

package iconarray

import (
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
)

// A Crop is a subset of an ICON grid restricted to the cells whose
// centers lie in a longitude/latitude box, together with the edges and
// vertices those cells use. Neighbor lookup tables are reindexed to the
// subset; neighbors outside the subset become -1.
type Crop struct {
	grid *Grid

	// Kept holds, per location, the original (0-based) indices of the
	// elements that survive the crop, in ascending order.
	Kept map[Location][]int

	// oldToNew maps original 0-based indices to new 0-based indices.
	oldToNew map[Location]map[int]int
}

// NewCrop subsets the grid to the cells whose center coordinates
// satisfy lonMin <= lon <= lonMax and latMin <= lat <= latMax. The
// bounds use the same units as the grid coordinates. The grid must
// carry the edge_of_cell and vertex_of_cell lookup tables.
func NewCrop(g *Grid, lonMin, lonMax, latMin, latMax float64) (*Crop, error) {
	if lonMin >= lonMax || latMin >= latMax {
		return nil, fmt.Errorf("iconarray: invalid crop bounds: lon [%g, %g], lat [%g, %g]",
			lonMin, lonMax, latMin, latMax)
	}
	if g.EdgeOfCell == nil || g.VertexOfCell == nil {
		return nil, fmt.Errorf("iconarray: cropping requires the edge_of_cell and vertex_of_cell tables")
	}

	c := &Crop{
		Kept:     make(map[Location][]int),
		oldToNew: make(map[Location]map[int]int),
	}
	for i := 0; i < g.NCell; i++ {
		if g.CLon[i] >= lonMin && g.CLon[i] <= lonMax &&
			g.CLat[i] >= latMin && g.CLat[i] <= latMax {
			c.Kept[Cell] = append(c.Kept[Cell], i)
		}
	}
	if len(c.Kept[Cell]) == 0 {
		return nil, fmt.Errorf("iconarray: no grid cells within lon [%g, %g], lat [%g, %g]",
			lonMin, lonMax, latMin, latMax)
	}

	// Collect the edges and vertices referenced by the kept cells.
	// Table entries are 1-based; -1 means no neighbor.
	edgeSet := make(map[int]bool)
	vertexSet := make(map[int]bool)
	for _, i := range c.Kept[Cell] {
		for k := 0; k < g.EdgeOfCell.Shape[0]; k++ {
			if e := g.EdgeOfCell.Get(k, i); e > 0 {
				edgeSet[e-1] = true
			}
		}
		for k := 0; k < g.VertexOfCell.Shape[0]; k++ {
			if v := g.VertexOfCell.Get(k, i); v > 0 {
				vertexSet[v-1] = true
			}
		}
	}
	c.Kept[Edge] = sortedKeys(edgeSet)
	c.Kept[Vertex] = sortedKeys(vertexSet)

	for _, loc := range []Location{Cell, Edge, Vertex} {
		m := make(map[int]int, len(c.Kept[loc]))
		for newI, oldI := range c.Kept[loc] {
			m[oldI] = newI
		}
		c.oldToNew[loc] = m
	}

	c.grid = c.subsetGrid(g)
	return c, nil
}

// Grid returns the cropped grid.
func (c *Crop) Grid() *Grid { return c.grid }

func (c *Crop) subsetGrid(g *Grid) *Grid {
	out := &Grid{
		NCell:   len(c.Kept[Cell]),
		NEdge:   len(c.Kept[Edge]),
		NVertex: len(c.Kept[Vertex]),
		Attrs:   make(map[string]string, len(g.Attrs)),
	}
	for k, v := range g.Attrs {
		out.Attrs[k] = v
	}
	out.CLon = takeFloats(g.CLon, c.Kept[Cell])
	out.CLat = takeFloats(g.CLat, c.Kept[Cell])
	out.ELon = takeFloats(g.ELon, c.Kept[Edge])
	out.ELat = takeFloats(g.ELat, c.Kept[Edge])
	out.VLon = takeFloats(g.VLon, c.Kept[Vertex])
	out.VLat = takeFloats(g.VLat, c.Kept[Vertex])

	out.CLonBounds = takeRows(g.CLonBounds, c.Kept[Cell])
	out.CLatBounds = takeRows(g.CLatBounds, c.Kept[Cell])
	out.ELonBounds = takeRows(g.ELonBounds, c.Kept[Edge])
	out.ELatBounds = takeRows(g.ELatBounds, c.Kept[Edge])

	// The lookup tables have shape (k, n) where n counts the elements
	// of the table's home location and the values index into the
	// target location's space.
	tableHome := map[string]Location{
		"edge_of_cell":          Cell,
		"vertex_of_cell":        Cell,
		"neighbor_cell_index":   Cell,
		"adjacent_cell_of_edge": Edge,
		"edge_vertices":         Edge,
		"cells_of_vertex":       Vertex,
		"edges_of_vertex":       Vertex,
		"vertices_of_vertex":    Vertex,
	}
	for name, home := range tableHome {
		src := *g.table(name)
		if src == nil {
			continue
		}
		*out.table(name) = c.reindexTable(src, c.Kept[home], gridTableLocs[name])
	}
	return out
}

// reindexTable subsets a (k, n) lookup table to the kept columns and
// rewrites its 1-based values into the cropped target index space.
// Values pointing outside the crop become -1.
func (c *Crop) reindexTable(t *sparse.DenseArrayInt, keptCols []int, target Location) *sparse.DenseArrayInt {
	k := t.Shape[0]
	out := sparse.ZerosDenseInt(k, len(keptCols))
	m := c.oldToNew[target]
	for newJ, oldJ := range keptCols {
		for i := 0; i < k; i++ {
			v := t.Get(i, oldJ)
			mapped := -1
			if v > 0 {
				if newV, ok := m[v-1]; ok {
					mapped = newV + 1
				}
			}
			out.Set(mapped, i, newJ)
		}
	}
	return out
}

// Apply subsets a dataset to the crop: every variable with a cell,
// edge, or vertex dimension is restricted to the kept elements along
// that dimension. Variables without grid dimensions are kept whole.
// The dataset must already carry grid information (see
// CombineGridInformation).
func (c *Crop) Apply(ds *Dataset) (*Dataset, error) {
	out := &Dataset{
		Dims:  make(map[string]int, len(ds.Dims)),
		Vars:  make(map[string]*Variable, len(ds.Vars)),
		Attrs: ds.Attrs,
	}
	for name, n := range ds.Dims {
		if kept, ok := c.Kept[Location(name)]; ok {
			out.Dims[name] = len(kept)
		} else {
			out.Dims[name] = n
		}
	}
	for name, v := range ds.Vars {
		sub := v
		for axis, d := range v.Dims {
			kept, ok := c.Kept[Location(d)]
			if !ok {
				continue
			}
			var err error
			if sub, err = takeAlongAxis(sub, axis, kept); err != nil {
				return nil, fmt.Errorf("iconarray: cropping variable %s: %v", name, err)
			}
		}
		out.Vars[name] = sub
	}
	return out, nil
}

// takeAlongAxis subsets a variable along one axis to the given indices.
func takeAlongAxis(v *Variable, axis int, idx []int) (*Variable, error) {
	shape := v.Data.Shape
	if axis < 0 || axis >= len(shape) {
		return nil, fmt.Errorf("axis %d out of range for shape %v", axis, shape)
	}
	newShape := make([]int, len(shape))
	copy(newShape, shape)
	newShape[axis] = len(idx)
	data := sparse.ZerosDense(newShape...)
	for i := range data.Elements {
		nd := data.IndexNd(i)
		nd[axis] = idx[nd[axis]]
		data.Elements[i] = v.Data.Get(nd...)
	}
	dims := make([]string, len(v.Dims))
	copy(dims, v.Dims)
	return &Variable{Data: data, Dims: dims, Attrs: v.Attrs}, nil
}

func takeFloats(src []float64, idx []int) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = src[j]
	}
	return out
}

// takeRows subsets the first axis of a 2-d array.
func takeRows(src *sparse.DenseArray, idx []int) *sparse.DenseArray {
	if src == nil {
		return nil
	}
	k := src.Shape[1]
	out := sparse.ZerosDense(len(idx), k)
	for i, j := range idx {
		for col := 0; col < k; col++ {
			out.Set(src.Get(j, col), i, col)
		}
	}
	return out
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
