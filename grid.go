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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Location identifies the element type of an ICON grid: triangle cells,
// the edges between them, or their vertices.
type Location string

const (
	Cell   Location = "cell"
	Edge   Location = "edge"
	Vertex Location = "vertex"
)

func (loc Location) valid() error {
	switch loc {
	case Cell, Edge, Vertex:
		return nil
	}
	return fmt.Errorf("iconarray: wrong location: %s", loc)
}

// Grid holds the horizontal grid description of an ICON simulation mesh:
// the center coordinates of cells, edges and vertices (in radians, as
// ICON grid files store them), the cell and edge boundary coordinates,
// and the neighbor lookup tables connecting the three element types.
// Indices in the lookup tables are 1-based; -1 marks a missing neighbor.
type Grid struct {
	NCell, NEdge, NVertex int

	CLon, CLat []float64
	ELon, ELat []float64
	VLon, VLat []float64

	// Boundary coordinates: (cell, nv) for cells, (edge, no) for edges.
	CLonBounds, CLatBounds *sparse.DenseArray
	ELonBounds, ELatBounds *sparse.DenseArray

	// Neighbor lookup tables.
	EdgeOfCell         *sparse.DenseArrayInt // (nv, cell)
	VertexOfCell       *sparse.DenseArrayInt // (nv, cell)
	NeighborCellIndex  *sparse.DenseArrayInt // (nv, cell)
	AdjacentCellOfEdge *sparse.DenseArrayInt // (nc, edge)
	EdgeVertices       *sparse.DenseArrayInt // (nc, edge)
	CellsOfVertex      *sparse.DenseArrayInt // (ne, vertex)
	EdgesOfVertex      *sparse.DenseArrayInt // (ne, vertex)
	VerticesOfVertex   *sparse.DenseArrayInt // (ne, vertex)

	// Attrs holds the grid file's global text attributes
	// (uuidOfHGrid, title, ...).
	Attrs map[string]string
}

// gridTables maps lookup table names to accessors and to the location
// whose index space the table's values refer to.
var gridTableLocs = map[string]Location{
	"edge_of_cell":          Edge,
	"vertex_of_cell":        Vertex,
	"adjacent_cell_of_edge": Cell,
	"edge_vertices":         Vertex,
	"cells_of_vertex":       Cell,
	"edges_of_vertex":       Edge,
	"vertices_of_vertex":    Vertex,
	"neighbor_cell_index":   Cell,
}

func (g *Grid) table(name string) **sparse.DenseArrayInt {
	switch name {
	case "edge_of_cell":
		return &g.EdgeOfCell
	case "vertex_of_cell":
		return &g.VertexOfCell
	case "adjacent_cell_of_edge":
		return &g.AdjacentCellOfEdge
	case "edge_vertices":
		return &g.EdgeVertices
	case "cells_of_vertex":
		return &g.CellsOfVertex
	case "edges_of_vertex":
		return &g.EdgesOfVertex
	case "vertices_of_vertex":
		return &g.VerticesOfVertex
	case "neighbor_cell_index":
		return &g.NeighborCellIndex
	}
	panic("unknown grid table " + name)
}

// Len returns the number of elements the grid has at the given location.
func (g *Grid) Len(loc Location) int {
	switch loc {
	case Cell:
		return g.NCell
	case Edge:
		return g.NEdge
	default:
		return g.NVertex
	}
}

// Points returns the center coordinates of the grid elements at the
// given location, ordered by grid index.
func (g *Grid) Points(loc Location) ([]Point, error) {
	if err := loc.valid(); err != nil {
		return nil, err
	}
	var lon, lat []float64
	switch loc {
	case Cell:
		lon, lat = g.CLon, g.CLat
	case Edge:
		lon, lat = g.ELon, g.ELat
	case Vertex:
		lon, lat = g.VLon, g.VLat
	}
	pts := make([]Point, len(lon))
	for i := range lon {
		pts[i] = Point{Lon: lon[i], Lat: lat[i]}
	}
	return pts, nil
}

// Locator creates a nearest-neighbor Locator over the grid elements at
// the given location.
func (g *Grid) Locator(loc Location, metric Metric) (*Locator, error) {
	pts, err := g.Points(loc)
	if err != nil {
		return nil, err
	}
	return NewLocator(pts, metric)
}

// OpenGrid reads an ICON grid description from the NetCDF file at the
// given path.
func OpenGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iconarray: opening grid file: %v", err)
	}
	defer f.Close()
	g, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("iconarray: reading grid file %s: %v", path, err)
	}
	return g, nil
}

// ReadGrid reads an ICON grid description from NetCDF data. The cell
// center coordinates (clon, clat) are required; edge and vertex
// coordinates, boundary coordinates, and neighbor lookup tables are
// read when present.
func ReadGrid(r cdf.ReaderWriterAt) (*Grid, error) {
	ff, err := cdf.Open(r)
	if err != nil {
		return nil, err
	}
	g := &Grid{Attrs: make(map[string]string)}

	if g.CLon, err = readFloats(ff, "clon"); err != nil {
		return nil, err
	}
	if g.CLat, err = readFloats(ff, "clat"); err != nil {
		return nil, err
	}
	if len(g.CLon) != len(g.CLat) {
		return nil, fmt.Errorf("clon has %d elements but clat has %d", len(g.CLon), len(g.CLat))
	}
	g.NCell = len(g.CLon)

	g.ELon, _ = readFloats(ff, "elon")
	g.ELat, _ = readFloats(ff, "elat")
	g.NEdge = len(g.ELon)
	g.VLon, _ = readFloats(ff, "vlon")
	g.VLat, _ = readFloats(ff, "vlat")
	g.NVertex = len(g.VLon)

	g.CLonBounds, _ = readDense(ff, "clon_vertices")
	g.CLatBounds, _ = readDense(ff, "clat_vertices")
	g.ELonBounds, _ = readDense(ff, "elon_vertices")
	g.ELatBounds, _ = readDense(ff, "elat_vertices")

	for name := range gridTableLocs {
		if t, err := readDenseInt(ff, name); err == nil {
			*g.table(name) = t
		}
	}

	for _, a := range ff.Header.Attributes("") {
		if s, ok := ff.Header.GetAttribute("", a).(string); ok {
			g.Attrs[a] = s
		}
	}
	return g, nil
}

// WriteGrid writes the grid description to w in NetCDF format.
func WriteGrid(w cdf.ReaderWriterAt, g *Grid) error {
	dims := []string{"cell"}
	lengths := []int{g.NCell}
	if g.NEdge > 0 {
		dims, lengths = append(dims, "edge"), append(lengths, g.NEdge)
	}
	if g.NVertex > 0 {
		dims, lengths = append(dims, "vertex"), append(lengths, g.NVertex)
	}
	type dimited struct {
		name string
		n    int
	}
	for _, d := range []dimited{{"nv", 3}, {"nc", 2}, {"ne", 6}, {"no", 4}} {
		dims, lengths = append(dims, d.name), append(lengths, d.n)
	}
	h := cdf.NewHeader(dims, lengths)
	for k, v := range g.Attrs {
		h.AddAttribute("", k, v)
	}

	type floatVar struct {
		name string
		dims []string
		data []float64
	}
	floatVars := []floatVar{
		{"clon", []string{"cell"}, g.CLon},
		{"clat", []string{"cell"}, g.CLat},
		{"elon", []string{"edge"}, g.ELon},
		{"elat", []string{"edge"}, g.ELat},
		{"vlon", []string{"vertex"}, g.VLon},
		{"vlat", []string{"vertex"}, g.VLat},
	}
	type denseVar struct {
		name string
		dims []string
		data *sparse.DenseArray
	}
	denseVars := []denseVar{
		{"clon_vertices", []string{"cell", "nv"}, g.CLonBounds},
		{"clat_vertices", []string{"cell", "nv"}, g.CLatBounds},
		{"elon_vertices", []string{"edge", "no"}, g.ELonBounds},
		{"elat_vertices", []string{"edge", "no"}, g.ELatBounds},
	}
	type tableVar struct {
		name string
		dims []string
		data *sparse.DenseArrayInt
	}
	tableVars := []tableVar{
		{"edge_of_cell", []string{"nv", "cell"}, g.EdgeOfCell},
		{"vertex_of_cell", []string{"nv", "cell"}, g.VertexOfCell},
		{"neighbor_cell_index", []string{"nv", "cell"}, g.NeighborCellIndex},
		{"adjacent_cell_of_edge", []string{"nc", "edge"}, g.AdjacentCellOfEdge},
		{"edge_vertices", []string{"nc", "edge"}, g.EdgeVertices},
		{"cells_of_vertex", []string{"ne", "vertex"}, g.CellsOfVertex},
		{"edges_of_vertex", []string{"ne", "vertex"}, g.EdgesOfVertex},
		{"vertices_of_vertex", []string{"ne", "vertex"}, g.VerticesOfVertex},
	}

	for _, v := range floatVars {
		if len(v.data) > 0 {
			h.AddVariable(v.name, v.dims, []float64{0.})
		}
	}
	for _, v := range denseVars {
		if v.data != nil {
			h.AddVariable(v.name, v.dims, []float64{0.})
		}
	}
	for _, v := range tableVars {
		if v.data != nil {
			h.AddVariable(v.name, v.dims, []int32{0})
		}
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("iconarray: creating grid netcdf header: %v", err)
	}

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("iconarray: creating grid netcdf file: %v", err)
	}
	for _, v := range floatVars {
		if len(v.data) == 0 {
			continue
		}
		if err := writeFloats(f, v.name, v.data); err != nil {
			return err
		}
	}
	for _, v := range denseVars {
		if v.data == nil {
			continue
		}
		if err := writeFloats(f, v.name, v.data.Elements); err != nil {
			return err
		}
	}
	for _, v := range tableVars {
		if v.data == nil {
			continue
		}
		buf := make([]int32, len(v.data.Elements))
		for i, e := range v.data.Elements {
			buf[i] = int32(e)
		}
		ww := f.Writer(v.name, nil, nil)
		if _, err := ww.Write(buf); err != nil {
			return fmt.Errorf("iconarray: writing grid variable %s: %v", v.name, err)
		}
	}
	return nil
}

func writeFloats(f *cdf.File, name string, data []float64) error {
	w := f.Writer(name, nil, nil)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("iconarray: writing grid variable %s: %v", name, err)
	}
	return nil
}

// readFloats reads the whole of a numeric NetCDF variable as float64.
func readFloats(ff *cdf.File, name string) ([]float64, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %v not in file", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading netcdf variable %s: %v", name, err)
	}
	return toFloats(buf)
}

func toFloats(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []uint8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported netcdf data type %T", buf)
}

// readDense reads a numeric NetCDF variable into a DenseArray with the
// variable's shape.
func readDense(ff *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %v not in file", name)
	}
	vals, err := readFloats(ff, name)
	if err != nil {
		return nil, err
	}
	data := sparse.ZerosDense(dims...)
	copy(data.Elements, vals)
	return data, nil
}

// readDenseInt reads an integer NetCDF variable (a neighbor lookup
// table) into a DenseArrayInt with the variable's shape.
func readDenseInt(ff *cdf.File, name string) (*sparse.DenseArrayInt, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %v not in file", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading netcdf variable %s: %v", name, err)
	}
	vals, err := toFloats(buf)
	if err != nil {
		return nil, err
	}
	data := sparse.ZerosDenseInt(dims...)
	for i, v := range vals {
		data.Elements[i] = int(v)
	}
	return data, nil
}
