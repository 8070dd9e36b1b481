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
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Variable is a single data variable of a model output file.
type Variable struct {
	Data *sparse.DenseArray
	Dims []string
	// Attrs holds the variable's text attributes (units, long_name, ...).
	Attrs map[string]string
}

// Dataset holds the contents of a model output file: named dimensions,
// data variables, and global text attributes.
type Dataset struct {
	Dims  map[string]int
	Vars  map[string]*Variable
	Attrs map[string]string
}

// VarNames returns the dataset's variable names in sorted order.
func (ds *Dataset) VarNames() []string {
	names := make([]string, 0, len(ds.Vars))
	for name := range ds.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coordNames are variables that locate grid elements rather than
// carrying model output.
var coordNames = map[string]bool{
	"clon": true, "clat": true,
	"elon": true, "elat": true,
	"vlon": true, "vlat": true,
	"clon_vertices": true, "clat_vertices": true,
	"elon_vertices": true, "elat_vertices": true,
}

// DataVarNames returns the names of the dataset's non-coordinate
// variables in sorted order.
func (ds *Dataset) DataVarNames() []string {
	var names []string
	for name := range ds.Vars {
		if !coordNames[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// OpenDataset reads a model output file, sniffing the format from its
// leading bytes. Only NetCDF classic files can be decoded;
// NetCDF-4/HDF5 and GRIB files are recognized but rejected with an
// UnsupportedFormatError.
func OpenDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iconarray: opening dataset: %v", err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := f.ReadAt(magic, 0); err != nil {
		return nil, fmt.Errorf("iconarray: reading dataset %s: %v", path, err)
	}
	switch {
	case bytes.HasPrefix(magic, []byte("CDF")):
		ds, err := ReadDataset(f)
		if err != nil {
			return nil, fmt.Errorf("iconarray: reading dataset %s: %v", path, err)
		}
		return ds, nil
	case bytes.HasPrefix(magic, []byte("\x89HDF")):
		return nil, &UnsupportedFormatError{Path: path, Format: "NetCDF-4/HDF5"}
	case bytes.HasPrefix(magic, []byte("GRIB")):
		return nil, &UnsupportedFormatError{Path: path, Format: "GRIB"}
	}
	return nil, &UnsupportedFormatError{Path: path, Format: "unknown"}
}

// ReadDataset reads a NetCDF classic model output file.
func ReadDataset(r cdf.ReaderWriterAt) (*Dataset, error) {
	ff, err := cdf.Open(r)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{
		Dims:  make(map[string]int),
		Vars:  make(map[string]*Variable),
		Attrs: make(map[string]string),
	}
	dimNames := ff.Header.Dimensions("")
	dimLens := ff.Header.Lengths("")
	for i, name := range dimNames {
		ds.Dims[name] = dimLens[i]
	}
	for _, a := range ff.Header.Attributes("") {
		if s, ok := ff.Header.GetAttribute("", a).(string); ok {
			ds.Attrs[a] = s
		}
	}
	for _, name := range ff.Header.Variables() {
		data, err := readDense(ff, name)
		if err != nil {
			return nil, err
		}
		v := &Variable{
			Data:  data,
			Dims:  ff.Header.Dimensions(name),
			Attrs: make(map[string]string),
		}
		for _, a := range ff.Header.Attributes(name) {
			if s, ok := ff.Header.GetAttribute(name, a).(string); ok {
				v.Attrs[a] = s
			}
		}
		ds.Vars[name] = v
	}
	return ds, nil
}

// WriteDataset writes the dataset as a NetCDF classic file.
func WriteDataset(w cdf.ReaderWriterAt, ds *Dataset) error {
	dims := make([]string, 0, len(ds.Dims))
	for name := range ds.Dims {
		dims = append(dims, name)
	}
	sort.Strings(dims)
	lens := make([]int, len(dims))
	for i, name := range dims {
		lens[i] = ds.Dims[name]
	}
	h := cdf.NewHeader(dims, lens)
	for _, a := range sortedStringKeys(ds.Attrs) {
		h.AddAttribute("", a, ds.Attrs[a])
	}
	for _, name := range ds.VarNames() {
		v := ds.Vars[name]
		h.AddVariable(name, v.Dims, []float64{0})
		for _, a := range sortedStringKeys(v.Attrs) {
			h.AddAttribute(name, a, v.Attrs[a])
		}
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("iconarray: writing dataset: %v", err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, name := range ds.VarNames() {
		if err := writeFloats(f, name, ds.Vars[name].Data.Elements); err != nil {
			return err
		}
	}
	return nil
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilterByVar returns a dataset containing only the named variable,
// the coordinate variables sharing its dimensions, and the dimensions
// they use. Global attributes are kept.
func FilterByVar(ds *Dataset, name string) (*Dataset, error) {
	v, ok := ds.Vars[name]
	if !ok {
		return nil, fmt.Errorf("iconarray: variable %s not in dataset; available variables are %v",
			name, ds.DataVarNames())
	}
	out := &Dataset{
		Dims:  make(map[string]int),
		Vars:  map[string]*Variable{name: v},
		Attrs: ds.Attrs,
	}
	keep := make(map[string]bool)
	for _, d := range v.Dims {
		keep[d] = true
	}
	for cname, cv := range ds.Vars {
		if !coordNames[cname] {
			continue
		}
		shared := false
		for _, d := range cv.Dims {
			if keep[d] {
				shared = true
			}
		}
		if shared {
			out.Vars[cname] = cv
		}
	}
	for vname, vv := range out.Vars {
		for _, d := range vv.Dims {
			n, ok := ds.Dims[d]
			if !ok {
				return nil, fmt.Errorf("iconarray: variable %s uses undefined dimension %s", vname, d)
			}
			out.Dims[d] = n
		}
	}
	return out, nil
}

// CheckGridInformation reports whether the dataset already carries ICON
// grid information, i.e. cell boundary coordinates.
func CheckGridInformation(ds *Dataset) bool {
	for _, name := range []string{"clon_bnds", "clon_vertices"} {
		if _, ok := ds.Vars[name]; ok {
			return true
		}
	}
	return false
}

var gridCoords = map[Location]struct {
	lon, lat       string
	lonStd, latStd string
}{
	Cell:   {"clon", "clat", "longitude", "latitude"},
	Edge:   {"elon", "elat", "longitude", "latitude"},
	Vertex: {"vlon", "vlat", "longitude", "latitude"},
}

// CombineGridInformation attaches the grid's coordinates to the
// dataset. Dataset dimensions whose lengths match the grid's cell,
// edge, or vertex counts are renamed to the conventional names and the
// matching coordinate variables are added with CF metadata. If no
// dimension matches the grid, the grid does not belong to the dataset
// and a WrongGridError is returned.
func CombineGridInformation(ds *Dataset, g *Grid) error {
	matched := false
	for _, loc := range []Location{Cell, Edge, Vertex} {
		n := g.Len(loc)
		if n == 0 {
			continue
		}
		dim := ""
		for name, length := range ds.Dims {
			if length == n {
				dim = name
				break
			}
		}
		if dim == "" {
			continue
		}
		matched = true
		if dim != string(loc) {
			renameDim(ds, dim, string(loc))
		}
		attachCoords(ds, g, loc)
	}
	if !matched {
		return &WrongGridError{NCell: g.NCell, NEdge: g.NEdge}
	}
	return nil
}

// renameDim renames a dataset dimension everywhere it is referenced.
func renameDim(ds *Dataset, from, to string) {
	if n, ok := ds.Dims[from]; ok {
		delete(ds.Dims, from)
		ds.Dims[to] = n
	}
	for _, v := range ds.Vars {
		for i, d := range v.Dims {
			if d == from {
				v.Dims[i] = to
			}
		}
	}
}

// attachCoords adds the coordinate and boundary variables for one grid
// location to the dataset.
func attachCoords(ds *Dataset, g *Grid, loc Location) {
	c := gridCoords[loc]
	var lon, lat []float64
	var lonB, latB *sparse.DenseArray
	boundsDim := ""
	switch loc {
	case Cell:
		lon, lat = g.CLon, g.CLat
		lonB, latB = g.CLonBounds, g.CLatBounds
		boundsDim = "nv"
	case Edge:
		lon, lat = g.ELon, g.ELat
		lonB, latB = g.ELonBounds, g.ELatBounds
		boundsDim = "no"
	case Vertex:
		lon, lat = g.VLon, g.VLat
	}

	addCoord := func(name string, vals []float64, std string, bounds string) {
		data := sparse.ZerosDense(len(vals))
		copy(data.Elements, vals)
		attrs := map[string]string{
			"units":         "radian",
			"standard_name": std,
		}
		if bounds != "" {
			attrs["bounds"] = bounds
		}
		ds.Vars[name] = &Variable{Data: data, Dims: []string{string(loc)}, Attrs: attrs}
		ds.Dims[string(loc)] = len(vals)
	}
	lonBName, latBName := "", ""
	if lonB != nil {
		lonBName = c.lon + "_vertices"
		ds.Vars[lonBName] = &Variable{
			Data:  lonB.Copy(),
			Dims:  []string{string(loc), boundsDim},
			Attrs: map[string]string{"units": "radian"},
		}
		ds.Dims[boundsDim] = lonB.Shape[1]
	}
	if latB != nil {
		latBName = c.lat + "_vertices"
		ds.Vars[latBName] = &Variable{
			Data:  latB.Copy(),
			Dims:  []string{string(loc), boundsDim},
			Attrs: map[string]string{"units": "radian"},
		}
	}
	addCoord(c.lon, lon, c.lonStd, lonBName)
	addCoord(c.lat, lat, c.latStd, latBName)
}
