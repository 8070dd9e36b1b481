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

// CheckCellToVertex checks the consistency of the cell->vertex
// connectivity: the vertices reached through each cell's edges
// (cell->edge->vertex), after removing duplicates, must equal the
// cell's vertex_of_cell entries. Boundary grids with -1 entries in
// edge_of_cell are rejected with an error.
func CheckCellToVertex(g *Grid) (bool, error) {
	if err := requireTables(g, g.EdgeOfCell, g.EdgeVertices, g.VertexOfCell); err != nil {
		return false, err
	}
	if hasMissing(g.EdgeOfCell) {
		return false, fmt.Errorf("iconarray: negative neighbor indices of edge_of_cell not expected")
	}
	for c := 0; c < g.NCell; c++ {
		var reached []int
		for k := 0; k < g.EdgeOfCell.Shape[0]; k++ {
			e := g.EdgeOfCell.Get(k, c)
			for kk := 0; kk < g.EdgeVertices.Shape[0]; kk++ {
				reached = append(reached, g.EdgeVertices.Get(kk, e-1))
			}
		}
		want := tableColumn(g.VertexOfCell, c)
		if !sameNeighborSet(reached, want) {
			return false, nil
		}
	}
	return true, nil
}

// CheckVertexToCell checks the consistency of the vertex->cell
// connectivity: the cells reached through each vertex's edges
// (vertex->edge->cell), after removing duplicates, must equal the
// vertex's cells_of_vertex entries. A -1 edge of a boundary vertex
// contributes a -1 cell.
func CheckVertexToCell(g *Grid) (bool, error) {
	if err := requireTables(g, g.EdgeOfCell, g.EdgesOfVertex, g.AdjacentCellOfEdge, g.CellsOfVertex); err != nil {
		return false, err
	}
	if hasMissing(g.EdgeOfCell) {
		return false, fmt.Errorf("iconarray: negative neighbor indices of edge_of_cell not expected")
	}
	for v := 0; v < g.NVertex; v++ {
		var reached []int
		for k := 0; k < g.EdgesOfVertex.Shape[0]; k++ {
			e := g.EdgesOfVertex.Get(k, v)
			if e == -1 {
				reached = append(reached, -1)
				continue
			}
			for kk := 0; kk < g.AdjacentCellOfEdge.Shape[0]; kk++ {
				reached = append(reached, g.AdjacentCellOfEdge.Get(kk, e-1))
			}
		}
		want := tableColumn(g.CellsOfVertex, v)
		if !sameNeighborSet(reached, want) {
			return false, nil
		}
	}
	return true, nil
}

// CheckCellToCell checks the consistency of the cell->cell
// connectivity: walking from each cell across its edges
// (cell->edge->cell) and dropping the cell itself must reproduce the
// neighbor_cell_index entries in table order. A boundary edge
// contributes a -1 neighbor.
func CheckCellToCell(g *Grid) (bool, error) {
	if err := requireTables(g, g.EdgeOfCell, g.AdjacentCellOfEdge, g.NeighborCellIndex); err != nil {
		return false, err
	}
	for c := 0; c < g.NCell; c++ {
		self := c + 1
		var reached []int
		for k := 0; k < g.EdgeOfCell.Shape[0]; k++ {
			e := g.EdgeOfCell.Get(k, c)
			if e == -1 {
				reached = append(reached, -1)
				continue
			}
			for kk := 0; kk < g.AdjacentCellOfEdge.Shape[0]; kk++ {
				if n := g.AdjacentCellOfEdge.Get(kk, e-1); n != self {
					reached = append(reached, n)
				}
			}
		}
		want := tableColumn(g.NeighborCellIndex, c)
		if len(reached) != len(want) {
			return false, nil
		}
		for i := range want {
			if reached[i] != want[i] {
				return false, nil
			}
		}
	}
	return true, nil
}

// GridConsistencyCheck runs the full set of neighbor lookup table
// checks: no table may list an element as its own neighbor, and the
// cell->cell, cell->vertex, and vertex->cell connectivities must agree
// with the composed cell->edge->* walks.
func GridConsistencyCheck(g *Grid) (bool, error) {
	if err := requireTables(g, g.NeighborCellIndex, g.VerticesOfVertex); err != nil {
		return false, err
	}
	for c := 0; c < g.NCell; c++ {
		for k := 0; k < g.NeighborCellIndex.Shape[0]; k++ {
			if g.NeighborCellIndex.Get(k, c) == c+1 {
				return false, nil
			}
		}
	}
	for v := 0; v < g.NVertex; v++ {
		for k := 0; k < g.VerticesOfVertex.Shape[0]; k++ {
			if g.VerticesOfVertex.Get(k, v) == v+1 {
				return false, nil
			}
		}
	}
	for _, check := range []func(*Grid) (bool, error){CheckCellToCell, CheckCellToVertex, CheckVertexToCell} {
		ok, err := check(g)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func requireTables(g *Grid, tables ...*sparse.DenseArrayInt) error {
	for _, t := range tables {
		if t == nil {
			return fmt.Errorf("iconarray: grid is missing a neighbor lookup table required for the consistency check")
		}
	}
	return nil
}

func hasMissing(t *sparse.DenseArrayInt) bool {
	for _, v := range t.Elements {
		if v == -1 {
			return true
		}
	}
	return false
}

// tableColumn returns one element's neighbor list from a (k, n) table.
func tableColumn(t *sparse.DenseArrayInt, j int) []int {
	out := make([]int, t.Shape[0])
	for k := range out {
		out[k] = t.Get(k, j)
	}
	return out
}

// sameNeighborSet reports whether the deduplicated reached values match
// the expected neighbor list. Expected lists pad missing neighbors with
// -1; multiple -1 values in the reached list collapse to the pad.
func sameNeighborSet(reached, want []int) bool {
	set := make(map[int]bool)
	for _, v := range reached {
		set[v] = true
	}
	uniq := make([]int, 0, len(set))
	for v := range set {
		if v != -1 {
			uniq = append(uniq, v)
		}
	}
	if len(uniq) > len(want) {
		return false
	}
	for len(uniq) < len(want) {
		uniq = append(uniq, -1)
	}
	sort.Ints(uniq)
	w := make([]int, len(want))
	copy(w, want)
	sort.Ints(w)
	for i := range w {
		if uniq[i] != w[i] {
			return false
		}
	}
	return true
}
