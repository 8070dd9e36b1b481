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

import "testing"

func TestGridConsistencyCheck(t *testing.T) {
	g := testGrid()
	ok, err := GridConsistencyCheck(g)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("consistent grid failed the consistency check")
	}
}

func TestCheckCellToCellInconsistent(t *testing.T) {
	g := testGrid()
	// Point cell 1's third neighbor at itself instead of cell 2.
	g.NeighborCellIndex.Set(1, 2, 0)
	ok, err := CheckCellToCell(g)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("corrupted cell->cell table passed the check")
	}
}

func TestCheckCellToVertexInconsistent(t *testing.T) {
	g := testGrid()
	// Swap a vertex reference so cell 1's vertex set no longer matches
	// the walk over its edges.
	g.VertexOfCell.Set(4, 0, 0)
	ok, err := CheckCellToVertex(g)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("corrupted cell->vertex table passed the check")
	}
}

func TestCheckVertexToCellInconsistent(t *testing.T) {
	g := testGrid()
	g.CellsOfVertex.Set(2, 0, 0)
	ok, err := CheckVertexToCell(g)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("corrupted vertex->cell table passed the check")
	}
}

func TestConsistencyRejectsMissingEdges(t *testing.T) {
	g := testGrid()
	g.EdgeOfCell.Set(-1, 0, 0)
	if _, err := CheckCellToVertex(g); err == nil {
		t.Error("have nil error, want error for -1 in edge_of_cell")
	}
	if _, err := CheckVertexToCell(g); err == nil {
		t.Error("have nil error, want error for -1 in edge_of_cell")
	}
}

func TestConsistencyMissingTables(t *testing.T) {
	g := testGrid()
	g.EdgeVertices = nil
	if _, err := CheckCellToVertex(g); err == nil {
		t.Error("have nil error, want error for missing table")
	}
}

func TestGridConsistencySelfNeighbor(t *testing.T) {
	g := testGrid()
	// An element must not list itself as its own neighbor.
	g.VerticesOfVertex.Set(1, 0, 0)
	ok, err := GridConsistencyCheck(g)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("self-neighboring vertex passed the consistency check")
	}
}
