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

package iconarrayutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/C2SM/iconarray"
	"github.com/sirupsen/logrus"
)

// writeTestGrid writes a minimal two-cell grid file and returns its path.
func writeTestGrid(t *testing.T) string {
	t.Helper()
	g := &iconarray.Grid{
		NCell: 2,
		CLon:  []float64{0, 1},
		CLat:  []float64{0, 0},
	}
	path := filepath.Join(t.TempDir(), "grid.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := iconarray.WriteGrid(w, g); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGridCache(t *testing.T) {
	path := writeTestGrid(t)
	gc := NewGridCache(2, logrus.StandardLogger())

	g1, err := gc.Grid(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if g1.NCell != 2 {
		t.Errorf("have %d cells, want 2", g1.NCell)
	}

	// A second request for the same path must hit the in-memory cache.
	g2, err := gc.Grid(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if g1 != g2 {
		t.Error("expected the cached grid to be returned")
	}
}

func TestGridCacheMissingFile(t *testing.T) {
	gc := NewGridCache(2, logrus.StandardLogger())
	if _, err := gc.Grid(context.Background(), "/no/such/grid.nc"); err == nil {
		t.Error("expected an error for a missing grid file")
	}
}
