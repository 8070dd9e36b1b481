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
	"math"
	"math/rand"
	"testing"
)

func TestNearestExactMatch(t *testing.T) {
	pts := []Point{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}, {Lon: -10, Lat: -10}}
	for _, metric := range []Metric{Planar, GreatCircle} {
		l, err := NewLocator(pts, metric)
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range pts {
			m, err := l.Nearest(p)
			if err != nil {
				t.Fatal(err)
			}
			if m.Index != i {
				t.Errorf("metric %v point %d: have index %d, want %d", metric, i, m.Index, i)
			}
			if m.Distance != 0 {
				t.Errorf("metric %v point %d: have distance %g, want 0", metric, i, m.Distance)
			}
		}
	}
}

func TestNearestDuplicatePoints(t *testing.T) {
	// Two grid points share the same coordinates; the lower index wins.
	pts := make([]Point, 10)
	for i := range pts {
		pts[i] = Point{Lon: float64(i), Lat: 0}
	}
	pts[3] = Point{Lon: 50, Lat: 20}
	pts[7] = Point{Lon: 50, Lat: 20}
	for _, metric := range []Metric{Planar, GreatCircle} {
		l, err := NewLocator(pts, metric)
		if err != nil {
			t.Fatal(err)
		}
		m, err := l.Nearest(Point{Lon: 50.0001, Lat: 20.0001})
		if err != nil {
			t.Fatal(err)
		}
		if m.Index != 3 {
			t.Errorf("metric %v: have index %d, want 3", metric, m.Index)
		}
	}
}

func TestNearestEmptyGrid(t *testing.T) {
	_, err := NewLocator(nil, Planar)
	if _, ok := err.(*EmptyGridError); !ok {
		t.Errorf("have error %v, want EmptyGridError", err)
	}
}

func TestNearestInvalidCoordinate(t *testing.T) {
	l, err := NewLocator([]Point{{Lon: 0, Lat: 0}}, Planar)
	if err != nil {
		t.Fatal(err)
	}
	tests := []Point{
		{Lon: 0, Lat: 200},
		{Lon: 0, Lat: -91},
		{Lon: 361, Lat: 0},
		{Lon: -181, Lat: 0},
		{Lon: math.NaN(), Lat: 0},
		{Lon: 0, Lat: math.Inf(1)},
	}
	for _, p := range tests {
		if _, err := l.Nearest(p); err == nil {
			t.Errorf("point %+v: have nil error, want InvalidCoordinateError", p)
		} else if _, ok := err.(*InvalidCoordinateError); !ok {
			t.Errorf("point %+v: have error %v, want InvalidCoordinateError", p, err)
		}
	}
	// Radian-valued and degree-valued coordinates are both in range.
	for _, p := range []Point{{Lon: 1.2, Lat: 0.8}, {Lon: 359, Lat: 89}, {Lon: -179.5, Lat: -89.5}} {
		if _, err := l.Nearest(p); err != nil {
			t.Errorf("point %+v: unexpected error %v", p, err)
		}
	}
}

func TestNearestMaxDistance(t *testing.T) {
	l, err := NewLocator([]Point{{Lon: 0, Lat: 0}}, Planar)
	if err != nil {
		t.Fatal(err)
	}
	l.MaxDistance = 1
	if _, err := l.Nearest(Point{Lon: 0.5, Lat: 0.5}); err != nil {
		t.Errorf("within max distance: unexpected error %v", err)
	}
	_, err = l.Nearest(Point{Lon: 10, Lat: 10})
	if _, ok := err.(*NoNeighborError); !ok {
		t.Errorf("have error %v, want NoNeighborError", err)
	}
}

func TestNearestBatch(t *testing.T) {
	l, err := NewLocator([]Point{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}, {Lon: -10, Lat: -10}}, Planar)
	if err != nil {
		t.Fatal(err)
	}
	queries := []Point{{Lon: 1, Lat: 1}, {Lon: 9, Lat: 9}, {Lon: 200, Lat: 0}}
	matches := l.NearestBatch(queries)
	if len(matches) != len(queries) {
		t.Fatalf("have %d matches, want %d", len(matches), len(queries))
	}
	if matches[0].Err != nil || matches[0].Index != 0 {
		t.Errorf("query 0: have (%d, %v), want (0, nil)", matches[0].Index, matches[0].Err)
	}
	if matches[1].Err != nil || matches[1].Index != 1 {
		t.Errorf("query 1: have (%d, %v), want (1, nil)", matches[1].Index, matches[1].Err)
	}
	if matches[2].Err == nil {
		t.Errorf("query 2: have nil error, want InvalidCoordinateError")
	}

	if _, err := l.NearestBatchStrict(queries); err == nil {
		t.Errorf("strict batch: have nil error, want InvalidCoordinateError")
	}
	good, err := l.NearestBatchStrict(queries[:2])
	if err != nil {
		t.Fatal(err)
	}
	if good[0].Index != 0 || good[1].Index != 1 {
		t.Errorf("strict batch: have indices (%d, %d), want (0, 1)", good[0].Index, good[1].Index)
	}
}

func TestNearestN(t *testing.T) {
	pts := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 3, Lat: 0}}
	l, err := NewLocator(pts, Planar)
	if err != nil {
		t.Fatal(err)
	}
	matches, err := l.NearestN(Point{Lon: 0.9, Lat: 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 0, 2}
	for i, m := range matches {
		if m.Index != want[i] {
			t.Errorf("rank %d: have index %d, want %d", i, m.Index, want[i])
		}
	}
	// Asking for more neighbors than grid points returns them all.
	matches, err = l.NearestN(Point{Lon: 0, Lat: 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != len(pts) {
		t.Errorf("have %d matches, want %d", len(matches), len(pts))
	}
}

// TestNearestIndexEquivalence checks that the spatially indexed planar
// search returns exactly the same results as a linear scan, including
// the lower-index rule for ties.
func TestNearestIndexEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pts := make([]Point, 500)
	for i := range pts {
		pts[i] = Point{Lon: rng.Float64()*360 - 180, Lat: rng.Float64()*180 - 90}
	}
	// Seed some exact duplicates so ties actually occur.
	pts[100] = pts[50]
	pts[400] = pts[50]
	pts[250] = pts[10]

	l, err := NewLocator(pts, Planar)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		q := Point{Lon: rng.Float64()*360 - 180, Lat: rng.Float64()*180 - 90}
		if i%3 == 0 {
			q = pts[rng.Intn(len(pts))] // exact hits exercise the tie path
		}
		have := l.nearestIndexed(q)
		want := l.bruteForce(q)
		if have != want {
			t.Errorf("query %+v: indexed (%d, %g) != linear (%d, %g)",
				q, have.Index, have.Distance, want.Index, want.Distance)
		}
	}
}

func TestRebuild(t *testing.T) {
	l, err := NewLocator([]Point{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}}, Planar)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Nearest(Point{Lon: 1, Lat: 1}); err != nil {
		t.Fatal(err)
	}
	l.Rebuild()
	m, err := l.Nearest(Point{Lon: 9, Lat: 9})
	if err != nil {
		t.Fatal(err)
	}
	if m.Index != 1 {
		t.Errorf("have index %d, want 1", m.Index)
	}
}

func TestGreatCircleDistance(t *testing.T) {
	l, err := NewLocator([]Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 90}}, GreatCircle)
	if err != nil {
		t.Fatal(err)
	}
	m, err := l.Nearest(Point{Lon: 0, Lat: 89})
	if err != nil {
		t.Fatal(err)
	}
	if m.Index != 1 {
		t.Errorf("have index %d, want 1", m.Index)
	}
	// Pole to equator is a quarter of a great circle.
	wantD := math.Pi / 2 * earthRadius
	m, err = l.Nearest(Point{Lon: 90, Lat: 0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Distance-wantD)/wantD > 1e-9 {
		t.Errorf("have distance %g, want about %g", m.Distance, wantD)
	}
}
