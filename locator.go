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
	"math"
	"sort"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Point is a geographic coordinate. For the Planar metric the units only
// need to be self-consistent between grid and query points (ICON grid files
// store radians); for the GreatCircle metric they must be degrees.
type Point struct {
	Lon, Lat float64
}

// Metric specifies how the Locator measures the distance between two
// coordinates. Results can differ between metrics for query points near
// the boundary between two grid cells, so the metric is part of the
// Locator's identity rather than a per-query option.
type Metric int

const (
	// Planar measures Euclidean distance directly on the coordinate
	// values. This assumes a flat earth, which is a reasonable
	// approximation for small regions and high-resolution simulations
	// but not for large distances or global grids.
	Planar Metric = iota

	// GreatCircle measures haversine distance in meters on a spherical
	// earth. Coordinates must be in degrees.
	GreatCircle
)

// earthRadius is the radius used for great-circle distances [m].
const earthRadius = 6.371e6

// tieTolerance is the relative floating-point tolerance within which two
// distances are considered equal; equidistant candidates resolve to the
// lowest grid index.
const tieTolerance = 1.e-12

// Match is the result of a nearest-neighbor query: the index of the
// closest grid point and the distance to it in the Locator's metric.
type Match struct {
	Index    int
	Distance float64
}

// BatchMatch is one element of a batch query result. Err is non-nil when
// the corresponding query point was invalid; the other elements of the
// batch are unaffected.
type BatchMatch struct {
	Match
	Err error
}

// Locator resolves geographic coordinates to the index of the closest
// point in a fixed set of grid point coordinates.
//
// For the Planar metric, queries are accelerated by an R-tree spatial
// index which is built lazily on the first query and cached for the
// lifetime of the Locator. The index never changes observable results:
// every query returns the same index a brute-force linear scan would,
// including tie-breaks. Once built, the index is never mutated, so a
// Locator may be shared between concurrent callers.
type Locator struct {
	// MaxDistance, if positive, makes queries whose nearest grid point
	// is farther away than this fail with a NoNeighborError. The zero
	// value disables the threshold.
	MaxDistance float64

	points []Point
	metric Metric

	mu    sync.Mutex
	index *rtree.Rtree
}

// gridPoint is an R-tree entry holding a grid point and its index.
type gridPoint struct {
	geom.Point
	index int
}

// NewLocator creates a Locator for the given grid point coordinates,
// which are copied and must be non-empty.
func NewLocator(points []Point, metric Metric) (*Locator, error) {
	if len(points) == 0 {
		return nil, &EmptyGridError{}
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return &Locator{points: pts, metric: metric}, nil
}

// Len returns the number of grid points held by the receiver.
func (l *Locator) Len() int { return len(l.points) }

// At returns the coordinates of the grid point with the given index.
func (l *Locator) At(i int) Point { return l.points[i] }

// Rebuild discards the cached spatial index so that it is rebuilt on the
// next query.
func (l *Locator) Rebuild() {
	l.mu.Lock()
	l.index = nil
	l.mu.Unlock()
}

// Nearest returns the index of the grid point closest to p. When two or
// more grid points are equidistant from p (within floating-point
// tolerance), the lowest index wins.
func (l *Locator) Nearest(p Point) (Match, error) {
	if err := validateCoordinate(p); err != nil {
		return Match{}, err
	}
	var m Match
	if l.metric == Planar {
		m = l.nearestIndexed(p)
	} else {
		// No planar bounding box can safely prune great-circle
		// candidates near the antimeridian or the poles, so this
		// metric always scans.
		m = l.bruteForce(p)
	}
	if l.MaxDistance > 0 && m.Distance > l.MaxDistance {
		return Match{}, &NoNeighborError{Point: p, Distance: m.Distance, MaxDistance: l.MaxDistance}
	}
	return m, nil
}

// NearestN returns the n grid points closest to p, ordered by ascending
// distance with ties broken by ascending index. If the grid holds fewer
// than n points, all of them are returned. The MaxDistance threshold
// does not apply.
func (l *Locator) NearestN(p Point, n int) ([]Match, error) {
	if err := validateCoordinate(p); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("iconarray: number of neighbors must be positive but is %d", n)
	}
	dist := l.distanceFunc()
	ms := make([]Match, len(l.points))
	for i, gp := range l.points {
		ms[i] = Match{Index: i, Distance: dist(p, gp)}
	}
	sort.SliceStable(ms, func(i, j int) bool {
		return closer(ms[i].Distance, ms[i].Index, ms[j].Distance, ms[j].Index)
	})
	if n > len(ms) {
		n = len(ms)
	}
	return ms[:n], nil
}

// NearestBatch resolves each of the given query points independently,
// returning a result slice with the same length and order as the input.
// An invalid point is reported in its own element's Err field and does
// not abort the rest of the batch.
func (l *Locator) NearestBatch(points []Point) []BatchMatch {
	out := make([]BatchMatch, len(points))
	for i, p := range points {
		m, err := l.Nearest(p)
		out[i] = BatchMatch{Match: m, Err: err}
	}
	return out
}

// NearestBatchStrict is like NearestBatch except that the first invalid
// query point fails the whole call.
func (l *Locator) NearestBatchStrict(points []Point) ([]Match, error) {
	out := make([]Match, len(points))
	for i, p := range points {
		m, err := l.Nearest(p)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// nearestIndexed finds the nearest grid point using the cached R-tree,
// then refines the result within the tie band so that equidistant
// candidates resolve exactly as a linear scan would.
func (l *Locator) nearestIndexed(p Point) Match {
	tree := l.tree()
	q := geom.Point{X: p.Lon, Y: p.Lat}
	nn := tree.NearestNeighbor(q).(*gridPoint)
	d := planarDistance(p, Point{Lon: nn.X, Lat: nn.Y})
	best := Match{Index: nn.index, Distance: d}

	// Any candidate tied with the R-tree result lies within this radius,
	// and the Chebyshev box of the same half-width contains the
	// Euclidean disk.
	r := d + tieBand(d)
	box := &geom.Bounds{
		Min: geom.Point{X: q.X - r, Y: q.Y - r},
		Max: geom.Point{X: q.X + r, Y: q.Y + r},
	}
	for _, g := range tree.SearchIntersect(box) {
		gp := g.(*gridPoint)
		dd := planarDistance(p, Point{Lon: gp.X, Lat: gp.Y})
		if closer(dd, gp.index, best.Distance, best.Index) {
			best = Match{Index: gp.index, Distance: dd}
		}
	}
	return best
}

// bruteForce finds the nearest grid point by linear scan.
func (l *Locator) bruteForce(p Point) Match {
	dist := l.distanceFunc()
	best := Match{Index: 0, Distance: dist(p, l.points[0])}
	for i := 1; i < len(l.points); i++ {
		d := dist(p, l.points[i])
		if closer(d, i, best.Distance, best.Index) {
			best = Match{Index: i, Distance: d}
		}
	}
	return best
}

// tree returns the cached spatial index, building it if necessary.
func (l *Locator) tree() *rtree.Rtree {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == nil {
		t := rtree.NewTree(25, 50)
		for i, p := range l.points {
			t.Insert(&gridPoint{Point: geom.Point{X: p.Lon, Y: p.Lat}, index: i})
		}
		l.index = t
	}
	return l.index
}

func (l *Locator) distanceFunc() func(a, b Point) float64 {
	if l.metric == GreatCircle {
		return greatCircleDistance
	}
	return planarDistance
}

// closer reports whether candidate a (distance da, index ia) beats
// candidate b. Distances within the tie band of each other count as
// equal and resolve to the lower index.
func closer(da float64, ia int, db float64, ib int) bool {
	if math.Abs(da-db) <= tieBand(math.Min(da, db)) {
		return ia < ib
	}
	return da < db
}

// tieBand is the absolute distance slack within which two distances are
// considered tied.
func tieBand(d float64) float64 {
	return tieTolerance * (1 + d)
}

func planarDistance(a, b Point) float64 {
	return math.Hypot(a.Lon-b.Lon, a.Lat-b.Lat)
}

func greatCircleDistance(a, b Point) float64 {
	const degToRad = math.Pi / 180
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * degToRad
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
}

// validateCoordinate checks that p is finite and within the valid range:
// latitude in [-90, 90] and longitude in [-180, 360], which covers both
// the ±180 and the 0–360 longitude conventions. Radian-valued
// coordinates from ICON grid files also pass, their magnitudes being
// strictly smaller.
func validateCoordinate(p Point) error {
	switch {
	case math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0):
		return &InvalidCoordinateError{Point: p, Reason: "longitude is not finite"}
	case math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0):
		return &InvalidCoordinateError{Point: p, Reason: "latitude is not finite"}
	case p.Lat < -90 || p.Lat > 90:
		return &InvalidCoordinateError{Point: p, Reason: "latitude outside [-90, 90]"}
	case p.Lon < -180 || p.Lon > 360:
		return &InvalidCoordinateError{Point: p, Reason: "longitude outside [-180, 360]"}
	}
	return nil
}
