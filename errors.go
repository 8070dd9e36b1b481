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

import "fmt"

// EmptyGridError indicates that a Locator was asked to operate on a grid
// with no points in it.
type EmptyGridError struct{}

func (e *EmptyGridError) Error() string {
	return "iconarray: the candidate grid point set is empty"
}

// InvalidCoordinateError indicates a malformed query coordinate: one that
// is not finite or lies outside the valid range (latitude [-90, 90],
// longitude [-180, 360]).
type InvalidCoordinateError struct {
	Point  Point
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("iconarray: invalid coordinate (lon=%g, lat=%g): %s",
		e.Point.Lon, e.Point.Lat, e.Reason)
}

// NoNeighborError indicates that the nearest grid point lies beyond the
// Locator's MaxDistance threshold.
type NoNeighborError struct {
	Point       Point
	Distance    float64
	MaxDistance float64
}

func (e *NoNeighborError) Error() string {
	return fmt.Sprintf("iconarray: nearest grid point to (lon=%g, lat=%g) is at distance %g, beyond the maximum allowed distance %g",
		e.Point.Lon, e.Point.Lat, e.Distance, e.MaxDistance)
}

// WrongGridError indicates that a grid could not be matched to a dataset:
// no dimension in the data has the grid's number of cells or edges.
type WrongGridError struct {
	NCell, NEdge int
}

func (e *WrongGridError) Error() string {
	return fmt.Sprintf("iconarray: it looks like this grid you are trying to merge could be wrong; there are no dimensions in the data with %d cells or %d edges", e.NCell, e.NEdge)
}

// UnsupportedFormatError indicates a data file in a format that this
// library can identify but not read.
type UnsupportedFormatError struct {
	Path   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("iconarray: %s: %s files are not supported", e.Path, e.Format)
}
