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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stats compares two independent samples of model output elementwise.
// The first axis of each sample indexes the ensemble members; the
// remaining axes must agree between the two samples.
type Stats struct {
	Mean1, Mean2 *sparse.DenseArray
	// Diff is Mean2 - Mean1.
	Diff *sparse.DenseArray
	// PValue holds the two-sided p-values of a pooled two-sample
	// t-test of the means.
	PValue *sparse.DenseArray
}

// GetStats computes elementwise means, their difference, and t-test
// p-values for two independent ensembles. Each ensemble needs at least
// two members.
func GetStats(sample1, sample2 *sparse.DenseArray) (*Stats, error) {
	if len(sample1.Shape) < 2 || len(sample2.Shape) < 2 {
		return nil, fmt.Errorf("iconarray: samples must have an ensemble axis and at least one data axis")
	}
	n1, n2 := sample1.Shape[0], sample2.Shape[0]
	if n1 < 2 || n2 < 2 {
		return nil, fmt.Errorf("iconarray: need at least 2 ensemble members but have %d and %d", n1, n2)
	}
	shape1, shape2 := sample1.Shape[1:], sample2.Shape[1:]
	size := 1
	for i, s := range shape1 {
		if i >= len(shape2) || shape2[i] != s {
			return nil, fmt.Errorf("iconarray: sample shapes %v and %v do not match after the ensemble axis",
				sample1.Shape, sample2.Shape)
		}
		size *= s
	}
	if len(shape1) != len(shape2) {
		return nil, fmt.Errorf("iconarray: sample shapes %v and %v do not match after the ensemble axis",
			sample1.Shape, sample2.Shape)
	}

	out := &Stats{
		Mean1:  sparse.ZerosDense(shape1...),
		Mean2:  sparse.ZerosDense(shape1...),
		Diff:   sparse.ZerosDense(shape1...),
		PValue: sparse.ZerosDense(shape1...),
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n1 + n2 - 2)}
	x1 := make([]float64, n1)
	x2 := make([]float64, n2)
	for j := 0; j < size; j++ {
		for m := 0; m < n1; m++ {
			x1[m] = sample1.Elements[m*size+j]
		}
		for m := 0; m < n2; m++ {
			x2[m] = sample2.Elements[m*size+j]
		}
		m1 := stat.Mean(x1, nil)
		m2 := stat.Mean(x2, nil)
		out.Mean1.Elements[j] = m1
		out.Mean2.Elements[j] = m2
		out.Diff.Elements[j] = m2 - m1
		out.PValue.Elements[j] = tTestP(x1, x2, m1, m2, dist)
	}
	return out, nil
}

// tTestP computes the two-sided p-value of a pooled two-sample t-test.
func tTestP(x1, x2 []float64, m1, m2 float64, dist distuv.StudentsT) float64 {
	n1, n2 := float64(len(x1)), float64(len(x2))
	var ss1, ss2 float64
	for _, v := range x1 {
		d := v - m1
		ss1 += d * d
	}
	for _, v := range x2 {
		d := v - m2
		ss2 += d * d
	}
	sp2 := (ss1 + ss2) / (n1 + n2 - 2)
	se := math.Sqrt(sp2 * (1/n1 + 1/n2))
	if se == 0 {
		if m1 == m2 {
			return 1
		}
		return 0
	}
	t := (m2 - m1) / se
	return 2 * dist.CDF(-math.Abs(t))
}

// Wilks returns the p-value threshold below which differences remain
// significant at level alpha when the spatial dependency of the data
// points is accounted for, following Wilks (2016),
// https://doi.org/10.1175/BAMS-D-15-00267.1.
func Wilks(pvals []float64, alpha float64) (float64, error) {
	if len(pvals) == 0 {
		return 0, fmt.Errorf("iconarray: no p-values given")
	}
	ranked := make([]float64, len(pvals))
	copy(ranked, pvals)
	sort.Float64s(ranked)
	n := float64(len(ranked))
	alphaFDR := 2 * alpha
	i := 0
	for ; i < len(ranked); i++ {
		if ranked[i] > float64(i+1)/n*alphaFDR {
			break
		}
	}
	if i == len(ranked) {
		i--
	}
	return ranked[i], nil
}

// AddCoordinates converts a location to axes-relative coordinates
// within a map extent, for placing markers on rendered maps. The
// returned values are fractions of the map width and height, measured
// from the lower-left corner.
func AddCoordinates(lon, lat, lonMin, lonMax, latMin, latMax float64) (posLon, posLat float64) {
	posLon = (lon - lonMin) / (lonMax - lonMin)
	posLat = (lat - latMin) / (latMax - latMin)
	return posLon, posLat
}
