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
	"testing"

	"github.com/ctessum/sparse"
)

func ensemble(members ...[]float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(members), len(members[0]))
	for i, m := range members {
		copy(a.Elements[i*len(m):(i+1)*len(m)], m)
	}
	return a
}

func TestGetStats(t *testing.T) {
	// First element: clearly separated samples. Second element:
	// identical samples.
	s1 := ensemble(
		[]float64{1.0, 5},
		[]float64{1.1, 5},
		[]float64{0.9, 5},
		[]float64{1.0, 5},
	)
	s2 := ensemble(
		[]float64{3.0, 5},
		[]float64{3.2, 5},
		[]float64{2.8, 5},
		[]float64{3.0, 5},
	)
	st, err := GetStats(s1, s2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.Mean1.Elements[0]-1) > 1e-12 {
		t.Errorf("mean1: have %g, want 1", st.Mean1.Elements[0])
	}
	if math.Abs(st.Mean2.Elements[0]-3) > 1e-12 {
		t.Errorf("mean2: have %g, want 3", st.Mean2.Elements[0])
	}
	if math.Abs(st.Diff.Elements[0]-2) > 1e-12 {
		t.Errorf("diff: have %g, want 2", st.Diff.Elements[0])
	}
	if p := st.PValue.Elements[0]; p > 0.001 {
		t.Errorf("separated samples: have p = %g, want p < 0.001", p)
	}
	if p := st.PValue.Elements[1]; p != 1 {
		t.Errorf("identical samples: have p = %g, want 1", p)
	}
}

func TestGetStatsShapeMismatch(t *testing.T) {
	s1 := sparse.ZerosDense(3, 4)
	s2 := sparse.ZerosDense(3, 5)
	if _, err := GetStats(s1, s2); err == nil {
		t.Error("have nil error, want shape mismatch error")
	}
	if _, err := GetStats(sparse.ZerosDense(1, 4), sparse.ZerosDense(3, 4)); err == nil {
		t.Error("have nil error, want too-few-members error")
	}
}

func TestWilks(t *testing.T) {
	// With alpha = 0.05 the FDR level is 0.1; the walk over the sorted
	// p-values stops at the first rank whose p-value exceeds
	// rank/N * 0.1.
	pvals := []float64{0.001, 0.002, 0.2, 0.5, 0.04, 0.8, 0.9, 0.01, 0.02, 0.03}
	pfdr, err := Wilks(pvals, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	// sorted: 0.001 0.002 0.01 0.02 0.03 0.04 0.2 0.5 0.8 0.9
	// thresholds: 0.01 0.02 0.03 0.04 0.05 0.06 0.07 ...
	// 0.002 <= 0.02 but 0.01 <= 0.03, ... first exceedance is 0.2 > 0.07.
	if pfdr != 0.2 {
		t.Errorf("have %g, want 0.2", pfdr)
	}
	if _, err := Wilks(nil, 0.05); err == nil {
		t.Error("have nil error, want error for empty input")
	}
}

func TestAddCoordinates(t *testing.T) {
	posLon, posLat := AddCoordinates(8.54, 47.38, 5.8, 10.7, 45.5, 48.0)
	if math.Abs(posLon-(8.54-5.8)/(10.7-5.8)) > 1e-12 {
		t.Errorf("posLon: have %g", posLon)
	}
	if math.Abs(posLat-(47.38-45.5)/(48.0-45.5)) > 1e-12 {
		t.Errorf("posLat: have %g", posLat)
	}
}
