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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/C2SM/iconarray"
	"github.com/ctessum/sparse"
)

func TestOptionDefaults(t *testing.T) {
	tests := []struct {
		name string
		want interface{}
	}{
		{"location", "cell"},
		{"metric", "planar"},
		{"width", 800},
		{"n", 1},
		{"numdates", 1},
		{"region", "switzerland"},
	}
	for _, test := range tests {
		if have := Cfg.Get(test.name); fmt.Sprint(have) != fmt.Sprint(test.want) {
			t.Errorf("%s: have %v, want %v", test.name, have, test.want)
		}
	}
}

func TestSetConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("maxdistance = 7.5\nworkdir = \"/tmp/fieldextra\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Root.PersistentFlags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	defer Root.PersistentFlags().Set("config", "")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	if have := Cfg.GetFloat64("maxdistance"); have != 7.5 {
		t.Errorf("have %v, want 7.5", have)
	}
	if have := Cfg.GetString("workdir"); have != "/tmp/fieldextra" {
		t.Errorf("have %v, want /tmp/fieldextra", have)
	}
}

func TestMetricFromName(t *testing.T) {
	if m, err := metricFromName("Planar"); err != nil || m != iconarray.Planar {
		t.Errorf("have %v (%v), want Planar", m, err)
	}
	if m, err := metricFromName("greatcircle"); err != nil || m != iconarray.GreatCircle {
		t.Errorf("have %v (%v), want GreatCircle", m, err)
	}
	if _, err := metricFromName("spherical"); err == nil {
		t.Error("expected an error for an unknown metric")
	}
}

func TestCellValues(t *testing.T) {
	data := sparse.ZerosDense(2, 3)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	v := &iconarray.Variable{Data: data, Dims: []string{"time", "cell"}}
	vals, err := cellValues(v, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 2}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("index %d: have %v, want %v", i, vals[i], want[i])
		}
	}
	if _, err := cellValues(v, 4); err == nil {
		t.Error("expected an error for a mismatched cell count")
	}
}

func TestLocateCommand(t *testing.T) {
	path := writeTestGrid(t)
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	Root.SetArgs([]string{"locate", "1", "0", "--grid", path})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if have := strings.TrimSpace(buf.String()); have != "1\t0" {
		t.Errorf("have %q, want %q", have, "1\t0")
	}
}

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("iconarray v%s", iconarray.Version)
	if have := strings.TrimSpace(buf.String()); have != want {
		t.Errorf("have %q, want %q", have, want)
	}
}
