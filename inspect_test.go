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
	"strings"
	"testing"
)

func TestShowDataVars(t *testing.T) {
	ds := testDataset()
	if err := CombineGridInformation(ds, testGrid()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ShowDataVars(&buf, ds); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "temp") {
		t.Errorf("output missing variable temp:\n%s", out)
	}
	if !strings.Contains(out, "air temperature") {
		t.Errorf("output missing long_name:\n%s", out)
	}
	// Coordinates are not data variables.
	if strings.Contains(out, "clon") {
		t.Errorf("output should not list coordinate clon:\n%s", out)
	}
}

func TestInspect(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer
	if err := Inspect(&buf, ds); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"dimensions:", "ncells", "variables:", "temp", "time,ncells", "institution"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
