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

package remap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNamelist(t *testing.T) {
	dir := t.TempDir()
	nl := &namelist{
		GridType:         "a regular grid.",
		DataFile:         "/data/lfff00000000.nc",
		FileOut:          "/data/out.nc",
		NumDates:         4,
		OutRegridOptions: regridOptions[Switzerland],
		InGridFile:       "/data/grid.nc",
		VarnameTranslation: `varname_translation   = "clon_bnds:__IGNORE__", "clat_bnds:__IGNORE__",
                         "clon:__IGNORE__", "clat:__IGNORE__"`,
	}
	path := filepath.Join(dir, "NAMELIST_ICON_REG_REMAP")
	if err := nl.write(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{
		"&RunSpecification",
		"in_file='/data/lfff00000000.nc'",
		"out_file='/data/out.nc', out_type=\"NETCDF\"",
		"out_regrid_target = 'geolatlon,5500000,45500000,11000000,48000000,55000,25000'",
		"in_size_vdate = 4",
		`"clon:__IGNORE__", "clat:__IGNORE__"`,
		"icon_grid_description = '/data/grid.nc'",
		`&Process in_field = "U" /`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("namelist missing %q:\n%s", want, out)
		}
	}
}

func TestRegridOptions(t *testing.T) {
	if _, ok := regridOptions[Europe]; !ok {
		t.Error("no regrid options for Europe")
	}
	ip := &Interpolator{Executable: "true", WorkDir: t.TempDir()}
	if _, err := ip.ToRegularGrid(context.Background(), "a.nc", "g.nc", 1, Region("atlantis")); err == nil {
		t.Error("unknown region: have nil error, want error")
	}
}

func TestRunStatus(t *testing.T) {
	dir := t.TempDir()
	ip := &Interpolator{WorkDir: dir}

	// The dummy executables stand in for fieldextra; they are given
	// the namelist path as their argument and their output becomes
	// the log.
	ip.Executable = "echo all products have been processed successfully;true"
	_, err := ip.ToRegularGrid(context.Background(), "a.nc", "g.nc", 1, Switzerland)
	if err != nil {
		t.Errorf("successful run: unexpected error %v", err)
	}

	ip.Executable = "echo program exception encountered;true"
	_, err = ip.ToRegularGrid(context.Background(), "a.nc", "g.nc", 1, Switzerland)
	if err == nil {
		t.Error("failed run: have nil error, want error")
	} else if !strings.Contains(err.Error(), "check the log") {
		t.Errorf("failed run: have error %v, want log pointer", err)
	}

	ip.Executable = "exit 3;echo"
	if _, err := ip.ToRegularGrid(context.Background(), "a.nc", "g.nc", 1, Switzerland); err == nil {
		t.Error("nonzero exit: have nil error, want error")
	}
}

func TestToICONGridNamelist(t *testing.T) {
	dir := t.TempDir()
	ip := &Interpolator{
		WorkDir:    dir,
		Executable: "echo all products have been processed successfully;true",
	}
	out, err := ip.ToICONGrid(context.Background(), "lfff00000000.nc", "fine.nc", "coarse.nc", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "lfff00000000_interpolated_ICONgrid.nc") {
		t.Errorf("unexpected output path %s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "NAMELIST_ICON_ICON_REMAP"))
	if err != nil {
		t.Fatal(err)
	}
	nl := string(b)
	if !strings.Contains(nl, "out_regrid_target = 'icon_grid,cell,") {
		t.Errorf("namelist missing icon_grid target:\n%s", nl)
	}
	if strings.Contains(nl, "__IGNORE__") {
		t.Errorf("ICON-to-ICON namelist should not translate variable names:\n%s", nl)
	}
}
