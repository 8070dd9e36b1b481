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
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// ShowDataVars writes a table of the dataset's data variables to w:
// the variable name followed by its descriptive attributes. GRIB
// datasets converted to NetCDF carry the GRIB_* names; plain NetCDF
// variables leave those columns empty.
func ShowDataVars(w io.Writer, ds *Dataset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tlong_name\tGRIB_cfVarName\tGRIB_shortName\tunits")
	for _, name := range ds.DataVarNames() {
		v := ds.Vars[name]
		longName := v.Attrs["long_name"]
		if len(longName) > 28 {
			longName = longName[:28] + ".."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			name, longName, v.Attrs["GRIB_cfVarName"], v.Attrs["GRIB_shortName"], v.Attrs["units"])
	}
	return tw.Flush()
}

// Inspect writes an inventory of the dataset to w: its dimensions,
// global attributes, and per-variable shapes and descriptive
// attributes.
func Inspect(w io.Writer, ds *Dataset) error {
	fmt.Fprintln(w, "dimensions:")
	dimNames := make([]string, 0, len(ds.Dims))
	for name := range ds.Dims {
		dimNames = append(dimNames, name)
	}
	sort.Strings(dimNames)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range dimNames {
		fmt.Fprintf(tw, "  %s\t%d\n", name, ds.Dims[name])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(ds.Attrs) > 0 {
		fmt.Fprintln(w, "attributes:")
		attrNames := make([]string, 0, len(ds.Attrs))
		for name := range ds.Attrs {
			attrNames = append(attrNames, name)
		}
		sort.Strings(attrNames)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range attrNames {
			fmt.Fprintf(tw, "  %s\t%s\n", name, ds.Attrs[name])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "variables:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  name\tdims\tshape\tunits\tlong_name")
	for _, name := range ds.VarNames() {
		v := ds.Vars[name]
		shape := make([]string, len(v.Data.Shape))
		for i, s := range v.Data.Shape {
			shape[i] = fmt.Sprintf("%d", s)
		}
		fmt.Fprintf(tw, "  %s\t%s\t(%s)\t%s\t%s\n",
			name, strings.Join(v.Dims, ","), strings.Join(shape, ","),
			v.Attrs["units"], v.Attrs["long_name"])
	}
	return tw.Flush()
}
