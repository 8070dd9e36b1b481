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

// Command iconarray is a command-line interface for working with ICON
// model output on unstructured grids.
package main

import (
	"fmt"
	"os"

	"github.com/C2SM/iconarray/iconarrayutil"
)

func main() {
	if err := iconarrayutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
