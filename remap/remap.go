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

// Package remap interpolates ICON data to a regular grid or to a
// coarser ICON grid by generating a fieldextra namelist and running the
// fieldextra executable with it. Plotting vector data such as wind is
// usually done on the regular grid so that the arrow density can be
// scaled.
//
// See https://github.com/COSMO-ORG/fieldextra for the namelist format.
package remap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"
)

// Region selects one of the predefined regular output grids.
type Region string

const (
	Switzerland Region = "switzerland"
	Europe      Region = "europe"
)

// regridOptions holds the fieldextra out_regrid_target specification
// per region: projection, west, south, east, north, dlon, dlat in
// microdegrees.
var regridOptions = map[Region]string{
	Switzerland: "geolatlon,5500000,45500000,11000000,48000000,55000,25000",
	Europe:      "geolatlon,0,40000000,20000000,50000000,200000,100000",
}

// An Interpolator runs fieldextra remapping jobs.
type Interpolator struct {
	// Executable is the path to the fieldextra binary. If empty, the
	// FIELDEXTRA_PATH environment variable is used.
	Executable string

	// WorkDir receives the generated namelist, the log file, and the
	// interpolated output. It defaults to tmp/fieldextra under the
	// current directory.
	WorkDir string

	// Log receives progress information. If nil, the logrus standard
	// logger is used.
	Log logrus.FieldLogger
}

func (ip *Interpolator) logger() logrus.FieldLogger {
	if ip.Log == nil {
		return logrus.StandardLogger()
	}
	return ip.Log
}

func (ip *Interpolator) workDir() (string, error) {
	dir := ip.WorkDir
	if dir == "" {
		dir = filepath.Join("tmp", "fieldextra")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("remap: resolving work directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("remap: creating work directory: %v", err)
	}
	return dir, nil
}

func (ip *Interpolator) executable() (string, error) {
	if ip.Executable != "" {
		return ip.Executable, nil
	}
	if exe := os.Getenv("FIELDEXTRA_PATH"); exe != "" {
		return exe, nil
	}
	return "", fmt.Errorf("remap: fieldextra executable not configured and FIELDEXTRA_PATH not set")
}

// ToRegularGrid interpolates the ICON data in dataFile, which lives on
// the grid described by gridFile, to the regular grid of the given
// region. numDates is the number of time steps in the data. It returns
// the path of the interpolated NetCDF file; the namelist and the
// fieldextra log are kept next to it.
func (ip *Interpolator) ToRegularGrid(ctx context.Context, dataFile, gridFile string, numDates int, region Region) (string, error) {
	opts, ok := regridOptions[Region(strings.ToLower(string(region)))]
	if !ok {
		return "", fmt.Errorf("remap: unknown region %q", region)
	}
	dir, err := ip.workDir()
	if err != nil {
		return "", err
	}
	dataFile, gridFile, err = absPaths(dataFile, gridFile)
	if err != nil {
		return "", err
	}
	fileOut := filepath.Join(dir, stem(dataFile)+"_interpolated_regulargrid.nc")
	nl := &namelist{
		GridType:         "a regular grid.",
		DataFile:         dataFile,
		FileOut:          fileOut,
		NumDates:         numDates,
		OutRegridOptions: opts,
		InGridFile:       gridFile,
		// The unstructured coordinates do not exist on the regular
		// output grid.
		VarnameTranslation: `varname_translation   = "clon_bnds:__IGNORE__", "clat_bnds:__IGNORE__",
                         "clon:__IGNORE__", "clat:__IGNORE__"`,
	}
	nlPath := filepath.Join(dir, "NAMELIST_ICON_REG_REMAP")
	if err := nl.write(nlPath); err != nil {
		return "", err
	}
	ip.logger().WithFields(logrus.Fields{
		"namelist": nlPath,
		"region":   region,
	}).Info("remapping to regular grid")
	if err := ip.run(ctx, nlPath, filepath.Join(dir, "LOG_ICON_REG_REMAP.txt")); err != nil {
		return "", err
	}
	return fileOut, nil
}

// ToICONGrid interpolates the ICON data in dataFile from the grid
// described by inGridFile to the (usually coarser) ICON grid described
// by outGridFile. numDates is the number of time steps in the data. It
// returns the path of the interpolated NetCDF file.
func (ip *Interpolator) ToICONGrid(ctx context.Context, dataFile, inGridFile, outGridFile string, numDates int) (string, error) {
	dir, err := ip.workDir()
	if err != nil {
		return "", err
	}
	dataFile, inGridFile, err = absPaths(dataFile, inGridFile)
	if err != nil {
		return "", err
	}
	if outGridFile, err = filepath.Abs(outGridFile); err != nil {
		return "", fmt.Errorf("remap: resolving path: %v", err)
	}
	fileOut := filepath.Join(dir, stem(dataFile)+"_interpolated_ICONgrid.nc")
	nl := &namelist{
		GridType:         "another (coarser) ICON Grid.",
		DataFile:         dataFile,
		FileOut:          fileOut,
		NumDates:         numDates,
		OutRegridOptions: "icon_grid,cell," + outGridFile,
		InGridFile:       inGridFile,
		OutGridFile:      outGridFile,
	}
	nlPath := filepath.Join(dir, "NAMELIST_ICON_ICON_REMAP")
	if err := nl.write(nlPath); err != nil {
		return "", err
	}
	ip.logger().WithFields(logrus.Fields{
		"namelist": nlPath,
		"out_grid": outGridFile,
	}).Info("remapping to ICON grid")
	if err := ip.run(ctx, nlPath, filepath.Join(dir, "LOG_ICON_ICON_REMAP.txt")); err != nil {
		return "", err
	}
	return fileOut, nil
}

// run executes fieldextra with the given namelist, writing its combined
// output to logPath, and checks the final status line of the log.
// fieldextra needs an unlimited stack and a large OpenMP stack, so the
// command runs through the shell.
func (ip *Interpolator) run(ctx context.Context, nlPath, logPath string) error {
	exe, err := ip.executable()
	if err != nil {
		return err
	}
	shcmd := fmt.Sprintf("ulimit -s unlimited; export OMP_STACKSIZE=500M; %s %s", exe, nlPath)
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", shcmd)
	out, err := cmd.CombinedOutput()
	if werr := os.WriteFile(logPath, out, 0644); werr != nil {
		return fmt.Errorf("remap: writing log file: %v", werr)
	}
	if err != nil {
		return fmt.Errorf("remap: running fieldextra: %v; check the log: %s", err, logPath)
	}
	return checkLog(logPath)
}

// checkLog inspects the last nonempty line fieldextra wrote: a
// successful run reports "...successfully..." and a failed one an
// exception.
func checkLog(logPath string) error {
	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("remap: opening log file: %v", err)
	}
	defer f.Close()
	lastLine := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); len(line) > 1 {
			lastLine = line
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("remap: reading log file: %v", err)
	}
	lower := strings.ToLower(lastLine)
	if strings.Contains(lower, "exception") {
		return fmt.Errorf("remap: fieldextra did not run successfully, check the log: %s", logPath)
	}
	if !strings.Contains(lower, "successfully") {
		return fmt.Errorf("remap: unexpected fieldextra status %q, check the log: %s", lastLine, logPath)
	}
	return nil
}

func absPaths(a, b string) (string, string, error) {
	var err error
	if a, err = filepath.Abs(a); err != nil {
		return "", "", fmt.Errorf("remap: resolving path: %v", err)
	}
	if b, err = filepath.Abs(b); err != nil {
		return "", "", fmt.Errorf("remap: resolving path: %v", err)
	}
	return a, b, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type namelist struct {
	GridType           string
	DataFile           string
	FileOut            string
	NumDates           int
	OutRegridOptions   string
	InGridFile         string
	OutGridFile        string
	VarnameTranslation string
}

func (nl *namelist) write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("remap: creating namelist: %v", err)
	}
	defer f.Close()
	if err := namelistTemplate.Execute(f, nl); err != nil {
		return fmt.Errorf("remap: writing namelist: %v", err)
	}
	return nil
}

var namelistTemplate = template.Must(template.New("remap").Parse(`
!*********************************************************************************************
! Namelist for remapping ICON grid to {{.GridType}}
! Usage: fieldextra remap.nl
!        where fieldextra points to /project/s83c/fieldextra/tsa/bin/fieldextra_gnu_opt_omp
!        or /project/s83c/fieldextra/daint/bin/fieldextra_gnu_opt_omp
!*********************************************************************************************
!!!! HEADER
! Global settings
&RunSpecification
 verbosity             = "high"
 additional_diagnostic = .true.
 n_ompthread_total = 6
/
&GlobalResource
 dictionary            = "/project/s83c/fieldextra/tsa/resources/dictionary_icon.txt"
 grib_definition_path  = "/project/s83c/fieldextra/tsa/resources/eccodes_definitions_cosmo",
                         "/project/s83c/fieldextra/tsa/resources/eccodes_definitions_vendor"
 grib2_sample          = "/project/s83c/fieldextra/tsa/resources/eccodes_samples/COSMO_GRIB2_default.tmpl"
 icon_grid_description = '{{.InGridFile}}',
                         '{{.OutGridFile}}'
/
&GlobalSettings
 default_model_name            = "icon"
 default_product_category      = "determinist"
 default_out_type_stdlongitude = .true.
/
! Model specifc information
&ModelSpecification
 model_name            = "icon"
 regrid_method         = "icontools,rbf",
/
! Information associated to imported NetCDF file
&NetCDFImport
 dim_default_attribute = "ncells:long_name=unstructured_grid_cell_index value=index",
                         "alt: axis=z standard_name=height",
 {{.VarnameTranslation}}
/
!!!! PRODUCT
&Process
  in_file='{{.DataFile}}'
  out_file='{{.FileOut}}', out_type="NETCDF",
  out_regrid_target = '{{.OutRegridOptions}}'
  out_regrid_method = "default"
  in_size_vdate = {{.NumDates}}
  out_type_nccoordbnds = .true.
/
&Process in_field = "U" /
&Process in_field = "V" /
`))
