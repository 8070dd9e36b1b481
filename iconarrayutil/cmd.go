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

// Package iconarrayutil wires the iconarray library into a command-line
// tool: configuration handling, file downloads, and the command tree.
package iconarrayutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/C2SM/iconarray"
	"github.com/C2SM/iconarray/plot"
	"github.com/C2SM/iconarray/remap"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives progress information from the commands.
var Log = logrus.StandardLogger()

// grids caches parsed grid files across commands.
var grids = NewGridCache(4, Log)

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to iconarray.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "grid",
			usage: `
              grid specifies the location of the ICON grid file. It can be
              a local path, an http(s) URL, or a blob storage location
              (gs://, s3://, file://).`,
			shorthand:  "g",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{
				locateCmd.Flags(), cropCmd.Flags(), checkCmd.Flags(),
				inspectCmd.Flags(), plotCmd.Flags(), remapCmd.PersistentFlags(),
			},
		},
		{
			name: "data",
			usage: `
              data specifies the location of the model output file. It can
              be a local path, an http(s) URL, or a blob storage location
              (gs://, s3://, file://).`,
			shorthand:  "d",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{
				inspectCmd.Flags(), cropCmd.Flags(), plotCmd.Flags(),
				remapCmd.PersistentFlags(),
			},
		},
		{
			name: "full",
			usage: `
              full prints the dataset's dimensions, attributes, and
              variables instead of the data variable table.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{inspectCmd.Flags()},
		},
		{
			name: "location",
			usage: `
              location specifies which grid elements to query: cell, edge,
              or vertex.`,
			defaultVal: "cell",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "metric",
			usage: `
              metric specifies the distance metric for nearest-neighbor
              queries: 'planar' for Euclidean distance on the raw
              coordinate values, or 'greatcircle' for haversine distance
              in meters (coordinates in degrees).`,
			defaultVal: "planar",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "maxdistance",
			usage: `
              maxdistance rejects matches farther away than the given
              distance, in the units of the chosen metric. Zero or
              negative means no limit.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "n",
			usage: `
              n specifies how many nearest grid elements to report.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "lonmin",
			usage: `
              lonmin specifies the western edge of the crop box, in the
              units of the grid coordinates.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cropCmd.Flags()},
		},
		{
			name: "lonmax",
			usage: `
              lonmax specifies the eastern edge of the crop box.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cropCmd.Flags()},
		},
		{
			name: "latmin",
			usage: `
              latmin specifies the southern edge of the crop box.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cropCmd.Flags()},
		},
		{
			name: "latmax",
			usage: `
              latmax specifies the northern edge of the crop box.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cropCmd.Flags()},
		},
		{
			name: "outgrid",
			usage: `
              outgrid specifies where to write the cropped grid file, or,
              for 'remap toicon', the grid file describing the target
              grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cropCmd.Flags(), remapICONCmd.Flags()},
		},
		{
			name: "outdata",
			usage: `
              outdata specifies where to write the cropped model output
              file. If empty, only the grid is cropped.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cropCmd.Flags()},
		},
		{
			name: "numdates",
			usage: `
              numdates specifies the number of time steps in the model
              output file being remapped.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{remapCmd.PersistentFlags()},
		},
		{
			name: "region",
			usage: `
              region specifies the target region for remapping to a
              regular grid: switzerland or europe.`,
			defaultVal: "switzerland",
			flagsets:   []*pflag.FlagSet{remapRegularCmd.Flags()},
		},
		{
			name: "fieldextra",
			usage: `
              fieldextra specifies the path to the fieldextra executable.
              If empty, the FIELDEXTRA_PATH environment variable is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{remapCmd.PersistentFlags()},
		},
		{
			name: "workdir",
			usage: `
              workdir receives the generated fieldextra namelist, log, and
              output files.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{remapCmd.PersistentFlags()},
		},
		{
			name: "var",
			usage: `
              var specifies the name of the variable to plot.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "extent",
			usage: `
              extent specifies the plot bounding box as four values:
              north, south, east, west, in the units of the grid
              coordinates.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width specifies the width of the plot in pixels.`,
			defaultVal: 800,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "borders",
			usage: `
              borders specifies a shapefile of political borders to draw
              on the plot. Empty means no borders.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "rivers",
			usage: `
              rivers specifies a shapefile of rivers to draw on the plot.
              Empty means no rivers.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "lakes",
			usage: `
              lakes specifies a shapefile of lakes to draw on the plot.
              Empty means no lakes.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out specifies where to write the plot PNG.`,
			shorthand:  "o",
			defaultVal: "plot.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "legend",
			usage: `
              legend specifies where to write the color legend PNG. Empty
              means no legend.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ICONARRAY")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(locateCmd)
	Root.AddCommand(cropCmd)
	Root.AddCommand(checkCmd)
	Root.AddCommand(remapCmd)
	remapCmd.AddCommand(remapRegularCmd)
	remapCmd.AddCommand(remapICONCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(fetchCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("iconarray: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "iconarray",
	Short: "Work with ICON model output on unstructured grids.",
	Long: `iconarray reads ICON grid and model output files and provides
nearest-neighbor lookup, cropping, consistency checking, statistics,
plotting, and fieldextra-driven remapping.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ICONARRAY_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of iconarray.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("iconarray v%s\n", iconarray.Version)
	},
	DisableAutoGenTag: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a model output file.",
	Long: `inspect prints a table of the data variables in the model output
file given by --data. With --full it prints the file's dimensions,
attributes, and variables instead. If --grid is given and the file does
not already carry grid coordinates, the grid's coordinates are attached
before printing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openData(context.Background(), Cfg.GetString("data"))
		if err != nil {
			return err
		}
		if gridPath := Cfg.GetString("grid"); gridPath != "" && !iconarray.CheckGridInformation(ds) {
			g, err := grids.Grid(context.Background(), gridPath)
			if err != nil {
				return err
			}
			if err := iconarray.CombineGridInformation(ds, g); err != nil {
				return err
			}
		}
		if Cfg.GetBool("full") {
			return iconarray.Inspect(cmd.OutOrStdout(), ds)
		}
		return iconarray.ShowDataVars(cmd.OutOrStdout(), ds)
	},
	DisableAutoGenTag: true,
}

var locateCmd = &cobra.Command{
	Use:   "locate lon lat",
	Short: "Find the grid element nearest to a point.",
	Long: `locate finds the index of the grid cell (or edge or vertex, with
--location) nearest to the given longitude and latitude, using the grid
file given by --grid. With -n greater than one, the n nearest elements
are reported in order of increasing distance.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lon, err := cast.ToFloat64E(args[0])
		if err != nil {
			return fmt.Errorf("iconarray: parsing longitude %s: %v", args[0], err)
		}
		lat, err := cast.ToFloat64E(args[1])
		if err != nil {
			return fmt.Errorf("iconarray: parsing latitude %s: %v", args[1], err)
		}
		g, err := grids.Grid(context.Background(), Cfg.GetString("grid"))
		if err != nil {
			return err
		}
		metric, err := metricFromName(Cfg.GetString("metric"))
		if err != nil {
			return err
		}
		l, err := g.Locator(iconarray.Location(Cfg.GetString("location")), metric)
		if err != nil {
			return err
		}
		l.MaxDistance = Cfg.GetFloat64("maxdistance")
		p := iconarray.Point{Lon: lon, Lat: lat}
		if n := Cfg.GetInt("n"); n > 1 {
			matches, err := l.NearestN(p, n)
			if err != nil {
				return err
			}
			for _, m := range matches {
				cmd.Printf("%d\t%g\n", m.Index, m.Distance)
			}
			return nil
		}
		m, err := l.Nearest(p)
		if err != nil {
			return err
		}
		cmd.Printf("%d\t%g\n", m.Index, m.Distance)
		return nil
	},
	DisableAutoGenTag: true,
}

var cropCmd = &cobra.Command{
	Use:   "crop",
	Short: "Crop a grid (and optionally a model output file) to a box.",
	Long: `crop selects the grid cells whose centers fall inside the box given
by --lonmin, --lonmax, --latmin, and --latmax, together with the edges
and vertices belonging to them, and writes the cropped grid to
--outgrid. If --data and --outdata are given as well, the model output
file is cropped to the same elements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := grids.Grid(context.Background(), Cfg.GetString("grid"))
		if err != nil {
			return err
		}
		c, err := iconarray.NewCrop(g,
			Cfg.GetFloat64("lonmin"), Cfg.GetFloat64("lonmax"),
			Cfg.GetFloat64("latmin"), Cfg.GetFloat64("latmax"))
		if err != nil {
			return err
		}
		outGrid := Cfg.GetString("outgrid")
		if outGrid == "" {
			return fmt.Errorf("iconarray: crop requires --outgrid")
		}
		w, err := os.Create(outGrid)
		if err != nil {
			return err
		}
		if err := iconarray.WriteGrid(w, c.Grid()); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"cells": c.Grid().NCell,
			"path":  outGrid,
		}).Info("wrote cropped grid")

		if dataPath := Cfg.GetString("data"); dataPath != "" {
			outData := Cfg.GetString("outdata")
			if outData == "" {
				return fmt.Errorf("iconarray: cropping --data requires --outdata")
			}
			ds, err := openData(context.Background(), dataPath)
			if err != nil {
				return err
			}
			if err := iconarray.CombineGridInformation(ds, g); err != nil {
				return err
			}
			cropped, err := c.Apply(ds)
			if err != nil {
				return err
			}
			dw, err := os.Create(outData)
			if err != nil {
				return err
			}
			if err := iconarray.WriteDataset(dw, cropped); err != nil {
				dw.Close()
				return err
			}
			if err := dw.Close(); err != nil {
				return err
			}
			Log.WithFields(logrus.Fields{
				"path": outData,
			}).Info("wrote cropped data")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the consistency of a grid file.",
	Long: `check verifies that the connectivity tables of the grid file given
by --grid agree with each other: walking from cells over edges reaches
exactly the recorded vertices and neighbor cells, and no element lists
itself as its own neighbor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := grids.Grid(context.Background(), Cfg.GetString("grid"))
		if err != nil {
			return err
		}
		ok, err := iconarray.GridConsistencyCheck(g)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("iconarray: grid connectivity tables are inconsistent")
		}
		cmd.Println("grid is consistent")
		return nil
	},
	DisableAutoGenTag: true,
}

var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Remap model output with fieldextra.",
	Long: `remap drives the fieldextra program to interpolate ICON model
output. Use the subcommands specified below to choose a target grid.`,
	DisableAutoGenTag: true,
}

var remapRegularCmd = &cobra.Command{
	Use:   "toregular",
	Short: "Interpolate model output to a regular lat/lon grid.",
	Long: `toregular interpolates the model output file given by --data to the
regular latitude/longitude grid of the region given by --region.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip := interpolator()
		out, err := ip.ToRegularGrid(context.Background(),
			Cfg.GetString("data"), Cfg.GetString("grid"),
			Cfg.GetInt("numdates"), remap.Region(strings.ToLower(Cfg.GetString("region"))))
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	},
	DisableAutoGenTag: true,
}

var remapICONCmd = &cobra.Command{
	Use:   "toicon",
	Short: "Interpolate model output to another ICON grid.",
	Long: `toicon interpolates the model output file given by --data from the
grid given by --grid to the ICON grid given by --outgrid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip := interpolator()
		out, err := ip.ToICONGrid(context.Background(),
			Cfg.GetString("data"), Cfg.GetString("grid"),
			Cfg.GetString("outgrid"), Cfg.GetInt("numdates"))
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a variable on the grid.",
	Long: `plot draws the variable given by --var from the model output file
given by --data on the cell polygons of the grid given by --grid, and
writes the result as a PNG to --out. Shapefiles of borders, rivers, and
lakes can be overlaid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := grids.Grid(context.Background(), Cfg.GetString("grid"))
		if err != nil {
			return err
		}
		ds, err := openData(context.Background(), Cfg.GetString("data"))
		if err != nil {
			return err
		}
		name := Cfg.GetString("var")
		v, ok := ds.Vars[name]
		if !ok {
			return fmt.Errorf("iconarray: variable %s not in dataset", name)
		}
		vals, err := cellValues(v, g.NCell)
		if err != nil {
			return err
		}

		north, south, east, west, err := plotExtent(g)
		if err != nil {
			return err
		}
		title := name
		if units, ok := v.Attrs["units"]; ok {
			title = fmt.Sprintf("%s [%s]", name, units)
		}
		cfg := &plot.MapConfig{
			North: north, South: south, East: east, West: west,
			Width:    Cfg.GetInt("width"),
			Title:    title,
			Features: plotFeatures(),
		}
		w, err := os.Create(Cfg.GetString("out"))
		if err != nil {
			return err
		}
		m, err := cfg.Render(g, vals, w)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		if legendPath := Cfg.GetString("legend"); legendPath != "" {
			lw, err := os.Create(legendPath)
			if err != nil {
				return err
			}
			if err := m.Legend(lw, cfg.Title); err != nil {
				lw.Close()
				return err
			}
			return lw.Close()
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch location...",
	Short: "Download remote files.",
	Long: `fetch downloads the given http(s) URLs or blob storage locations
(gs://, s3://, file://) and prints the local path of each downloaded
file. Local paths are printed unchanged. Shapefiles are downloaded
together with their associated files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			local, err := maybeDownload(context.Background(), arg, Log)
			if err != nil {
				return err
			}
			cmd.Println(local)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// openData downloads the model output file if it is remote and reads it.
func openData(ctx context.Context, path string) (*iconarray.Dataset, error) {
	if path == "" {
		return nil, fmt.Errorf("iconarray: no model output file; use --data")
	}
	local, err := maybeDownload(ctx, path, Log)
	if err != nil {
		return nil, err
	}
	return iconarray.OpenDataset(local)
}

// interpolator builds a fieldextra driver from the configuration.
func interpolator() *remap.Interpolator {
	return &remap.Interpolator{
		Executable: Cfg.GetString("fieldextra"),
		WorkDir:    Cfg.GetString("workdir"),
		Log:        Log,
	}
}

// metricFromName converts a metric name from the configuration to a
// distance metric.
func metricFromName(name string) (iconarray.Metric, error) {
	switch strings.ToLower(name) {
	case "planar":
		return iconarray.Planar, nil
	case "greatcircle", "great-circle":
		return iconarray.GreatCircle, nil
	}
	return 0, fmt.Errorf("iconarray: unknown distance metric %q", name)
}

// cellValues extracts one value per grid cell from a variable whose
// innermost dimension ranges over cells, taking the first index of any
// leading dimensions (e.g. the first time step and lowest level).
func cellValues(v *iconarray.Variable, nCell int) ([]float64, error) {
	shape := v.Data.Shape
	if len(shape) == 0 || shape[len(shape)-1] != nCell {
		return nil, fmt.Errorf("iconarray: variable shape %v does not end in the grid's %d cells", shape, nCell)
	}
	return v.Data.Elements[:nCell], nil
}

// plotExtent returns the plot bounding box, either from the extent
// configuration option (north, south, east, west) or, if that is unset,
// from the extent of the grid's cell centers.
func plotExtent(g *iconarray.Grid) (north, south, east, west float64, err error) {
	ext := Cfg.GetStringSlice("extent")
	if len(ext) == 4 {
		vals := make([]float64, 4)
		for i, s := range ext {
			vals[i], err = cast.ToFloat64E(s)
			if err != nil {
				return 0, 0, 0, 0, fmt.Errorf("iconarray: parsing extent value %s: %v", s, err)
			}
		}
		return vals[0], vals[1], vals[2], vals[3], nil
	}
	if len(ext) != 0 {
		return 0, 0, 0, 0, fmt.Errorf("iconarray: extent needs 4 values (north, south, east, west), got %d", len(ext))
	}
	if g.NCell == 0 {
		return 0, 0, 0, 0, &iconarray.EmptyGridError{}
	}
	north, south = g.CLat[0], g.CLat[0]
	east, west = g.CLon[0], g.CLon[0]
	for i := range g.CLat {
		if g.CLat[i] > north {
			north = g.CLat[i]
		}
		if g.CLat[i] < south {
			south = g.CLat[i]
		}
		if g.CLon[i] > east {
			east = g.CLon[i]
		}
		if g.CLon[i] < west {
			west = g.CLon[i]
		}
	}
	return north, south, east, west, nil
}

// plotFeatures builds the overlay features requested in the
// configuration, downloading remote shapefiles first.
func plotFeatures() []plot.Feature {
	var features []plot.Feature
	if path := fetchShapefile(context.Background(), Cfg.GetString("borders")); path != "" {
		features = append(features, &plot.Borders{Shapefile: path})
	}
	if path := fetchShapefile(context.Background(), Cfg.GetString("rivers")); path != "" {
		features = append(features, &plot.Rivers{Shapefile: path})
	}
	if path := fetchShapefile(context.Background(), Cfg.GetString("lakes")); path != "" {
		features = append(features, &plot.Lakes{Shapefile: path})
	}
	return features
}

func fetchShapefile(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	local, err := maybeDownload(ctx, path, Log)
	if err != nil {
		Log.WithFields(logrus.Fields{
			"path": path,
		}).Warnf("skipping overlay: %v", err)
		return ""
	}
	return local
}
