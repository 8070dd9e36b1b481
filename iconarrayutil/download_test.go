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
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMaybeDownloadLocal(t *testing.T) {
	if k, err := maybeDownload(context.Background(), "/dev/null", logrus.StandardLogger()); err != nil || k != "/dev/null" {
		t.Errorf("have %v (%v), want /dev/null", k, err)
	}
}

func TestMaybeDownloadMissingLocal(t *testing.T) {
	if k, err := maybeDownload(context.Background(), "/blah/test/", logrus.StandardLogger()); err != nil || k != "/blah/test/" {
		t.Errorf("have %v (%v), want /blah/test/", k, err)
	}
}

func TestMaybeDownloadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("grid bytes"))
	}))
	defer srv.Close()

	k, err := maybeDownload(context.Background(), srv.URL+"/icon_grid.nc", logrus.StandardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(k, "icon_grid.nc") {
		t.Errorf("have %v, want path ending in icon_grid.nc", k)
	}
	b, err := ioutil.ReadFile(k)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "grid bytes" {
		t.Errorf("have %q, want %q", string(b), "grid bytes")
	}
}

func TestIsBlob(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"gs://bucket/grid.nc", true},
		{"s3://bucket/grid.nc", true},
		{"file://dir/grid.nc", true},
		{"/local/grid.nc", false},
		{"https://example.com/grid.nc", false},
	}
	for _, test := range tests {
		if have := IsBlob(test.path); have != test.want {
			t.Errorf("IsBlob(%s): have %v, want %v", test.path, have, test.want)
		}
	}
}

func TestExpandShp(t *testing.T) {
	have := expandShp("dir/borders.shp")
	want := []string{"dir/borders.shp", "dir/borders.dbf", "dir/borders.shx", "dir/borders.prj"}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	have = expandShp("dir/grid.nc")
	if !reflect.DeepEqual(have, []string{"dir/grid.nc"}) {
		t.Errorf("have %v, want %v", have, []string{"dir/grid.nc"})
	}
}

func TestOpenBucketInvalidProvider(t *testing.T) {
	if _, err := OpenBucket(context.Background(), "bogus://bucket"); err == nil {
		t.Error("expected an error for an invalid provider")
	}
}
