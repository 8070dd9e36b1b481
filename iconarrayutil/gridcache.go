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
	"fmt"
	"runtime"

	"github.com/C2SM/iconarray"
	"github.com/C2SM/iconarray/internal/hash"
	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
)

// GridCache loads ICON grid files, downloading them first if they are
// remote, and keeps recently loaded grids in memory so that repeated
// commands against the same grid do not re-read the file.
type GridCache struct {
	cache *requestcache.Cache
	log   logrus.FieldLogger
}

// NewGridCache creates a grid cache that holds up to n grids in memory.
func NewGridCache(n int, log logrus.FieldLogger) *GridCache {
	gc := &GridCache{log: log}
	gc.cache = requestcache.NewCache(gc.load, runtime.GOMAXPROCS(-1),
		requestcache.Deduplicate(), requestcache.Memory(n))
	return gc
}

func (gc *GridCache) load(ctx context.Context, request interface{}) (interface{}, error) {
	path := request.(string)
	localPath, err := maybeDownload(ctx, path, gc.log)
	if err != nil {
		return nil, err
	}
	gc.log.WithFields(logrus.Fields{
		"path": localPath,
	}).Info("reading grid")
	return iconarray.OpenGrid(localPath)
}

// Grid returns the grid stored at the given path, which may be a local
// file, an http(s) URL, or a blob storage location.
func (gc *GridCache) Grid(ctx context.Context, path string) (*iconarray.Grid, error) {
	req := gc.cache.NewRequest(ctx, path, "grid_"+hash.Hash(path))
	result, err := req.Result()
	if err != nil {
		return nil, fmt.Errorf("iconarrayutil: loading grid %s: %v", path, err)
	}
	return result.(*iconarray.Grid), nil
}
