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
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks whether path is an existing local file. If it is
// not, but it is an http(s) URL or a blob storage location, the file is
// downloaded and the local path of the downloaded copy is returned.
// For shapefiles, all associated files are downloaded and the path to
// the ".shp" file is returned.
func maybeDownload(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(path, log)
	}

	if IsBlob(path) {
		return downloadBlob(ctx, path, log)
	}

	return path, nil
}

// downloadHTTP downloads a file from the given URL, retrying transient
// failures with exponential backoff, and returns the path to the
// downloaded file.
func downloadHTTP(path string, log logrus.FieldLogger) (string, error) {
	dir, err := ioutil.TempDir("", "iconarray")
	if err != nil {
		return "", fmt.Errorf("iconarrayutil: creating temporary download directory: %v", err)
	}

	fnames := expandShp(path)
	for _, fname := range fnames {
		w, err := os.Create(filepath.Join(dir, filepath.Base(fname)))
		if err != nil {
			return "", fmt.Errorf("iconarrayutil: creating file for download: %v", err)
		}
		err = backoff.RetryNotify(
			func() error {
				resp, err := http.Get(fname)
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("downloading %s: %s", fname, resp.Status)
				}
				_, err = io.Copy(w, resp.Body)
				return err
			},
			backoff.NewExponentialBackOff(),
			func(err error, d time.Duration) {
				log.WithFields(logrus.Fields{
					"url": fname,
				}).Warnf("%v: retrying in %v", err, d)
			},
		)
		w.Close()
		if err != nil {
			return "", fmt.Errorf("iconarrayutil: downloading %s: %v", fname, err)
		}
	}
	return filepath.Join(dir, filepath.Base(fnames[0])), nil
}

// IsBlob returns whether the given filename represents a blob storage
// location (i.e., if it starts with 'gs://', 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// which must be in the format 'provider://name'. The accepted storage
// providers are "file" for the local filesystem (e.g., for testing),
// "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	url, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("iconarrayutil.OpenBucket: %v", err)
	}
	switch url.Scheme {
	case "file":
		return fileblob.NewBucket(url.Hostname())
	case "gs":
		return gsBucket(ctx, url.Hostname())
	case "s3":
		return s3Bucket(ctx, url.Hostname())
	default:
		return nil, fmt.Errorf("iconarrayutil.OpenBucket: invalid provider %s", url.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See https://cloud.google.com/docs/authentication/getting-started
	// for information on credentials.
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s := session.Must(session.NewSession(c))
	return s3blob.OpenBucket(ctx, s, name)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	url, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("iconarrayutil: parsing blob path: %v", err)
	}
	bucket, err := OpenBucket(ctx, url.Scheme+"://"+url.Host)
	if err != nil {
		return "", err
	}
	dir, err := ioutil.TempDir("", "iconarray")
	if err != nil {
		return "", fmt.Errorf("iconarrayutil: creating temporary download directory: %v", err)
	}
	fnames := expandShp(url.Path)
	for _, fname := range fnames {
		w, err := os.Create(filepath.Join(dir, filepath.Base(fname)))
		if err != nil {
			return "", fmt.Errorf("iconarrayutil: creating file for download: %v", err)
		}
		bucketPath := strings.TrimPrefix(url.Path, "/")
		bucketPath = bucketPath[0:len(bucketPath)-len(filepath.Ext(bucketPath))] + filepath.Ext(fname)
		log.WithFields(logrus.Fields{
			"bucket": url.Host,
			"path":   bucketPath,
		}).Info("downloading from blob storage")
		r, err := bucket.NewReader(ctx, bucketPath)
		if err != nil {
			return "", fmt.Errorf("iconarrayutil: opening blob %s: %v", bucketPath, err)
		}
		_, err = io.Copy(w, r)
		r.Close()
		w.Close()
		if err != nil {
			return "", fmt.Errorf("iconarrayutil: downloading blob %s: %v", bucketPath, err)
		}
	}
	return filepath.Join(dir, filepath.Base(fnames[0])), nil
}

// expandShp returns the given file plus the associated .dbf, .shx, and
// .prj files if the given file has the .shp extension, and returns the
// given file alone otherwise.
func expandShp(filename string) []string {
	o := []string{filename}
	ext := filepath.Ext(filename)
	if ext != ".shp" {
		return o
	}
	for _, newExt := range []string{".dbf", ".shx", ".prj"} {
		o = append(o, filename[0:len(filename)-4]+newExt)
	}
	return o
}
