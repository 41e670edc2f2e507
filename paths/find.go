// Package paths locates data files such as palettes.
package paths

import (
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
)

// ReadSeekCloser is what Open returns.
type ReadSeekCloser interface {
	io.ReadCloser
	io.Seeker
}

// Find locates the passed data file shortname and returns an absolute or
// relative path to find the data file at, or an empty string if it is not
// in any of the searched directories.
//
// For example, for "palette.pal" it may return "datafiles/palette.pal".
func Find(fileName string) string {
	for _, path := range possiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open opens a file. Names starting with http:// or https:// are fetched
// over HTTP; anything else is first looked up with Find and, failing that,
// opened as given.
func Open(fileName string) (ReadSeekCloser, error) {
	if isURL(fileName) {
		return openHTTP(fileName)
	}
	path := Find(fileName)
	if path == "" {
		path = fileName
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func isURL(fileName string) bool {
	return strings.HasPrefix(fileName, "http://") || strings.HasPrefix(fileName, "https://")
}
