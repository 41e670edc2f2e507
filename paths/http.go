package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	cache     map[string][]byte
	cacheLock sync.Mutex
)

// openHTTP fetches fileName and returns a seekable reader over the body.
// Bodies are cached for the lifetime of the process.
func openHTTP(fileName string) (ReadSeekCloser, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if cache == nil {
		cache = make(map[string][]byte)
	}
	if buf, ok := cache[fileName]; ok {
		glog.V(2).Infof("paths: %q served from cache", fileName)
		return &bytesReaderWithDummyClose{bytes.NewReader(buf)}, nil
	}

	response, err := http.Get(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q): failed to fetch", fileName)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "paths.Open(%q): http response.StatusCode=%v, want 200", fileName, response.StatusCode)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, response.Body); err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}
	cache[fileName] = buf.Bytes()
	glog.V(1).Infof("paths: fetched %q, %d bytes", fileName, buf.Len())
	return &bytesReaderWithDummyClose{bytes.NewReader(buf.Bytes())}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
