package web

import (
	"bytes"
	"encoding/json"
	"image/gif"
	"image/png"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-cel/cel"
	"badc0de.net/pkg/go-cel/palette"
	"badc0de.net/pkg/go-cel/ttesting"
)

func testServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()

	small := cel.NewGrid(3, 2)
	small.Set(0, 0, 1)
	small.Set(2, 1, 2)
	big := cel.NewGrid(5, 4)
	big.Set(4, 3, 7)

	w := cel.NewWriter()
	for _, g := range []*cel.Grid{small, big} {
		frame, err := cel.EncodeFrameWithHeader(g, cel.HeaderAuto)
		if err != nil {
			t.Fatalf("failed to encode frame: %s", err)
		}
		w.Add(frame)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "towners.cel"), w.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write cel: %s", err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "broken.cel"), []byte{1, 0}, 0644); err != nil {
		t.Fatalf("failed to write cel: %s", err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to write notes: %s", err)
	}

	h, err := NewHandler(dir, palette.Grayscale(true))
	if err != nil {
		t.Fatalf("failed to create handler: %s", err)
	}
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, dir
}

func get(t *testing.T, url string, hdr http.Header) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		t.Fatalf("failed to build request: %s", err)
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %s", url, err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("GET %s: reading body: %s", url, err)
	}
	return resp, body
}

func TestIndex(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	if !bytes.Contains(body, []byte("towners.cel")) {
		t.Errorf("index does not list towners.cel:\n%s", body)
	}
	if bytes.Contains(body, []byte("notes.txt")) {
		t.Errorf("index lists a file that is not a cel:\n%s", body)
	}
}

func TestInfo(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/cel/towners.cel/info", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)

	var info struct {
		Frames []frameInfo `json:"frames"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("failed to parse %s: %s", body, err)
	}
	ttesting.AssertEqualInt(t, "frames", len(info.Frames), 2)
	ttesting.AssertEqualInt(t, "frame 1 index", info.Frames[1].Index, 1)
	ttesting.AssertEqualInt(t, "frame 1 width", info.Frames[1].Width, 5)
	ttesting.AssertEqualInt(t, "frame 1 height", info.Frames[1].Height, 4)
	if info.Frames[0].Bytes == 0 {
		t.Errorf("frame 0 has no bytes")
	}
}

func TestFramesPage(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/cel/towners.cel", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	if n := strings.Count(string(body), `src="data:image/png;base64,`); n != 2 {
		t.Errorf("got %d inline frames; want 2:\n%s", n, body)
	}
}

func TestFramePNG(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/cel/towners.cel/0.png", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to decode png: %s", err)
	}
	ttesting.AssertEqualInt(t, "width", img.Bounds().Dx(), 3)
	ttesting.AssertEqualInt(t, "height", img.Bounds().Dy(), 2)
	if _, _, _, a := img.At(1, 0).RGBA(); a != 0 {
		t.Errorf("pixel (1,0) has alpha %d; want transparent", a)
	}
	if r, _, _, a := img.At(0, 0).RGBA(); a == 0 || r != 0x0101 {
		t.Errorf("pixel (0,0) = %v; want gray 1", img.At(0, 0))
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("no ETag")
	}
	resp, _ = get(t, srv.URL+"/cel/towners.cel/0.png", http.Header{"If-None-Match": {etag}})
	ttesting.AssertEqualInt(t, "revalidated status", resp.StatusCode, http.StatusNotModified)
}

func TestFramePNGScaled(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/cel/towners.cel/1.png?scale=3", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to decode png: %s", err)
	}
	ttesting.AssertEqualInt(t, "width", img.Bounds().Dx(), 15)
	ttesting.AssertEqualInt(t, "height", img.Bounds().Dy(), 12)

	for _, scale := range []string{"0", "17", "big"} {
		resp, _ := get(t, srv.URL+"/cel/towners.cel/1.png?scale="+scale, nil)
		ttesting.AssertEqualInt(t, "status for scale "+scale, resp.StatusCode, http.StatusBadRequest)
	}
}

func TestGIF(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := get(t, srv.URL+"/cel/towners.cel.gif", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	g, err := gif.DecodeAll(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to decode gif: %s", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 2)
	ttesting.AssertEqualInt(t, "width", g.Config.Width, 5)
	ttesting.AssertEqualInt(t, "height", g.Config.Height, 4)
}

func TestErrors(t *testing.T) {
	srv, _ := testServer(t)
	for _, tc := range []struct {
		path string
		want int
	}{
		{"/cel/missing.cel/info", http.StatusNotFound},
		{"/cel/notes.txt/info", http.StatusNotFound},
		{"/cel/towners.cel/2.png", http.StatusNotFound},
		{"/cel/broken.cel/info", http.StatusInternalServerError},
	} {
		resp, _ := get(t, srv.URL+tc.path, nil)
		ttesting.AssertEqualInt(t, "status for "+tc.path, resp.StatusCode, tc.want)
	}
}

func TestLoadRejectsBadNames(t *testing.T) {
	h := &Handler{celDir: os.TempDir()}
	for _, name := range []string{"../etc/passwd", "a b.cel", "", "x.bmp"} {
		if _, _, err := h.load(name); !os.IsNotExist(err) {
			t.Errorf("load(%q) = %v; want not-exist", name, err)
		}
	}
}
