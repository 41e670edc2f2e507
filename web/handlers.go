// Package web serves the frames of the CEL files in a directory over HTTP.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-cel/cel"
	"badc0de.net/pkg/go-cel/datafiles"
)

const (
	maxScale = 16
	// gifDelay is the delay between animation frames, in 100ths of a second.
	gifDelay = 10
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Handler struct {
	celDir string
	pal    color.Palette
	tmpl   *template.Template
}

// NewHandler constructs a web handler serving the .cel files in celDir,
// drawn with pal.
func NewHandler(celDir string, pal color.Palette) (*Handler, error) {
	tmpl, err := datafiles.Templates()
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	return &Handler{celDir: celDir, pal: pal, tmpl: tmpl}, nil
}

// load reads and parses the named CEL file.
func (h *Handler) load(name string) (*cel.File, os.FileInfo, error) {
	if !validName.MatchString(name) || !strings.EqualFold(filepath.Ext(name), ".cel") {
		return nil, nil, os.ErrNotExist
	}
	path := filepath.Join(h.celDir, name)
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := cel.Parse(buf)
	if err != nil {
		return nil, nil, err
	}
	return f, st, nil
}

// loadOrFail is load, reporting failures to the client.
func (h *Handler) loadOrFail(w http.ResponseWriter, name string) (*cel.File, os.FileInfo, bool) {
	f, st, err := h.load(name)
	switch {
	case err == nil:
		return f, st, true
	case os.IsNotExist(err):
		http.Error(w, "no such cel", http.StatusNotFound)
	default:
		glog.Errorf("error loading cel %q: %v", name, err)
		http.Error(w, "failed to load cel", http.StatusInternalServerError)
	}
	return nil, nil, false
}

func (h *Handler) decodeFrame(f *cel.File, idx int) (*cel.Grid, error) {
	frame, err := f.Frame(idx)
	if err != nil {
		return nil, err
	}
	return cel.DecodeFrame(frame)
}

// notModified sets caching headers and reports whether the client already
// has the response tagged etag.
func notModified(w http.ResponseWriter, r *http.Request, etag string, st os.FileInfo) bool {
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	w.Header().Set("Last-Modified", st.ModTime().UTC().Format(http.TimeFormat))
	return false
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.celDir)
	if err != nil {
		glog.Errorf("error listing %q: %v", h.celDir, err)
		http.Error(w, "failed to list cel files", http.StatusInternalServerError)
		return
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && validName.MatchString(e.Name()) && strings.EqualFold(filepath.Ext(e.Name()), ".cel") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "index.html", struct{ Files []string }{files}); err != nil {
		glog.Errorf("error rendering index: %v", err)
	}
}

type frameInfo struct {
	Index  int `json:"index"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Bytes  int `json:"bytes"`

	DataURL template.URL `json:"-"`
}

func (h *Handler) frameInfos(f *cel.File, withImages bool) ([]frameInfo, error) {
	infos := make([]frameInfo, f.Len())
	for i := range infos {
		frame, err := f.Frame(i)
		if err != nil {
			return nil, err
		}
		g, err := cel.DecodeFrame(frame)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		infos[i] = frameInfo{Index: i, Width: g.Width, Height: g.Height, Bytes: len(frame)}
		if withImages {
			buf := &bytes.Buffer{}
			if err := png.Encode(buf, g.Image(h.pal)); err != nil {
				return nil, errors.Wrapf(err, "frame %d", i)
			}
			infos[i].DataURL = template.URL(dataurl.New(buf.Bytes(), "image/png").String())
		}
	}
	return infos, nil
}

func (h *Handler) infoHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, _, ok := h.loadOrFail(w, name)
	if !ok {
		return
	}
	infos, err := h.frameInfos(f, false)
	if err != nil {
		glog.Errorf("error decoding %q: %v", name, err)
		http.Error(w, "failed to decode cel", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Frames []frameInfo `json:"frames"`
	}{infos})
}

func (h *Handler) framesPageHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, _, ok := h.loadOrFail(w, name)
	if !ok {
		return
	}
	infos, err := h.frameInfos(f, true)
	if err != nil {
		glog.Errorf("error decoding %q: %v", name, err)
		http.Error(w, "failed to decode cel", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "frames.html", struct {
		Name   string
		Frames []frameInfo
	}{name, infos}); err != nil {
		glog.Errorf("error rendering frames of %q: %v", name, err)
	}
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("celweb.frame", r.URL.Path)
	defer tr.Finish()

	vars := mux.Vars(r)
	name := vars["name"]
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return
	}
	scale := 1
	if s := r.URL.Query().Get("scale"); s != "" {
		scale, err = strconv.Atoi(s)
		if err != nil || scale < 1 || scale > maxScale {
			http.Error(w, fmt.Sprintf("scale must be between 1 and %d", maxScale), http.StatusBadRequest)
			return
		}
	}

	f, st, ok := h.loadOrFail(w, name)
	if !ok {
		tr.SetError()
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"cel:%d:%s:%d:%d:%d:%s"`, generation, name, st.ModTime().Unix(), idx, scale, mime)
	if notModified(w, r, etag, st) {
		tr.LazyPrintf("not modified")
		return
	}

	g, err := h.decodeFrame(f, idx)
	if errors.Is(err, cel.ErrIndexOutOfRange) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		tr.LazyPrintf("decode failed: %v", err)
		tr.SetError()
		glog.Errorf("error decoding frame %d of %q: %v", idx, name, err)
		http.Error(w, "failed to decode frame", http.StatusInternalServerError)
		return
	}
	tr.LazyPrintf("frame %d is %dx%d", idx, g.Width, g.Height)

	var img image.Image = g.Image(h.pal)
	if scale > 1 {
		img = resize.Resize(uint(g.Width*scale), uint(g.Height*scale), img, resize.NearestNeighbor)
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, st, ok := h.loadOrFail(w, name)
	if !ok {
		return
	}

	generation := 1
	mime := "image/gif"
	etag := fmt.Sprintf(`W/"cel:%d:%s:%d:%s"`, generation, name, st.ModTime().Unix(), mime)
	if notModified(w, r, etag, st) {
		return
	}

	g := gif.GIF{}
	for i := 0; i < f.Len(); i++ {
		grid, err := h.decodeFrame(f, i)
		if err != nil {
			glog.Errorf("error decoding frame %d of %q: %v", i, name, err)
			http.Error(w, "failed to decode frame", http.StatusInternalServerError)
			return
		}
		if grid.Width > g.Config.Width {
			g.Config.Width = grid.Width
		}
		if grid.Height > g.Config.Height {
			g.Config.Height = grid.Height
		}
		g.Image = append(g.Image, grid.Image(h.pal))
		g.Delay = append(g.Delay, gifDelay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	if len(g.Image) == 0 {
		http.Error(w, "cel has no frames", http.StatusNotFound)
		return
	}
	g.Config.ColorModel = h.pal

	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, &g); err != nil {
		glog.Errorf("error encoding gif of %q: %v", name, err)
		http.Error(w, "failed to encode gif", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	const name = "{name:[A-Za-z0-9_.-]+}"
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/cel/"+name+".gif", h.gifHandler)
	r.HandleFunc("/cel/"+name+"/info", h.infoHandler)
	r.HandleFunc("/cel/"+name+"/{idx:[0-9]+}.png", h.frameHandler)
	r.HandleFunc("/cel/"+name, h.framesPageHandler)
}
