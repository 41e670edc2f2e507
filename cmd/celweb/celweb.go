// Command celweb serves the frames of a directory of CEL files as PNG
// images, animated GIFs and HTML pages.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/pkg/errors"

	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-cel/palette"
	"badc0de.net/pkg/go-cel/paths"
	"badc0de.net/pkg/go-cel/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for celweb")
	celDir         = flag.String("cel_dir", ".", "directory holding the .cel files to serve")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server will listen")

	palettePath string
)

func loadPalette() (color.Palette, error) {
	if palettePath == "" {
		glog.Infof("no palette given; serving frames with a grayscale palette")
		return palette.Grayscale(true), nil
	}
	f, err := paths.Open(palettePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening palette")
	}
	defer f.Close()
	return palette.Load(f, true)
}

func main() {
	paths.SetupFilePathFlag("palette.pal", "palette_path", &palettePath)
	flagutil.Parse()

	pal, err := loadPalette()
	if err != nil {
		glog.Exitf("error loading palette %q: %v", palettePath, err)
	}

	h, err := web.NewHandler(*celDir, pal)
	if err != nil {
		glog.Exitf("error creating web handler: %v", err)
	}
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	if *debugWebServer != "" {
		// x/net/trace registers /debug/requests and /debug/events here.
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go func() {
			glog.Errorf("debug server: %v", http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	glog.Infof("celweb serving %q on %s", *celDir, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, gzhttp.GzipHandler(r))))
}
