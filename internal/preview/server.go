package preview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/metrics"
)

const scriptTag = `<script async src="/livereload.js"></script>`

type healthResponse struct {
	Status     string    `json:"status"`
	BuildID    string    `json:"build_id,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	Entities   int       `json:"entities"`
	Files      int       `json:"files"`
	GoodBuilds int       `json:"good_builds"`
	Finished   time.Time `json:"finished,omitempty"`
}

func newHandler(dest string, status *buildStatus, hub *reloadHub, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	adapter := errors.NewHTTPErrorAdapter(nil)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		rep, good, err := status.snapshot()
		if err != nil {
			b := errors.WrapError(err, errors.CategoryRuntime, "last render failed")
			if rep != nil {
				b = b.WithContext("build_id", rep.BuildID).WithContext("stage", string(rep.FailedStage()))
			}
			adapter.WriteErrorResponse(w, r, b.Build())
			return
		}
		resp := healthResponse{Status: "ok", GoodBuilds: good}
		if rep != nil {
			resp.BuildID = rep.BuildID
			resp.Outcome = string(rep.Outcome)
			resp.Entities = rep.Entities
			resp.Files = rep.Files()
			resp.Finished = rep.End
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	if reg != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(reg))
	}
	mux.Handle("GET /livereload", hub)
	mux.HandleFunc("GET /livereload.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(reloadScript))
	})
	mux.Handle("/", injectReload(dest, http.FileServer(http.Dir(dest))))
	return mux
}

// injectReload serves HTML pages from dest with the reload script added
// before </body>. Everything else goes to next.
func injectReload(dest string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if strings.HasSuffix(p, "/") {
			p += "index.html"
		}
		if path.Ext(p) != ".html" {
			next.ServeHTTP(w, r)
			return
		}
		clean := path.Clean("/" + p)
		raw, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(clean)))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if i := bytes.LastIndex(raw, []byte("</body>")); i >= 0 {
			raw = append(raw[:i:i], append([]byte(scriptTag), raw[i:]...)...)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(raw)
	})
}
