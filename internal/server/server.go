// Package server is the development preview server: it renders markdown
// files on request, pushes reloads to connected pages when files change, and
// routes widget actions back into the renderer's registry.
package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ByteBallet/solara"
	"github.com/ByteBallet/solara/internal/config"
)

// Server serves a directory of markdown files as live preview pages.
type Server struct {
	rootDir  string
	cfg      *config.Config
	renderer *solara.Renderer

	mu          sync.RWMutex
	connections map[*client]bool
	pageWidgets map[string][]string

	watcher    *Watcher
	httpServer *http.Server
	cancel     context.CancelFunc
}

// New creates a preview server for rootDir.
func New(rootDir string, cfg *config.Config) (*Server, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	return &Server{
		rootDir: absRoot,
		cfg:     cfg,
		renderer: solara.NewRenderer(
			solara.WithLiveTag(cfg.LiveTag),
			solara.WithHighlightStyle(cfg.HighlightStyle),
		),
		connections: make(map[*client]bool),
		pageWidgets: make(map[string][]string),
	}, nil
}

// Start runs the server until ListenAndServe returns.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	watcher, err := NewWatcher(s.rootDir, s.broadcastReload)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	s.watcher = watcher
	s.watcher.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/view/", s.handlePage)
	mux.HandleFunc("/assets/highlight.css", s.handleHighlightCSS)
	mux.HandleFunc("/ws", s.handleWebSocket)

	var handler http.Handler = mux
	handler = LoggingMiddleware()(handler)
	if s.cfg.RateLimit.Enabled {
		limit, _ := RateLimitMiddleware(ctx, s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst)
		handler = limit(handler)
	}

	s.httpServer = &http.Server{Addr: s.cfg.Addr, Handler: handler}

	if s.cfg.UnsafeExecute {
		log.Printf("[Server] Live-fence execution is ENABLED; only serve trusted markdown")
	}
	log.Printf("[Server] Serving %s on %s", s.rootDir, s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// handleIndex lists the served markdown files.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	pages, err := s.listPages()
	if err != nil {
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>" + template.HTMLEscapeString(s.cfg.Title) + "</title></head><body>")
	b.WriteString("<h1>" + template.HTMLEscapeString(s.cfg.Title) + "</h1><ul>")
	for _, page := range pages {
		escaped := template.HTMLEscapeString(page)
		b.WriteString(`<li><a href="/view/` + escaped + `">` + escaped + `</a></li>`)
	}
	b.WriteString("</ul></body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) listPages() ([]string, error) {
	var pages []string
	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != s.rootDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return err
		}
		if s.cfg.Ignored(rel) {
			return nil
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(pages)
	return pages, err
}

// handlePage renders one markdown file as a full HTML page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/view/")
	path, ok := s.resolvePath(rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	markup, err := s.renderer.Render(solara.Document{
		Text:          string(content),
		UnsafeExecute: s.cfg.UnsafeExecute,
		Sanitize:      s.cfg.Sanitize,
	})
	if err != nil {
		log.Printf("[Server] Failed to render %s: %v", rel, err)
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.retireWidgets(rel, markup.WidgetIDs)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.pageShell(rel, markup)))
}

// retireWidgets records the widgets mounted for the latest render of page and
// unmounts the previous render's set, so re-viewing a page does not grow the
// registry.
func (s *Server) retireWidgets(page string, ids []string) {
	s.mu.Lock()
	previous := s.pageWidgets[page]
	if len(ids) == 0 {
		delete(s.pageWidgets, page)
	} else {
		s.pageWidgets[page] = ids
	}
	s.mu.Unlock()

	registry := s.renderer.Registry()
	for _, id := range previous {
		registry.Unmount(id)
	}
}

// resolvePath maps a request path to a markdown file under rootDir,
// rejecting traversal outside the root and ignored files. Containment is
// checked on the cleaned, joined path so filenames that merely contain dots
// (v1..2.md) stay reachable.
func (s *Server) resolvePath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	path := filepath.Join(s.rootDir, clean)
	if !strings.HasPrefix(path, s.rootDir+string(filepath.Separator)) {
		return "", false
	}
	if filepath.Ext(path) != ".md" || s.cfg.Ignored(clean) {
		return "", false
	}
	return path, true
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	var buf bytes.Buffer
	if err := s.renderer.Highlighter().WriteCSS(&buf); err != nil {
		http.Error(w, "failed to write stylesheet", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf.Bytes())
}

// pageShell wraps a rendered markup unit in the full preview page: the
// highlight stylesheet, mermaid, and the client script that resolves
// live-widget-ref tags and listens for reloads.
func (s *Server) pageShell(name string, markup solara.Markup) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + template.HTMLEscapeString(name) + `</title>
<link rel="stylesheet" href="/assets/highlight.css">
<script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
</head>
<body data-render-key="` + markup.Key + `">
` + markup.Template + `
<script>
(function() {
    const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onopen = () => {
        document.querySelectorAll("live-widget-ref").forEach(el => {
            ws.send(JSON.stringify({widgetID: el.getAttribute("id"), action: "resolve"}));
        });
    };
    ws.onmessage = (event) => {
        const msg = JSON.parse(event.data);
        if (msg.reload) { location.reload(); return; }
        const el = document.querySelector('live-widget-ref[id="' + msg.widgetID + '"]');
        if (el && msg.html !== undefined) { el.innerHTML = msg.html; }
    };
})();
</script>
</body>
</html>
`
}
