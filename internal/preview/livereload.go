package preview

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const heartbeat = 30 * time.Second

// reloadHub fans out "site changed" events to browsers over SSE.
type reloadHub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]chan string
	closed  bool
	last    string
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: map[int]chan string{}}
}

func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	id := h.nextID
	h.nextID++
	ch := make(chan string, 8)
	h.clients[id] = ch
	current := h.last
	h.mu.Unlock()
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	_, _ = fmt.Fprint(w, ": connected\n\n")
	if current != "" {
		_, _ = fmt.Fprintf(w, "data: {\"hash\":%q}\n\n", current)
	}
	flusher.Flush()

	hb := time.NewTicker(heartbeat)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-hb.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case hash, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: {\"hash\":%q}\n\n", hash); err != nil {
				slog.Debug("livereload write", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *reloadHub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

// Broadcast sends hash to every client. Slow clients are dropped.
func (h *reloadHub) Broadcast(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || hash == "" || hash == h.last {
		return
	}
	h.last = hash
	for id, ch := range h.clients {
		select {
		case ch <- hash:
		default:
			delete(h.clients, id)
			close(ch)
		}
	}
}

// Shutdown disconnects all clients.
func (h *reloadHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

func (h *reloadHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

const reloadScript = `(() => {
  if (window.__SASSDOC_LR__) return;
  window.__SASSDOC_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) location.reload();
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
