package preview

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
)

// watcher follows a set of files and directories. Files are watched through
// their parent directory; events for siblings are filtered out.
type watcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool
	dirs  []string
	dest  string
}

func newWatcher(paths []string, dest string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &watcher{fs: fw, files: map[string]bool{}}
	if dest != "" {
		if abs, err := filepath.Abs(dest); err == nil {
			w.dest = abs
		}
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if fi.IsDir() {
			w.dirs = append(w.dirs, abs)
			w.addRecursive(abs)
			continue
		}
		w.files[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			slog.Warn("Watch add failed", logfields.Path(abs), logfields.Error(err))
		}
	}
	return w, nil
}

func (w *watcher) Events() <-chan fsnotify.Event { return w.fs.Events }
func (w *watcher) Errors() <-chan error          { return w.fs.Errors }
func (w *watcher) Close() error                  { return w.fs.Close() }

// relevant reports whether ev should trigger a rebuild. New directories
// below a watched root are added as a side effect.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	if w.dest != "" && within(w.dest, ev.Name) {
		return false
	}
	if w.files[ev.Name] {
		return true
	}
	for _, d := range w.dirs {
		if !within(d, ev.Name) {
			continue
		}
		if ev.Op.Has(fsnotify.Create) {
			if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
				w.addRecursive(ev.Name)
			}
		}
		return true
	}
	return false
}

func (w *watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.dest != "" && within(w.dest, p) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			slog.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreEvent filters hidden files and editor droppings.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}
