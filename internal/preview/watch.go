package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/eepbuilder/internal/logfields"
)

// newDebouncer returns a channel receiving one value per burst of trigger
// calls, delivered delay after the last call of the burst.
func newDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// watcher wraps fsnotify with the directory filter of a preview session.
type watcher struct {
	fs      *fsnotify.Watcher
	exclude string // absolute output directory, never watched
}

func newWatcher(root, exclude string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fw, exclude: exclude}
	w.addDirsRecursive(root)
	return w, nil
}

func (w *watcher) Close() error { return w.fs.Close() }

func (w *watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.excluded(path) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// relevant reports whether ev should trigger a rebuild. New directories are
// added to the watch as a side effect.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if w.excluded(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	return ev.Op != fsnotify.Chmod
}

func (w *watcher) excluded(path string) bool {
	if w.exclude == "" {
		return false
	}
	rel, err := filepath.Rel(w.exclude, path)
	return err == nil && (rel == "." || !strings.HasPrefix(rel, ".."))
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, which includes the atomic-write temp files and ".#" locks
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
