package dashboard

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 250 * time.Millisecond

// dbWatcher reports writes to a SQLite database. It watches the parent
// directory so the WAL file is seen even when it is created after startup.
type dbWatcher struct {
	fw      *fsnotify.Watcher
	base    string
	changes chan struct{}
	done    chan struct{}
}

func newDBWatcher(dbPath string) (*dbWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &dbWatcher{
		fw:      fw,
		base:    filepath.Base(abs),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// relevant reports whether name is the database or its WAL. The -shm file
// changes on every read and is skipped.
func (w *dbWatcher) relevant(name string) bool {
	base := filepath.Base(name)
	return base == w.base || base == w.base+"-wal"
}

func (w *dbWatcher) loop() {
	var last time.Time
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			now := time.Now()
			if now.Sub(last) < debounceInterval {
				continue
			}
			last = now

			select {
			case w.changes <- struct{}{}:
			default:
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func (w *dbWatcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	return w.fw.Close()
}

