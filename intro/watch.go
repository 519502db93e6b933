package intro

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads the tuning config when the file changes on disk,
// so thresholds and post-process parameters can be tweaked mid-walk.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	Configs chan Config
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// WatchConfig watches the directory containing path (editors replace files
// rather than writing in place, so watching the file itself misses saves).
func WatchConfig(path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		Configs: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher. The outbound channels are closed by the run
// goroutine once it exits — closing them here would race its sends.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) run() {
	defer close(cw.Configs)
	defer close(cw.Errors)

	var last time.Time
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now

			cfg, err := LoadConfig(cw.path)
			if err != nil {
				select {
				case cw.Errors <- err:
				default:
				}
				continue
			}
			// Keep only the freshest config if the consumer is behind
			select {
			case cw.Configs <- cfg:
			default:
				select {
				case <-cw.Configs:
				default:
				}
				select {
				case cw.Configs <- cfg:
				default:
				}
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case cw.Errors <- err:
			default:
			}
		case <-cw.closeCh:
			return
		}
	}
}
