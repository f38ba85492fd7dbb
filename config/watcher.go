package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the properties file when it changes on disk.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	profile   string
	filePath  string
	debounce  time.Duration
	onChange  func(*Properties, error)
	done      chan struct{}
}

// Watch calls onChange with freshly loaded properties after every write to the
// file props was read from. Stop it with Close.
func Watch(props *Properties, dir string, profile string, debounce time.Duration, onChange func(*Properties, error)) (*Watcher, error) {
	if props.FilePath == "" {
		return nil, fmt.Errorf("no properties file to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	// Editors replace files, so watch the directory rather than the file.
	if err = fsw.Add(filepath.Dir(props.FilePath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(props.FilePath), err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		dir:       dir,
		profile:   profile,
		filePath:  filepath.Clean(props.FilePath),
		debounce:  debounce,
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange(Load(w.dir, w.profile))

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.onChange(nil, fmt.Errorf("watching properties: %w", err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(event.Name) == w.filePath
}
