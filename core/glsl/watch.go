// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// NewWatcher creates a Watcher. Add directories with Watch.
func NewWatcher(logger logrus.FieldLogger) (*Watcher, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fsw,
		log:     logger,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watcher signals when files in the watched directories change. It never
// touches programs itself: the owner of the rendering context receives from
// Changed and calls Manager.Refresh on its own thread.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     logrus.FieldLogger
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watch adds a directory to the watched set
func (w *Watcher) Watch(dir string) error {
	return w.watcher.Add(dir)
}

// WatchTree adds root and every directory below it. Directories
// created below a watched one later are added as they appear.
func (w *Watcher) WatchTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// Changed receives once after one or more changes. Changes that happen
// before the previous signal was received are coalesced.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops watching
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Touching a file only changes its attributes.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Chmod) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.WatchTree(event.Name); err != nil {
						w.log.WithError(err).WithField("dir", event.Name).Warn("Could not watch new directory")
					}
				}
			}
			w.log.WithField("file", event.Name).Debug("Shader source changed")
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("Shader watcher error")
		}
	}
}
