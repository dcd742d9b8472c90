// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package navconfig

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type WatcherUpdateFn func(cfg *NavConfig, err error)

// Watcher re-reads a nav config file whenever it changes.  the directory is
// watched (not the file) so editors that replace the file on save still
// trigger updates.
type Watcher struct {
	fileName string
	watcher  *fsnotify.Watcher
	mutex    sync.Mutex
	config   *NavConfig
	onUpdate WatcherUpdateFn
	started  bool
	done     chan struct{}
}

func MakeWatcher(fileName string, onUpdate WatcherUpdateFn) (*Watcher, error) {
	absName, err := filepath.Abs(fileName)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", fileName, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	err = fsw.Add(filepath.Dir(absName))
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absName), err)
	}
	return &Watcher{
		fileName: absName,
		watcher:  fsw,
		onUpdate: onUpdate,
		done:     make(chan struct{}),
	}, nil
}

// Start sends the initial config and then watches for changes (in a new goroutine).
func (w *Watcher) Start() {
	log.Printf("[navconfig] watching %s\n", w.fileName)
	w.mutex.Lock()
	w.started = true
	events, errs := w.watcher.Events, w.watcher.Errors
	w.mutex.Unlock()
	w.reload()
	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.Println("[navconfig] watcher error:", err)
			}
		}
	}()
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	fsw := w.watcher
	started := w.started
	w.watcher = nil
	w.mutex.Unlock()
	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	if started {
		<-w.done
	}
	log.Println("[navconfig] file watcher closed")
	return err
}

func (w *Watcher) GetConfig() *NavConfig {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.config
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if filepath.Clean(event.Name) != w.fileName {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.reload()
}

func (w *Watcher) reload() {
	cfg, err := ReadNavConfig(w.fileName)
	if err != nil {
		log.Printf("[navconfig] %v\n", err)
	} else {
		w.mutex.Lock()
		w.config = cfg
		w.mutex.Unlock()
	}
	if w.onUpdate != nil {
		w.onUpdate(cfg, err)
	}
}
