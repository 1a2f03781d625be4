package acs

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"
)

// Watch reloads scripts in the configured directory when they change on
// disk. Changed paths are queued and read at the start of the next Tick, so
// a burst of writes loads only the final content and never races a running
// thread.
func (e *Environment) Watch() error {
	if e.watcher != nil {
		return nil
	}
	if e.cfg.Dir == "" {
		return fmt.Errorf("acs: watch: no script directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("acs: watch: %w", err)
	}
	if err := w.Add(e.cfg.Dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("acs: watch %s: %w", e.cfg.Dir, err)
	}
	e.watcher = w
	e.done = make(chan struct{})
	go e.watch(w, e.done)
	return nil
}

func (e *Environment) watch(w *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isScriptFile(event.Name) {
				continue
			}
			e.queue(event.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Printf("ACS: watch: %v", err)
		case <-done:
			return
		}
	}
}

// queue records a changed path once until the next Tick.
func (e *Environment) queue(path string) {
	e.mu.Lock()
	if !slices.Contains(e.pending, path) {
		e.pending = append(e.pending, path)
	}
	e.mu.Unlock()
}

func (e *Environment) applyReloads() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, path := range pending {
		name := scriptName(path)
		src, err := os.ReadFile(path)
		if err != nil {
			// Renamed away or deleted.
			e.Unload(name)
			logger.Printf("ACS: unloaded %s", name)
			continue
		}
		if err := e.Load(name, src); err != nil {
			logger.Printf("ACS: %v", err)
			continue
		}
		logger.Printf("ACS: reloaded %s", name)
	}
}

// Close stops watching. It is safe to call more than once.
func (e *Environment) Close() error {
	if e.watcher == nil {
		return nil
	}
	close(e.done)
	err := e.watcher.Close()
	e.watcher = nil
	return err
}
