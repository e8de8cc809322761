package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the served directory and reports changed markdown files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	rootDir  string
	onChange func(relPath string)
	done     chan struct{}
}

// NewWatcher creates a recursive watcher over rootDir. onChange is called
// with the root-relative path of each changed .md file.
func NewWatcher(rootDir string, onChange func(relPath string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsWatcher,
		rootDir:  rootDir,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Start begins delivering change events.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Ext(event.Name) != ".md" {
					// New directories need to be watched too.
					if event.Op&fsnotify.Create != 0 {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = w.addRecursive(event.Name)
						}
					}
					continue
				}
				rel, err := filepath.Rel(w.rootDir, event.Name)
				if err != nil {
					rel = event.Name
				}
				log.Printf("[Watch] File changed: %s", rel)
				w.onChange(filepath.ToSlash(rel))
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Watch] Error: %v", err)
			case <-w.done:
				return
			}
		}
	}()
	log.Printf("[Watch] File watcher started for %s", w.rootDir)
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.watcher.Close()
}
