// Package watch rebuilds the pipeline when the score file changes and
// proposes the result to the live one.
package watch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/pipeline"
	"github.com/mielpeeters/breaker/score"
)

// Watcher rebuilds full replacement pipelines off the hot path. The live
// pipeline is only touched through Propose, so a failed rebuild leaves
// playback untouched.
type Watcher struct {
	path string
	live *pipeline.Pipeline
	cfg  *pipeline.Config

	fs   *fsnotify.Watcher
	done chan struct{}
}

// New starts watching the score file's directory (editors replace files
// by rename, so watching the file itself would drop after one save).
func New(path string, live *pipeline.Pipeline, cfg *pipeline.Config) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fs.Close()
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path: abs,
		live: live,
		cfg:  cfg,
		fs:   fs,
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	close(w.done)
	w.fs.Close()
}

func (w *Watcher) loop() {
	debounced := debounce.New(parameter.ReloadDebounce)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounced(w.reload)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// reload rebuilds a complete pipeline from the edited score and proposes
// it. Every failure keeps the running pipeline unchanged.
func (w *Watcher) reload() {
	source, err := os.ReadFile(w.path)
	if err != nil {
		log.Printf("reload: read %s: %v", w.path, err)
		return
	}

	tree, err := score.Parse(string(source))
	if err != nil {
		log.Printf("reload: parse: %v", err)
		return
	}

	next, queue, err := pipeline.Build(tree, w.cfg)
	if err != nil {
		log.Printf("reload: build: %v", err)
		return
	}
	// the replacement's own queue is never consumed
	queue.Close()

	w.live.Propose(next)
	log.Printf("reload: new pipeline proposed, swapping at next phrase boundary")
}
