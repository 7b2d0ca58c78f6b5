package localstore

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileKV stores each key as one JSON file under dataDir. Filenames are the
// query-escaped key plus ".json", which keeps the key→file mapping bijective
// for arbitrary branch identifiers.
//
// A fsnotify watcher on dataDir turns file writes — our own and those of any
// other process sharing the directory — into Subscribe notifications. This is
// the cross-process analog of browser storage events: eventual, not
// transactional.
type FileKV struct {
	notifier
	dataDir string
	mu      sync.Mutex // serializes writes within this process
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileKV creates dataDir if needed and starts the change watcher.
func NewFileKV(dataDir string) (*FileKV, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create data dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("localstore: start watcher: %w", err)
	}
	if err := watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("localstore: watch data dir: %w", err)
	}
	kv := &FileKV{dataDir: dataDir, watcher: watcher, done: make(chan struct{})}
	go kv.watch()
	return kv, nil
}

// Close stops the change watcher.
func (f *FileKV) Close() error {
	close(f.done)
	return f.watcher.Close()
}

func (f *FileKV) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Write-then-rename so readers never observe a torn payload.
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("localstore: commit %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dataDir, url.QueryEscape(key)+".json")
}

// keyFromPath inverts path. Returns "" for files we did not create
// (tmp files, stray content).
func (f *FileKV) keyFromPath(p string) string {
	name := filepath.Base(p)
	if !strings.HasSuffix(name, ".json") {
		return ""
	}
	key, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
	if err != nil {
		return ""
	}
	return key
}

func (f *FileKV) watch() {
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if key := f.keyFromPath(ev.Name); key != "" {
				f.notify(key)
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("localstore: watcher error")
		}
	}
}

var _ KV = (*FileKV)(nil)
