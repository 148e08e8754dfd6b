package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domainconfig "github.com/yogishpa/graph-samples/domain/config"
)

// CatalogWatcher keeps the prompt catalog current while its file changes
type CatalogWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *domainconfig.PromptCatalog
	mu       sync.RWMutex
	onChange []func(*domainconfig.PromptCatalog)
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCatalogWatcher loads the catalog and prepares a file watcher for it
func NewCatalogWatcher(path string, logger *zap.Logger) (*CatalogWatcher, error) {
	catalog, err := LoadPromptCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial catalog: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors save atomically by renaming, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	return &CatalogWatcher{
		path:    path,
		watcher: watcher,
		current: catalog,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Catalog returns the most recently loaded catalog
func (w *CatalogWatcher) Catalog() *domainconfig.PromptCatalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload
func (w *CatalogWatcher) OnChange(fn func(*domainconfig.PromptCatalog)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching for changes
func (w *CatalogWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Prompt catalog watcher started", zap.String("path", w.path))
}

// Stop stops watching for changes
func (w *CatalogWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Prompt catalog watcher stopped")
	})
}

func (w *CatalogWatcher) watchLoop() {
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// reload keeps the current catalog when the new file does not parse
func (w *CatalogWatcher) reload() {
	catalog, err := LoadPromptCatalog(w.path)
	if err != nil {
		w.logger.Error("Invalid prompt catalog, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = catalog
	handlers := append([]func(*domainconfig.PromptCatalog){}, w.onChange...)
	w.mu.Unlock()

	for _, handler := range handlers {
		handler(catalog)
	}

	w.logger.Info("Prompt catalog reloaded",
		zap.String("path", w.path),
		zap.String("dataset", catalog.Dataset),
		zap.Int("examples", len(catalog.Examples)),
	)
}
