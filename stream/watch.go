package stream

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 250 * time.Millisecond

// ConfigWatcher reloads a config file when it changes on disk.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

// NewConfigWatcher starts watching the directory of path. Editors often
// replace files rather than write them, so the directory is watched and
// events are filtered by name.
func NewConfigWatcher(path string, logger zerolog.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	cw := new(ConfigWatcher)
	cw.path = path
	cw.watcher = w
	cw.log = logger
	return cw, nil
}

// Run calls onChange with the reloaded config after each burst of changes
// until ctx is cancelled. Configs that fail to load are logged and skipped.
func (cw *ConfigWatcher) Run(ctx context.Context, onChange func(Config)) error {
	defer cw.watcher.Close()

	name := filepath.Base(cw.path)
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce = time.After(reloadDebounce)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.log.Warn().Err(err).Str("path", cw.path).Msg("Config watch error")
		case <-debounce:
			debounce = nil
			config, err := LoadConfig(cw.path)
			if err != nil {
				cw.log.Warn().Err(err).Str("path", cw.path).Msg("Config reload failed")
				continue
			}
			cw.log.Info().Str("path", cw.path).Msg("Config reloaded")
			onChange(config)
		}
	}
}
