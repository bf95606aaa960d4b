package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const fileWatchDebounce = 300 * time.Millisecond

// workbookFileChangedMsg is sent when the local .xlsx file was rewritten.
type workbookFileChangedMsg struct{}

// FileWatcher watches a local workbook file for saves. Spreadsheet apps save
// by writing a temp file and renaming it over the original, so the parent
// directory is watched and events are filtered by file name.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	name     string
	debounce time.Duration
	log      zerolog.Logger
}

// NewFileWatcher returns nil when the directory cannot be watched; the viewer
// then only reloads on ctrl+r.
func NewFileWatcher(path string, log zerolog.Logger) *FileWatcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("watch: resolve path")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("watch: failed to create fsnotify watcher")
		return nil
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		log.Warn().Err(err).Str("dir", filepath.Dir(abs)).Msg("watch: failed to watch directory")
		_ = watcher.Close()
		return nil
	}

	return &FileWatcher{
		watcher:  watcher,
		name:     filepath.Base(abs),
		debounce: fileWatchDebounce,
		log:      log.With().Str("file", abs).Logger(),
	}
}

// Start returns a tea.Cmd that blocks until the file changes and the events
// settle, then returns workbookFileChangedMsg. The model re-invokes Start
// after each message to keep watching.
func (w *FileWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}
				w.log.Debug().Str("op", event.Op.String()).Msg("workbook file event")
				if !w.settle() {
					return nil
				}
				return workbookFileChangedMsg{}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

// settle drains events until none arrive for the debounce window. It
// returns false when the watcher was closed meanwhile.
func (w *FileWatcher) settle() bool {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()

	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return false
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			return true
		}
	}
}

// relevant ignores other files in the directory and Excel's "~$" lock files.
func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if base != w.name || strings.HasPrefix(base, "~$") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops watching. A pending Start command returns nil.
func (w *FileWatcher) Close() {
	if w == nil {
		return
	}
	_ = w.watcher.Close()
}
