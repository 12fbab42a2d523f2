// Package watcher imports listing HTML files as they land in the import
// directory. Files already present at startup are swept once; after that
// fsnotify events drive imports.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"house_scout/models"
	"house_scout/parser"
	"house_scout/storage"
)

// Watcher wires the import directory to the parser and store.
type Watcher struct {
	dir      string
	parser   *parser.Parser
	store    storage.Store
	debounce time.Duration

	// One file at a time; imports are cheap and ordering keeps the
	// duplicate check honest.
	mu sync.Mutex
}

func New(dir string, p *parser.Parser, store storage.Store, debounce time.Duration) *Watcher {
	return &Watcher{
		dir:      dir,
		parser:   p,
		store:    store,
		debounce: debounce,
	}
}

// Run watches the import directory until ctx is cancelled. The directory is
// created if missing and swept before watching starts.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create import dir: %w", err)
	}

	if err := w.Sweep(ctx); err != nil {
		log.Printf("Warning: initial sweep failed: %v", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	log.Printf("Watching %s for listing files", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isHTMLFile(event.Name) {
				continue
			}
			w.ProcessFile(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watch error: %v", err)
		}
	}
}

// Sweep imports every HTML file currently in the directory. Used at startup
// and by the periodic re-sweep, so files dropped while the daemon was down
// still get picked up.
func (w *Watcher) Sweep(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read import dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isHTMLFile(entry.Name()) {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.ProcessFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// ProcessFile parses one file and stores the listing unless it is already
// known. Failures are logged, never fatal; a bad file must not stop the
// daemon.
func (w *Watcher) ProcessFile(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Let the writer finish; editors and downloads create then fill.
	if w.debounce > 0 {
		time.Sleep(w.debounce)
	}

	listing, err := w.parser.ParseFile(ctx, path)
	if err != nil {
		log.Printf("Warning: parse %s: %v", filepath.Base(path), err)
		return
	}
	if listing == nil {
		log.Printf("Warning: %s has no extractable address, skipping", filepath.Base(path))
		return
	}

	mlsID := ""
	if listing.MLSID != nil {
		mlsID = *listing.MLSID
	}
	exists, err := w.store.ListingExists(ctx, mlsID, listing.Address)
	if err != nil {
		log.Printf("Warning: duplicate check for %s: %v", listing.Address, err)
		return
	}
	if exists {
		log.Printf("Skipping duplicate listing: %s", listing.Address)
		return
	}

	if err := w.store.AddListing(ctx, listing); err != nil {
		log.Printf("Warning: store %s: %v", listing.Address, err)
		return
	}
	log.Printf("Imported %s (%s)", listing.Address, describePrice(listing))
}

func describePrice(l *models.Listing) string {
	if l.Price == nil {
		return "no price"
	}
	return fmt.Sprintf("$%.0f", *l.Price)
}

func isHTMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}
