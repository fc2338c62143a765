package main

import (
	"fmt"
	"os"

	"github.com/refsnow/snowball/internal/bib"
	"github.com/refsnow/snowball/internal/cache"
	"github.com/refsnow/snowball/internal/crossref"
	"github.com/refsnow/snowball/internal/document"
	"github.com/refsnow/snowball/internal/ingest"
)

// loadGraph restores the store from the graph document, or creates an
// empty store if the file does not exist yet.
func loadGraph(path string) (*bib.Store, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("no graph document, starting empty")
		return bib.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening graph: %w", err)
	}
	defer f.Close()

	store, err := document.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading graph %s: %w", path, err)
	}
	return store, nil
}

// saveGraph writes the store back to the graph document.
func saveGraph(path string, store *bib.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating graph: %w", err)
	}
	defer f.Close()

	if err := document.Save(f, store); err != nil {
		return fmt.Errorf("saving graph %s: %w", path, err)
	}
	return nil
}

// newImporter builds the ingestion pipeline from global config: CrossRef
// client (polite-pool mailto, optional SQLite response cache), arXiv
// client and the shared logger.
func newImporter(store *bib.Store) (*ingest.Importer, func(), error) {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	crOpts := []crossref.ClientOption{crossref.WithMailto(cfg.Mailto)}
	if cfg.CachePath != "" {
		db, err := cache.Open(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { db.Close() }
		crOpts = append(crOpts, crossref.WithCache(db))
	}

	imp := ingest.New(store,
		ingest.WithCrossRef(crossref.NewClient(crOpts...)),
		ingest.WithLogger(logger),
	)
	return imp, cleanup, nil
}
