// Package ingest translates external bibliographic records into graph
// mutations. Every import goes through the store's get-or-create lookups
// and the normal add-edge operations, so referential integrity is
// enforced on ingestion exactly as it is everywhere else.
package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/refsnow/snowball/internal/arxiv"
	"github.com/refsnow/snowball/internal/bib"
	"github.com/refsnow/snowball/internal/crossref"
	"github.com/refsnow/snowball/internal/scopus"
)

// Importer applies CrossRef, arXiv and Scopus records to a store.
type Importer struct {
	store    *bib.Store
	crossref *crossref.Client
	arxiv    *arxiv.Client
	log      zerolog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithCrossRef sets the CrossRef client used for DOI lookups.
func WithCrossRef(c *crossref.Client) Option {
	return func(imp *Importer) {
		imp.crossref = c
	}
}

// WithArxiv sets the arXiv client used for id lookups.
func WithArxiv(c *arxiv.Client) Option {
	return func(imp *Importer) {
		imp.arxiv = c
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(log zerolog.Logger) Option {
	return func(imp *Importer) {
		imp.log = log
	}
}

// New creates an importer targeting the given store.
func New(store *bib.Store, opts ...Option) *Importer {
	imp := &Importer{
		store:    store,
		crossref: crossref.NewClient(),
		arxiv:    arxiv.NewClient(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportDOI fetches the work registered for the DOI and applies it to the
// store, including one article per entry of its reference list, each
// linked by a citation edge. An already-imported DOI is returned as-is.
func (imp *Importer) ImportDOI(ctx context.Context, doi string) (*bib.Article, error) {
	doi = crossref.NormalizeDOI(doi)
	if a, ok := imp.store.ArticleByDOI(doi); ok {
		imp.log.Debug().Str("doi", doi).Msg("article already in store")
		return a, nil
	}

	work, err := imp.crossref.GetWork(ctx, doi)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", doi, err)
	}

	return imp.applyWork(work)
}

// applyWork creates the article for a work and links its journal, authors
// and references.
func (imp *Importer) applyWork(work *crossref.Work) (*bib.Article, error) {
	a := imp.store.NewArticle(work.Title)
	a.SetDOI(work.DOI)
	a.SetYear(work.Year)
	a.SetMonth(work.Month)
	a.SetVolume(work.Volume)
	a.SetIssue(work.Issue)
	a.SetPages(work.Pages)

	if j := imp.ensureJournal(work.Journal, work.ISSN); j != nil {
		if err := a.SetJournal(j); err != nil {
			return nil, err
		}
	}
	for _, wa := range work.Authors {
		au := imp.ensureAuthor(wa.Given, wa.Family, wa.ORCID)
		if err := a.AddAuthor(au); err != nil {
			return nil, err
		}
	}

	for _, ref := range work.References {
		cited := imp.applyReference(ref)
		if cited == nil || cited == a {
			continue
		}
		if err := a.AddReference(cited); err != nil {
			return nil, fmt.Errorf("linking reference %q: %w", ref.DOI, err)
		}
	}

	imp.log.Info().
		Str("doi", work.DOI).
		Str("title", work.Title).
		Int("references", len(work.References)).
		Msg("imported work")
	return a, nil
}

// applyReference creates or reuses the article for one reference-list
// entry, deduplicating by DOI first, then title. Entries with neither are
// skipped.
func (imp *Importer) applyReference(ref crossref.WorkReference) *bib.Article {
	if ref.DOI != "" {
		if a, ok := imp.store.ArticleByDOI(ref.DOI); ok {
			return a
		}
	}
	if ref.DOI == "" && ref.Title == "" {
		return nil
	}
	if ref.Title != "" {
		if a, ok := imp.store.ArticleByTitle(ref.Title); ok {
			return a
		}
	}

	a := imp.store.NewArticle(ref.Title)
	a.SetDOI(ref.DOI)
	a.SetYear(ref.Year)
	if ref.Author != "" {
		first, last := SplitName(ref.Author)
		au := imp.ensureAuthor(first, last, "")
		_ = a.AddAuthor(au)
	}
	if ref.Journal != "" {
		_ = a.SetJournal(imp.store.EnsureJournal(ref.Journal))
	}
	return a
}

// ImportArxiv fetches an arXiv entry and applies it to the store.
func (imp *Importer) ImportArxiv(ctx context.Context, id string) (*bib.Article, error) {
	entry, err := imp.arxiv.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching arXiv %s: %w", id, err)
	}

	if a, ok := imp.store.ArticleByTitle(entry.Title); ok {
		imp.log.Debug().Str("arxiv", entry.ID).Msg("article already in store")
		return a, nil
	}

	a := imp.store.NewArticle(entry.Title)
	if !entry.Published.IsZero() {
		a.SetYear(strconv.Itoa(entry.Published.Year()))
		a.SetMonth(strconv.Itoa(int(entry.Published.Month())))
	}
	for _, name := range entry.Authors {
		first, last := SplitName(name)
		au := imp.ensureAuthor(first, last, "")
		if err := a.AddAuthor(au); err != nil {
			return nil, err
		}
	}

	imp.log.Info().Str("arxiv", entry.ID).Str("title", entry.Title).Msg("imported arXiv entry")
	return a, nil
}

// ImportScopus applies Scopus CSV records to the store, one article per
// row. Rows whose DOI or title is already present are skipped.
func (imp *Importer) ImportScopus(records []scopus.Record) []*bib.Article {
	var imported []*bib.Article
	for _, rec := range records {
		doi := crossref.NormalizeDOI(rec.DOI)
		if _, ok := imp.store.ArticleByDOI(doi); ok {
			continue
		}
		if _, ok := imp.store.ArticleByTitle(rec.Title); ok {
			continue
		}

		a := imp.store.NewArticle(rec.Title)
		a.SetDOI(doi)
		a.SetYear(rec.Year)
		a.SetVolume(rec.Volume)
		a.SetIssue(rec.Issue)
		a.SetPages(rec.Pages)
		if j := imp.ensureJournal(rec.Journal, rec.ISSN); j != nil {
			_ = a.SetJournal(j)
		}
		for _, name := range rec.Authors {
			first, last := SplitName(name)
			_ = a.AddAuthor(imp.ensureAuthor(first, last, ""))
		}

		imp.log.Info().Str("title", rec.Title).Msg("imported Scopus row")
		imported = append(imported, a)
	}
	return imported
}

// ensureAuthor reuses an author by ORCID first, then by name; a new
// author is created only if neither matches.
func (imp *Importer) ensureAuthor(first, last, orcid string) *bib.Author {
	if a, ok := imp.store.AuthorByORCID(orcid); ok {
		return a
	}
	a := imp.store.EnsureAuthor(first, last)
	if orcid != "" && a.ORCID() == "" {
		a.SetORCID(orcid)
	}
	return a
}

// ensureJournal reuses a journal by ISSN first, then by name; a new
// journal is created only if neither matches. Returns nil when the record
// carries no journal at all.
func (imp *Importer) ensureJournal(name, issn string) *bib.Journal {
	if j, ok := imp.store.JournalByISSN(issn); ok {
		return j
	}
	if name == "" && issn == "" {
		return nil
	}
	j := imp.store.EnsureJournal(name)
	if issn != "" && j.ISSN() == "" {
		j.SetISSN(issn)
	}
	return j
}
