// Package document converts a bibliographic graph to and from a
// self-contained versioned document. Cross-references are encoded as
// positions in the per-kind arrays instead of identities, so the document
// has no cycles and serializes as plain nested JSON.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/refsnow/snowball/internal/bib"
)

// Version is the only document format version this package reads and
// writes. Documents declaring any other version are rejected outright.
const Version = "1"

// NoJournal is the sentinel index for an article without a journal link.
const NoJournal = -1

var (
	// ErrFormatVersion indicates an unsupported document version. The
	// load aborts completely; there is no best-effort partial graph.
	ErrFormatVersion = errors.New("unsupported document format version")

	// ErrMalformedDocument indicates an internally inconsistent document,
	// such as a cross-reference index outside its array.
	ErrMalformedDocument = errors.New("malformed document")
)

// Document is the serialized form of a whole store.
type Document struct {
	Version  string          `json:"version"`
	Authors  []AuthorRecord  `json:"authors"`
	Journals []JournalRecord `json:"journals"`
	Tags     []TagRecord     `json:"tags"`
	Articles []ArticleRecord `json:"articles"`
}

// AuthorRecord is the flat form of one author.
type AuthorRecord struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization"`
	ORCID        string `json:"orcid"`
	Notes        string `json:"notes"`
}

// JournalRecord is the flat form of one journal.
type JournalRecord struct {
	Name  string `json:"name"`
	ISSN  string `json:"issn"`
	Notes string `json:"notes"`
}

// TagRecord is the flat form of one tag. Tag array order is the
// user-controlled display order.
type TagRecord struct {
	Name  string `json:"name"`
	Color int    `json:"color"`
	Notes string `json:"notes"`
}

// ArticleRecord is the flat form of one article. Journal is an index into
// the journals array (NoJournal for none); Authors, References and Tags
// are indices into the respective arrays.
type ArticleRecord struct {
	Title  string `json:"title"`
	DOI    string `json:"doi"`
	Year   string `json:"year"`
	Month  string `json:"month"`
	Volume string `json:"volume"`
	Issue  string `json:"issue"`
	Pages  string `json:"pages"`
	Notes  string `json:"notes"`

	Journal    int   `json:"journal"`
	Authors    []int `json:"authors"`
	References []int `json:"references"`
	Tags       []int `json:"tags"`
}

// Snapshot captures the whole store as a document. It runs under the
// store's single-logical-writer model: no mutation may be issued
// concurrently with a snapshot.
func Snapshot(s *bib.Store) *Document {
	authors := s.Authors()
	journals := s.Journals()
	tags := s.Tags()
	articles := s.Articles()

	authorIdx := make(map[*bib.Author]int, len(authors))
	journalIdx := make(map[*bib.Journal]int, len(journals))
	tagIdx := make(map[*bib.Tag]int, len(tags))
	articleIdx := make(map[*bib.Article]int, len(articles))

	doc := &Document{
		Version:  Version,
		Authors:  make([]AuthorRecord, len(authors)),
		Journals: make([]JournalRecord, len(journals)),
		Tags:     make([]TagRecord, len(tags)),
		Articles: make([]ArticleRecord, len(articles)),
	}

	for i, a := range authors {
		authorIdx[a] = i
		doc.Authors[i] = AuthorRecord{
			FirstName:    a.FirstName(),
			LastName:     a.LastName(),
			Organization: a.Organization(),
			ORCID:        a.ORCID(),
			Notes:        a.Notes(),
		}
	}
	for i, j := range journals {
		journalIdx[j] = i
		doc.Journals[i] = JournalRecord{
			Name:  j.Name(),
			ISSN:  j.ISSN(),
			Notes: j.Notes(),
		}
	}
	for i, t := range tags {
		tagIdx[t] = i
		doc.Tags[i] = TagRecord{
			Name:  t.Name(),
			Color: t.Color(),
			Notes: t.Notes(),
		}
	}
	for i, a := range articles {
		articleIdx[a] = i
	}

	for i, a := range articles {
		rec := ArticleRecord{
			Title:   a.Title(),
			DOI:     a.DOI(),
			Year:    a.Year(),
			Month:   a.Month(),
			Volume:  a.Volume(),
			Issue:   a.Issue(),
			Pages:   a.Pages(),
			Notes:   a.Notes(),
			Journal: NoJournal,
		}
		if j := a.Journal(); j != nil {
			rec.Journal = journalIdx[j]
		}
		for _, au := range a.Authors() {
			rec.Authors = append(rec.Authors, authorIdx[au])
		}
		for _, ref := range a.References() {
			rec.References = append(rec.References, articleIdx[ref])
		}
		for _, t := range a.Tags() {
			rec.Tags = append(rec.Tags, tagIdx[t])
		}
		doc.Articles[i] = rec
	}

	return doc
}

// Restore rebuilds a store from a document in two passes: first every
// entity is instantiated with scalar fields only, in the exact array
// order recorded, then cross-references are re-applied by index through
// the normal add-edge path so the integrity invariants are re-validated
// rather than assumed.
func Restore(doc *Document) (*bib.Store, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrFormatVersion, doc.Version, Version)
	}

	s := bib.NewStore()
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	authors := make([]*bib.Author, len(doc.Authors))
	for i, rec := range doc.Authors {
		a := s.NewAuthor(rec.FirstName, rec.LastName)
		a.SetOrganization(rec.Organization)
		a.SetORCID(rec.ORCID)
		a.SetNotes(rec.Notes)
		authors[i] = a
	}
	journals := make([]*bib.Journal, len(doc.Journals))
	for i, rec := range doc.Journals {
		j := s.NewJournal(rec.Name)
		j.SetISSN(rec.ISSN)
		j.SetNotes(rec.Notes)
		journals[i] = j
	}
	tags := make([]*bib.Tag, len(doc.Tags))
	for i, rec := range doc.Tags {
		t := s.NewTag(rec.Name, rec.Color)
		t.SetNotes(rec.Notes)
		tags[i] = t
	}
	articles := make([]*bib.Article, len(doc.Articles))
	for i, rec := range doc.Articles {
		a := s.NewArticle(rec.Title)
		a.SetDOI(rec.DOI)
		a.SetYear(rec.Year)
		a.SetMonth(rec.Month)
		a.SetVolume(rec.Volume)
		a.SetIssue(rec.Issue)
		a.SetPages(rec.Pages)
		a.SetNotes(rec.Notes)
		articles[i] = a
	}

	for i, rec := range doc.Articles {
		a := articles[i]
		if rec.Journal != NoJournal {
			if rec.Journal < 0 || rec.Journal >= len(journals) {
				return nil, fmt.Errorf("%w: article %d journal index %d out of range", ErrMalformedDocument, i, rec.Journal)
			}
			if err := a.SetJournal(journals[rec.Journal]); err != nil {
				return nil, fmt.Errorf("article %d journal: %w", i, err)
			}
		}
		for _, idx := range rec.Authors {
			if idx < 0 || idx >= len(authors) {
				return nil, fmt.Errorf("%w: article %d author index %d out of range", ErrMalformedDocument, i, idx)
			}
			if err := a.AddAuthor(authors[idx]); err != nil {
				return nil, fmt.Errorf("article %d author: %w", i, err)
			}
		}
		for _, idx := range rec.References {
			if idx < 0 || idx >= len(articles) {
				return nil, fmt.Errorf("%w: article %d reference index %d out of range", ErrMalformedDocument, i, idx)
			}
			if err := a.AddReference(articles[idx]); err != nil {
				return nil, fmt.Errorf("article %d reference: %w", i, err)
			}
		}
		for _, idx := range rec.Tags {
			if idx < 0 || idx >= len(tags) {
				return nil, fmt.Errorf("%w: article %d tag index %d out of range", ErrMalformedDocument, i, idx)
			}
			if err := a.AddTag(tags[idx]); err != nil {
				return nil, fmt.Errorf("article %d tag: %w", i, err)
			}
		}
	}

	s.ResetDirty()
	ok = true
	return s, nil
}

// Save writes the store as an indented JSON document.
func Save(w io.Writer, s *bib.Store) error {
	data, err := json.MarshalIndent(Snapshot(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Load reads a JSON document and restores the store it describes.
func Load(r io.Reader) (*bib.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return Restore(&doc)
}
