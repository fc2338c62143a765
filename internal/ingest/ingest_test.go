package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refsnow/snowball/internal/arxiv"
	"github.com/refsnow/snowball/internal/bib"
	"github.com/refsnow/snowball/internal/crossref"
	"github.com/refsnow/snowball/internal/scopus"
)

const workBody = `{
  "status": "ok",
  "message-type": "work",
  "message": {
    "DOI": "10.5555/12345678",
    "title": ["Toward a Unified Theory of High-Energy Metaphysics"],
    "container-title": ["Journal of Psychoceramics"],
    "ISSN": ["0123-4567"],
    "volume": "5",
    "issue": "11",
    "page": "1-3",
    "issued": {"date-parts": [[2008, 8]]},
    "author": [
      {"given": "Josiah", "family": "Carberry", "ORCID": "https://orcid.org/0000-0002-1825-0097"}
    ],
    "reference": [
      {"DOI": "10.5555/87654321", "article-title": "The Memory Bus Considered Harmful", "author": "Smith", "journal-title": "Annals of Computing", "year": "1999"},
      {"article-title": "Untitled Manuscript"},
      {}
    ]
  }
}`

func newCrossRefImporter(t *testing.T, store *bib.Store, body string) *Importer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(store, WithCrossRef(crossref.NewClient(crossref.WithBaseURL(srv.URL))))
}

func TestImportDOI(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := newCrossRefImporter(t, store, workBody)

	a, err := imp.ImportDOI(context.Background(), "https://doi.org/10.5555/12345678")
	require.NoError(t, err)

	assert.Equal(t, "Toward a Unified Theory of High-Energy Metaphysics", a.Title())
	assert.Equal(t, "10.5555/12345678", a.DOI())
	assert.Equal(t, "2008", a.Year())
	assert.Equal(t, "8", a.Month())
	assert.Equal(t, "1-3", a.Pages())

	j := a.Journal()
	require.NotNil(t, j)
	assert.Equal(t, "Journal of Psychoceramics", j.Name())
	assert.Equal(t, "0123-4567", j.ISSN())

	authors := a.Authors()
	require.Len(t, authors, 1)
	assert.Equal(t, "0000-0002-1825-0097", authors[0].ORCID())

	// Reference entries with a DOI or a title become linked stubs; the
	// empty entry is skipped.
	refs := a.References()
	require.Len(t, refs, 2)
	stub, ok := store.ArticleByDOI("10.5555/87654321")
	require.True(t, ok)
	assert.Equal(t, "The Memory Bus Considered Harmful", stub.Title())
	assert.Equal(t, "1999", stub.Year())
	require.NotNil(t, stub.Journal())
	assert.Equal(t, "Annals of Computing", stub.Journal().Name())
	require.Len(t, stub.Authors(), 1)
	assert.Equal(t, "Smith", stub.Authors()[0].LastName())
	assert.Equal(t, []*bib.Article{a}, stub.ReferencedBy())

	// 1 imported + 2 stubs.
	assert.Len(t, store.Articles(), 3)
}

func TestImportDOIAlreadyPresent(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := newCrossRefImporter(t, store, workBody)

	existing := store.NewArticle("Manually entered")
	existing.SetDOI("10.5555/12345678")

	a, err := imp.ImportDOI(context.Background(), "doi:10.5555/12345678")
	require.NoError(t, err)
	assert.Same(t, existing, a)
	assert.Len(t, store.Articles(), 1)
}

func TestImportDOIReusesStub(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := newCrossRefImporter(t, store, workBody)

	// A stub with the reference's DOI already exists; the import links to
	// it instead of creating a duplicate.
	stub := store.NewArticle("Old stub title")
	stub.SetDOI("10.5555/87654321")

	a, err := imp.ImportDOI(context.Background(), "10.5555/12345678")
	require.NoError(t, err)
	assert.True(t, a.HasReference(stub))
	assert.Len(t, store.Articles(), 3)
}

func TestImportDOIFetchFailure(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	imp := New(store, WithCrossRef(crossref.NewClient(crossref.WithBaseURL(srv.URL))))

	_, err := imp.ImportDOI(context.Background(), "10.5555/does-not-exist")
	assert.ErrorIs(t, err, crossref.ErrNotFound)
	assert.Empty(t, store.Articles())
}

func TestEnsureAuthorPriorities(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := New(store)

	// ORCID wins over a differing name.
	orig := store.NewAuthor("Josiah", "Carberry")
	orig.SetORCID("0000-0002-1825-0097")
	got := imp.ensureAuthor("J", "Carberry-Smith", "0000-0002-1825-0097")
	assert.Same(t, orig, got)

	// Name match backfills a missing ORCID.
	plain := store.NewAuthor("Jane", "Adams")
	got = imp.ensureAuthor("jane", "ADAMS", "0000-0001-0000-0001")
	assert.Same(t, plain, got)
	assert.Equal(t, "0000-0001-0000-0001", plain.ORCID())

	// An existing ORCID is never overwritten by a name match.
	got = imp.ensureAuthor("Josiah", "Carberry", "0000-0009-9999-9999")
	assert.Same(t, orig, got)
	assert.Equal(t, "0000-0002-1825-0097", orig.ORCID())

	assert.Len(t, store.Authors(), 2)
}

func TestEnsureJournalPriorities(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := New(store)

	assert.Nil(t, imp.ensureJournal("", ""))

	j := imp.ensureJournal("Journal of Psychoceramics", "0123-4567")
	require.NotNil(t, j)
	assert.Equal(t, "0123-4567", j.ISSN())

	// ISSN wins over a differing name.
	got := imp.ensureJournal("J. Psychoceram.", "0123-4567")
	assert.Same(t, j, got)

	assert.Len(t, store.Journals(), 1)
}

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <published>2023-01-01T09:00:00Z</published>
    <title>Attention Is Not All You Need</title>
    <author><name>Jane Adams</name></author>
    <author><name>Josiah Carberry</name></author>
  </entry>
</feed>`

func newArxivImporter(t *testing.T, store *bib.Store) *Importer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, arxivFeed)
	}))
	t.Cleanup(srv.Close)
	return New(store, WithArxiv(arxiv.NewClient(arxiv.WithBaseURL(srv.URL))))
}

func TestImportArxiv(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := newArxivImporter(t, store)

	a, err := imp.ImportArxiv(context.Background(), "2301.00001")
	require.NoError(t, err)
	assert.Equal(t, "Attention Is Not All You Need", a.Title())
	assert.Equal(t, "2023", a.Year())
	assert.Equal(t, "1", a.Month())
	assert.Len(t, a.Authors(), 2)
}

func TestImportArxivAlreadyPresent(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := newArxivImporter(t, store)

	existing := store.NewArticle("attention is not all you need")

	a, err := imp.ImportArxiv(context.Background(), "2301.00001")
	require.NoError(t, err)
	assert.Same(t, existing, a)
	assert.Len(t, store.Articles(), 1)
}

func TestImportScopus(t *testing.T) {
	store := bib.NewStore()
	defer store.Close()
	imp := New(store)

	existing := store.NewArticle("Already Here")
	existing.SetDOI("10.5555/0001")

	records := []scopus.Record{
		{
			DOI:     "10.5555/12345678",
			ISSN:    "01234567",
			Journal: "Journal of Psychoceramics",
			Title:   "Toward a Unified Theory of High-Energy Metaphysics",
			Year:    "2008",
			Volume:  "5",
			Issue:   "11",
			Pages:   "1-3",
			Authors: []string{"Josiah Carberry", "Jane Adams"},
		},
		{DOI: "10.5555/0001", Title: "Duplicate by DOI"},
		{Title: "already here"},
		{Title: "Editorial"},
	}

	imported := imp.ImportScopus(records)
	require.Len(t, imported, 2)

	a := imported[0]
	assert.Equal(t, "10.5555/12345678", a.DOI())
	assert.Equal(t, "2008", a.Year())
	require.NotNil(t, a.Journal())
	assert.Equal(t, "01234567", a.Journal().ISSN())
	require.Len(t, a.Authors(), 2)
	assert.Equal(t, "Carberry", a.Authors()[0].LastName())

	// One pre-existing + two imported.
	assert.Len(t, store.Articles(), 3)
}
