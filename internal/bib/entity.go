// Package bib implements the in-memory bibliographic graph: authors,
// journals, tags and articles owned by a Store, linked by authorship,
// publication, citation and tagging edges.
//
// All mutations go through the owning Store, which keeps each per-kind
// list sorted, enforces referential integrity across edges, and dispatches
// ordered change notifications to subscribers.
package bib

import "github.com/google/uuid"

// Kind identifies one of the four entity kinds owned by a Store.
type Kind int

const (
	KindAuthor Kind = iota
	KindJournal
	KindTag
	KindArticle
)

// kindCount is the number of entity kinds.
const kindCount = 4

func (k Kind) String() string {
	switch k {
	case KindAuthor:
		return "author"
	case KindJournal:
		return "journal"
	case KindTag:
		return "tag"
	case KindArticle:
		return "article"
	}
	return "unknown"
}

// Entity is implemented by Author, Journal, Tag and Article.
type Entity interface {
	// ID returns the entity's opaque identity, stable for its lifetime.
	ID() string

	// Kind returns the entity's kind.
	Kind() Kind

	// Store returns the owning store. The store reference is set at
	// creation and never reassigned.
	Store() *Store

	// Notes returns the free-text notes attached to the entity.
	Notes() string

	// SetNotes replaces the free-text notes.
	SetNotes(notes string)
}

// entity carries the attributes common to every kind: identity, the
// back-reference to the owning store, and free-text notes.
type entity struct {
	id    string
	kind  Kind
	store *Store
	notes string
}

func newEntity(kind Kind, store *Store) entity {
	return entity{
		id:    uuid.NewString(),
		kind:  kind,
		store: store,
	}
}

func (e *entity) ID() string    { return e.id }
func (e *entity) Kind() Kind    { return e.kind }
func (e *entity) Store() *Store { return e.store }

func (e *entity) Notes() string {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.notes
}

func (e *entity) SetNotes(notes string) {
	e.store.setField(e.kind, e.id, func() bool {
		if e.notes == notes {
			return false
		}
		e.notes = notes
		return true
	})
}

// Author is a person that can be attached to articles.
// Order key: (last name, first name), case-insensitive.
type Author struct {
	entity
	firstName    string
	lastName     string
	organization string
	orcid        string
}

func (a *Author) FirstName() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.firstName
}

func (a *Author) LastName() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.lastName
}

func (a *Author) Organization() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.organization
}

func (a *Author) ORCID() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.orcid
}

func (a *Author) SetFirstName(v string) {
	a.store.setField(KindAuthor, a.id, func() bool {
		if a.firstName == v {
			return false
		}
		a.firstName = v
		return true
	})
}

func (a *Author) SetLastName(v string) {
	a.store.setField(KindAuthor, a.id, func() bool {
		if a.lastName == v {
			return false
		}
		a.lastName = v
		return true
	})
}

func (a *Author) SetOrganization(v string) {
	a.store.setField(KindAuthor, a.id, func() bool {
		if a.organization == v {
			return false
		}
		a.organization = v
		return true
	})
}

func (a *Author) SetORCID(v string) {
	a.store.setField(KindAuthor, a.id, func() bool {
		if a.orcid == v {
			return false
		}
		a.orcid = v
		return true
	})
}

// Journal is a publication venue. Order key: name, case-insensitive.
type Journal struct {
	entity
	name string
	issn string
}

func (j *Journal) Name() string {
	j.store.mu.Lock()
	defer j.store.mu.Unlock()
	return j.name
}

func (j *Journal) ISSN() string {
	j.store.mu.Lock()
	defer j.store.mu.Unlock()
	return j.issn
}

func (j *Journal) SetName(v string) {
	j.store.setField(KindJournal, j.id, func() bool {
		if j.name == v {
			return false
		}
		j.name = v
		return true
	})
}

func (j *Journal) SetISSN(v string) {
	j.store.setField(KindJournal, j.id, func() bool {
		if j.issn == v {
			return false
		}
		j.issn = v
		return true
	})
}

// MaxColor is the largest valid tag color (24-bit RGB).
const MaxColor = 1<<24 - 1

// Tag is a free-form label with a 24-bit color. Tags keep an explicit
// user-controlled position in the store's tag list instead of a computed
// order key.
type Tag struct {
	entity
	name  string
	color int
}

func (t *Tag) Name() string {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.name
}

func (t *Tag) Color() int {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.color
}

func (t *Tag) SetName(v string) {
	t.store.setField(KindTag, t.id, func() bool {
		if t.name == v {
			return false
		}
		t.name = v
		return true
	})
}

func (t *Tag) SetColor(v int) {
	v &= MaxColor
	t.store.setField(KindTag, t.id, func() bool {
		if t.color == v {
			return false
		}
		t.color = v
		return true
	})
}

// Article is a bibliographic record. Order key: title, case-insensitive.
//
// The references and referencedBy sets are kept symmetric by the paired
// add/remove-edge operations: A lists B as a reference iff B lists A as
// referenced-by.
type Article struct {
	entity
	title  string
	doi    string
	year   string
	month  string
	volume string
	issue  string
	pages  string

	journal      *Journal
	authors      []*Author
	references   []*Article
	referencedBy []*Article
	tags         []*Tag
}

func (a *Article) Title() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.title
}

func (a *Article) DOI() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.doi
}

func (a *Article) Year() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.year
}

func (a *Article) Month() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.month
}

func (a *Article) Volume() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.volume
}

func (a *Article) Issue() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.issue
}

func (a *Article) Pages() string {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.pages
}

func (a *Article) SetTitle(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.title == v {
			return false
		}
		a.title = v
		return true
	})
}

func (a *Article) SetDOI(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.doi == v {
			return false
		}
		a.doi = v
		return true
	})
}

func (a *Article) SetYear(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.year == v {
			return false
		}
		a.year = v
		return true
	})
}

func (a *Article) SetMonth(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.month == v {
			return false
		}
		a.month = v
		return true
	})
}

func (a *Article) SetVolume(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.volume == v {
			return false
		}
		a.volume = v
		return true
	})
}

func (a *Article) SetIssue(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.issue == v {
			return false
		}
		a.issue = v
		return true
	})
}

func (a *Article) SetPages(v string) {
	a.store.setField(KindArticle, a.id, func() bool {
		if a.pages == v {
			return false
		}
		a.pages = v
		return true
	})
}
