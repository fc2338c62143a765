package bib

import (
	"sort"
	"strings"
	"sync"
)

// Store owns one self-consistent graph of entities and edges. It keeps one
// ordered list per entity kind, enforces cross-kind invariants, and
// dispatches change notifications in commit order.
//
// The store is designed for a single logical writer; every mutating or
// list-returning operation is atomic with respect to other operations on
// the same store.
type Store struct {
	mu sync.Mutex

	authors  []*Author
	journals []*Journal
	tags     []*Tag
	articles []*Article

	handles [kindCount]kindHandle
	hub     *hub
	dirty   bool
}

// kindHandle bundles the per-kind operations the store needs, selected
// once at construction instead of re-branched on kind at every call site.
type kindHandle struct {
	length  func() int
	indexOf func(id string) int
	evict   func(i int)
	sort    func()
	cascade func(e Entity)
}

// NewStore creates an empty store and starts its notification dispatcher.
// Call Close when the store is no longer needed.
func NewStore() *Store {
	s := &Store{hub: newHub()}

	s.handles[KindAuthor] = kindHandle{
		length: func() int { return len(s.authors) },
		indexOf: func(id string) int {
			for i, a := range s.authors {
				if a.id == id {
					return i
				}
			}
			return -1
		},
		evict: func(i int) {
			s.authors = append(s.authors[:i], s.authors[i+1:]...)
		},
		sort: func() {
			sort.SliceStable(s.authors, func(i, j int) bool {
				return compareAuthorsLocked(s.authors[i], s.authors[j]) < 0
			})
		},
		cascade: func(e Entity) { s.cascadeAuthorLocked(e.(*Author)) },
	}
	s.handles[KindJournal] = kindHandle{
		length: func() int { return len(s.journals) },
		indexOf: func(id string) int {
			for i, j := range s.journals {
				if j.id == id {
					return i
				}
			}
			return -1
		},
		evict: func(i int) {
			s.journals = append(s.journals[:i], s.journals[i+1:]...)
		},
		sort: func() {
			sort.SliceStable(s.journals, func(i, j int) bool {
				return compareJournalsLocked(s.journals[i], s.journals[j]) < 0
			})
		},
		cascade: func(e Entity) { s.cascadeJournalLocked(e.(*Journal)) },
	}
	s.handles[KindTag] = kindHandle{
		length: func() int { return len(s.tags) },
		indexOf: func(id string) int {
			for i, t := range s.tags {
				if t.id == id {
					return i
				}
			}
			return -1
		},
		evict: func(i int) {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
		},
		// Tag order is explicit and user-controlled, never recomputed.
		sort:    func() {},
		cascade: func(e Entity) { s.cascadeTagLocked(e.(*Tag)) },
	}
	s.handles[KindArticle] = kindHandle{
		length: func() int { return len(s.articles) },
		indexOf: func(id string) int {
			for i, a := range s.articles {
				if a.id == id {
					return i
				}
			}
			return -1
		},
		evict: func(i int) {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
		},
		sort: func() {
			sort.SliceStable(s.articles, func(i, j int) bool {
				return compareArticlesLocked(s.articles[i], s.articles[j]) < 0
			})
		},
		cascade: func(e Entity) { s.cascadeArticleLocked(e.(*Article)) },
	}

	return s
}

// Close shuts down the notification dispatcher. Subscriber channels are
// closed after any buffered events have been delivered.
func (s *Store) Close() {
	s.hub.close()
}

// Subscribe registers for change notifications on the given kinds (all
// kinds if none are given). Events are delivered asynchronously relative
// to the mutations that caused them, in commit order. Subscribers must
// keep draining the subscription or Cancel it; see Subscription.
func (s *Store) Subscribe(kinds ...Kind) *Subscription {
	return s.hub.subscribe(kinds)
}

// Dirty reports whether the store has unsaved changes since the last
// successful restore.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// ResetDirty clears the unsaved-changes flag. It is called by the
// serialization layer after a successful restore.
func (s *Store) ResetDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// setField runs mutate under the store lock. If mutate reports a change,
// the kind's list is re-sorted, the store is marked dirty, and a
// contents-changed event is queued.
func (s *Store) setField(k Kind, entityID string, mutate func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !mutate() {
		return
	}
	s.touchLocked(k, entityID)
}

// touchLocked re-sorts the kind's list, marks the store dirty and queues
// a contents-changed event for it.
func (s *Store) touchLocked(k Kind, entityID string) {
	s.handles[k].sort()
	s.dirty = true
	s.hub.publish(Event{Kind: k, Type: EventChanged, Index: -1, EntityID: entityID})
}

// insertLocked re-sorts after an append and fires the insertion event
// carrying the new index.
func (s *Store) insertLocked(k Kind, entityID string) {
	s.handles[k].sort()
	s.dirty = true
	s.hub.publish(Event{Kind: k, Type: EventAdded, Index: s.handles[k].indexOf(entityID), EntityID: entityID})
}

// NewAuthor creates an author attached to this store and inserts it in
// order.
func (s *Store) NewAuthor(first, last string) *Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Author{entity: newEntity(KindAuthor, s), firstName: first, lastName: last}
	s.authors = append(s.authors, a)
	s.insertLocked(KindAuthor, a.id)
	return a
}

// NewJournal creates a journal attached to this store and inserts it in
// order.
func (s *Store) NewJournal(name string) *Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := &Journal{entity: newEntity(KindJournal, s), name: name}
	s.journals = append(s.journals, j)
	s.insertLocked(KindJournal, j.id)
	return j
}

// NewTag creates a tag attached to this store and appends it to the end
// of the tag list.
func (s *Store) NewTag(name string, color int) *Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Tag{entity: newEntity(KindTag, s), name: name, color: color & MaxColor}
	s.tags = append(s.tags, t)
	s.insertLocked(KindTag, t.id)
	return t
}

// NewArticle creates an article attached to this store and inserts it in
// order.
func (s *Store) NewArticle(title string) *Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Article{entity: newEntity(KindArticle, s), title: title}
	s.articles = append(s.articles, a)
	s.insertLocked(KindArticle, a.id)
	return a
}

// Authors returns a snapshot of the author list in display order.
func (s *Store) Authors() []*Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Author, len(s.authors))
	copy(out, s.authors)
	return out
}

// Journals returns a snapshot of the journal list in display order.
func (s *Store) Journals() []*Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Journal, len(s.journals))
	copy(out, s.journals)
	return out
}

// Tags returns a snapshot of the tag list in user order.
func (s *Store) Tags() []*Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Articles returns a snapshot of the article list in display order.
func (s *Store) Articles() []*Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// EnsureAuthor returns the author matching (first, last) case-insensitively,
// creating one if absent.
func (s *Store) EnsureAuthor(first, last string) *Author {
	s.mu.Lock()
	for _, a := range s.authors {
		if strings.EqualFold(a.firstName, first) && strings.EqualFold(a.lastName, last) {
			s.mu.Unlock()
			return a
		}
	}
	s.mu.Unlock()
	return s.NewAuthor(first, last)
}

// AuthorByORCID returns the author with the given ORCID, if any. The
// empty ORCID never matches.
func (s *Store) AuthorByORCID(orcid string) (*Author, bool) {
	if orcid == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.authors {
		if a.orcid == orcid {
			return a, true
		}
	}
	return nil, false
}

// EnsureJournal returns the journal with the given name (exact match),
// creating one if absent.
func (s *Store) EnsureJournal(name string) *Journal {
	s.mu.Lock()
	for _, j := range s.journals {
		if j.name == name {
			s.mu.Unlock()
			return j
		}
	}
	s.mu.Unlock()
	return s.NewJournal(name)
}

// JournalByISSN returns the journal with the given ISSN, if any. The
// empty ISSN never matches.
func (s *Store) JournalByISSN(issn string) (*Journal, bool) {
	if issn == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.journals {
		if j.issn == issn {
			return j, true
		}
	}
	return nil, false
}

// ArticleByDOI returns the article with the given DOI (exact match), if
// any. No article is created: callers decide.
func (s *Store) ArticleByDOI(doi string) (*Article, bool) {
	if doi == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.doi == doi {
			return a, true
		}
	}
	return nil, false
}

// ArticleByTitle returns the article whose title matches
// case-insensitively, if any.
func (s *Store) ArticleByTitle(title string) (*Article, bool) {
	if title == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if strings.EqualFold(a.title, title) {
			return a, true
		}
	}
	return nil, false
}

// Remove detaches every edge pointing at e, evicts it from its list, and
// fires a removal event. The entity must not be reused afterwards.
func (s *Store) Remove(e Entity) error {
	if e.Store() != s {
		return ErrForeignEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(e)
}

// presentLocked reports whether the entity is still in its kind's list.
// Edge and merge operations check this so a removed entity can never be
// re-linked into the graph.
func (s *Store) presentLocked(e Entity) bool {
	return s.handles[e.Kind()].indexOf(e.ID()) >= 0
}

func (s *Store) removeLocked(e Entity) error {
	h := s.handles[e.Kind()]
	if h.indexOf(e.ID()) < 0 {
		return ErrNotFound
	}

	h.cascade(e)

	// Cascade may have re-sorted; look the index up again for the event.
	i := h.indexOf(e.ID())
	h.evict(i)
	s.dirty = true
	s.hub.publish(Event{Kind: e.Kind(), Type: EventRemoved, Index: i, EntityID: e.ID()})
	return nil
}

func (s *Store) cascadeAuthorLocked(au *Author) {
	for _, art := range s.articles {
		s.detachAuthorLocked(art, au)
	}
}

func (s *Store) cascadeJournalLocked(j *Journal) {
	for _, art := range s.articles {
		if art.journal == j {
			art.journal = nil
			s.touchLocked(KindArticle, art.id)
		}
	}
}

func (s *Store) cascadeTagLocked(t *Tag) {
	for _, art := range s.articles {
		s.detachTagLocked(art, t)
	}
}

// cascadeArticleLocked tears down all citation edges before eviction:
// inbound edges first, then outbound, both through the paired remove-edge
// path so symmetry holds throughout.
func (s *Store) cascadeArticleLocked(a *Article) {
	for _, citer := range append([]*Article(nil), a.referencedBy...) {
		s.detachReferenceLocked(citer, a)
	}
	for _, cited := range append([]*Article(nil), a.references...) {
		s.detachReferenceLocked(a, cited)
	}
	for _, au := range append([]*Author(nil), a.authors...) {
		s.detachAuthorLocked(a, au)
	}
	for _, t := range append([]*Tag(nil), a.tags...) {
		s.detachTagLocked(a, t)
	}
	if a.journal != nil {
		a.journal = nil
		s.touchLocked(KindArticle, a.id)
	}
}

// MoveTagUp moves a tag one position earlier in the user-controlled tag
// order.
func (s *Store) MoveTagUp(t *Tag) error {
	return s.moveTag(t, -1)
}

// MoveTagDown moves a tag one position later in the user-controlled tag
// order.
func (s *Store) MoveTagDown(t *Tag) error {
	return s.moveTag(t, 1)
}

func (s *Store) moveTag(t *Tag, delta int) error {
	if t.store != s {
		return ErrForeignEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.handles[KindTag].indexOf(t.id)
	if i < 0 {
		return ErrNotFound
	}
	j := i + delta
	if j < 0 || j >= len(s.tags) {
		return nil
	}
	s.tags[i], s.tags[j] = s.tags[j], s.tags[i]
	s.dirty = true
	s.hub.publish(Event{Kind: KindTag, Type: EventChanged, Index: -1, EntityID: t.id})
	return nil
}
