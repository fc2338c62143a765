package bib

// Edge operations. Adding an edge that already exists is a no-op; removing
// an edge that does not exist returns ErrDuplicate. Both endpoints of an
// edge must belong to the same store and still be in it: an endpoint that
// has been removed yields ErrNotFound.

// AddAuthor attaches an author to the article. Already-attached authors
// are a no-op.
func (a *Article) AddAuthor(au *Author) error {
	if au.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(au) {
		return ErrNotFound
	}
	return s.attachAuthorLocked(a, au)
}

func (s *Store) attachAuthorLocked(a *Article, au *Author) error {
	for _, have := range a.authors {
		if have == au {
			return nil
		}
	}
	a.authors = append(a.authors, au)
	s.touchLocked(KindArticle, a.id)
	s.touchLocked(KindAuthor, au.id)
	return nil
}

// RemoveAuthor detaches an author from the article.
func (a *Article) RemoveAuthor(au *Author) error {
	if au.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(au) {
		return ErrNotFound
	}
	if !s.detachAuthorLocked(a, au) {
		return ErrDuplicate
	}
	return nil
}

// detachAuthorLocked removes the membership edge if present, reporting
// whether it was.
func (s *Store) detachAuthorLocked(a *Article, au *Author) bool {
	for i, have := range a.authors {
		if have == au {
			a.authors = append(a.authors[:i], a.authors[i+1:]...)
			s.touchLocked(KindArticle, a.id)
			s.touchLocked(KindAuthor, au.id)
			return true
		}
	}
	return false
}

// AddTag attaches a tag to the article. Already-attached tags are a no-op.
func (a *Article) AddTag(t *Tag) error {
	if t.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(t) {
		return ErrNotFound
	}
	return s.attachTagLocked(a, t)
}

func (s *Store) attachTagLocked(a *Article, t *Tag) error {
	for _, have := range a.tags {
		if have == t {
			return nil
		}
	}
	a.tags = append(a.tags, t)
	s.touchLocked(KindArticle, a.id)
	s.touchLocked(KindTag, t.id)
	return nil
}

// RemoveTag detaches a tag from the article.
func (a *Article) RemoveTag(t *Tag) error {
	if t.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(t) {
		return ErrNotFound
	}
	if !s.detachTagLocked(a, t) {
		return ErrDuplicate
	}
	return nil
}

func (s *Store) detachTagLocked(a *Article, t *Tag) bool {
	for i, have := range a.tags {
		if have == t {
			a.tags = append(a.tags[:i], a.tags[i+1:]...)
			s.touchLocked(KindArticle, a.id)
			s.touchLocked(KindTag, t.id)
			return true
		}
	}
	return false
}

// AddReference records that the article cites other. The inverse
// referenced-by edge is maintained alongside so the two sets stay
// symmetric. Self-citations are rejected with ErrSelfReference.
func (a *Article) AddReference(other *Article) error {
	if other.store != a.store {
		return ErrForeignEntity
	}
	if other == a {
		return ErrSelfReference
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(other) {
		return ErrNotFound
	}
	return s.attachReferenceLocked(a, other)
}

func (s *Store) attachReferenceLocked(a, other *Article) error {
	for _, have := range a.references {
		if have == other {
			return nil
		}
	}
	a.references = append(a.references, other)
	other.referencedBy = append(other.referencedBy, a)
	s.touchLocked(KindArticle, a.id)
	s.touchLocked(KindArticle, other.id)
	return nil
}

// RemoveReference drops the citation edge from the article to other,
// including its inverse.
func (a *Article) RemoveReference(other *Article) error {
	if other.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || !s.presentLocked(other) {
		return ErrNotFound
	}
	if !s.detachReferenceLocked(a, other) {
		return ErrDuplicate
	}
	return nil
}

// detachReferenceLocked removes both directions of the citation edge if
// present, reporting whether it was.
func (s *Store) detachReferenceLocked(a, other *Article) bool {
	found := false
	for i, have := range a.references {
		if have == other {
			a.references = append(a.references[:i], a.references[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i, have := range other.referencedBy {
		if have == a {
			other.referencedBy = append(other.referencedBy[:i], other.referencedBy[i+1:]...)
			break
		}
	}
	s.touchLocked(KindArticle, a.id)
	s.touchLocked(KindArticle, other.id)
	return true
}

// SetJournal sets or clears (nil) the article's journal link.
func (a *Article) SetJournal(j *Journal) error {
	if j != nil && j.store != a.store {
		return ErrForeignEntity
	}
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.presentLocked(a) || (j != nil && !s.presentLocked(j)) {
		return ErrNotFound
	}
	if a.journal == j {
		return nil
	}
	a.journal = j
	s.touchLocked(KindArticle, a.id)
	if j != nil {
		s.touchLocked(KindJournal, j.id)
	}
	return nil
}

// Journal returns the article's journal link, or nil.
func (a *Article) Journal() *Journal {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.journal
}

// Authors returns a snapshot of the article's author set.
func (a *Article) Authors() []*Author {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	out := make([]*Author, len(a.authors))
	copy(out, a.authors)
	return out
}

// References returns a snapshot of the articles this article cites.
func (a *Article) References() []*Article {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	out := make([]*Article, len(a.references))
	copy(out, a.references)
	return out
}

// ReferencedBy returns a snapshot of the articles that cite this article.
func (a *Article) ReferencedBy() []*Article {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	out := make([]*Article, len(a.referencedBy))
	copy(out, a.referencedBy)
	return out
}

// Tags returns a snapshot of the article's tag set.
func (a *Article) Tags() []*Tag {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	out := make([]*Tag, len(a.tags))
	copy(out, a.tags)
	return out
}

// HasReference reports whether the article cites other.
func (a *Article) HasReference(other *Article) bool {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	for _, have := range a.references {
		if have == other {
			return true
		}
	}
	return false
}

// HasAuthor reports whether the author is attached to the article.
func (a *Article) HasAuthor(au *Author) bool {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	for _, have := range a.authors {
		if have == au {
			return true
		}
	}
	return false
}

// HasTag reports whether the tag is attached to the article.
func (a *Article) HasTag(t *Tag) bool {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	for _, have := range a.tags {
		if have == t {
			return true
		}
	}
	return false
}
