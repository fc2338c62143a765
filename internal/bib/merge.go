package bib

// Merge operations collapse a source entity into a target of the same
// kind and store, redirecting every edge, then remove the source. After a
// merge no reference to the source remains anywhere in the store.

func (s *Store) checkMerge(target, source Entity) error {
	if target.Store() != s || source.Store() != s {
		return ErrForeignEntity
	}
	if target == source {
		return ErrSelfReference
	}
	return nil
}

// checkMergeLocked rejects merges addressing an entity that has already
// been removed, so a merge can never re-point live edges at an evicted
// target.
func (s *Store) checkMergeLocked(target, source Entity) error {
	if !s.presentLocked(target) || !s.presentLocked(source) {
		return ErrNotFound
	}
	return nil
}

// MergeAuthors re-points every article listing source at target (skipping
// articles already listing target), then removes source.
func (s *Store) MergeAuthors(target, source *Author) error {
	if err := s.checkMerge(target, source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMergeLocked(target, source); err != nil {
		return err
	}
	for _, art := range s.articles {
		if s.detachAuthorLocked(art, source) {
			_ = s.attachAuthorLocked(art, target)
		}
	}
	return s.removeLocked(source)
}

// MergeJournals sets every article whose journal is source to target, then
// removes source.
func (s *Store) MergeJournals(target, source *Journal) error {
	if err := s.checkMerge(target, source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMergeLocked(target, source); err != nil {
		return err
	}
	for _, art := range s.articles {
		if art.journal == source {
			art.journal = target
			s.touchLocked(KindArticle, art.id)
			s.touchLocked(KindJournal, target.id)
		}
	}
	return s.removeLocked(source)
}

// MergeTags re-points every article tagged with source at target (skipping
// articles already tagged with target), then removes source.
func (s *Store) MergeTags(target, source *Tag) error {
	if err := s.checkMerge(target, source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMergeLocked(target, source); err != nil {
		return err
	}
	for _, art := range s.articles {
		if s.detachTagLocked(art, source) {
			_ = s.attachTagLocked(art, target)
		}
	}
	return s.removeLocked(source)
}

// MergeArticles unions source's authors, tags and outbound references into
// target, re-points inbound citations of source at target, then removes
// source.
//
// A citer that already cites target keeps its existing edge; the edge to
// source is simply dropped. This dedup-on-merge is deliberate, not an
// error. References from source to target are skipped for the same
// reason a self-citation would be invalid.
func (s *Store) MergeArticles(target, source *Article) error {
	if err := s.checkMerge(target, source); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMergeLocked(target, source); err != nil {
		return err
	}

	for _, au := range append([]*Author(nil), source.authors...) {
		_ = s.attachAuthorLocked(target, au)
	}
	for _, t := range append([]*Tag(nil), source.tags...) {
		_ = s.attachTagLocked(target, t)
	}
	for _, cited := range append([]*Article(nil), source.references...) {
		if cited == target {
			continue
		}
		_ = s.attachReferenceLocked(target, cited)
	}
	for _, citer := range append([]*Article(nil), source.referencedBy...) {
		s.detachReferenceLocked(citer, source)
		if citer == target {
			continue
		}
		_ = s.attachReferenceLocked(citer, target)
	}
	return s.removeLocked(source)
}
