package bib

import "strings"

// foldCompare compares two strings case-insensitively.
func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareKeyed orders entities by an optional key: entities without a key
// sort before entities with one, two absent keys compare equal, otherwise
// the keys are compared case-insensitively.
func compareKeyed(aHas, bHas bool, aKey, bKey string) int {
	switch {
	case !aHas && !bHas:
		return 0
	case !aHas:
		return -1
	case !bHas:
		return 1
	}
	return foldCompare(aKey, bKey)
}

func compareAuthorsLocked(a, b *Author) int {
	aHas := a.lastName != "" || a.firstName != ""
	bHas := b.lastName != "" || b.firstName != ""
	if c := compareKeyed(aHas, bHas, a.lastName, b.lastName); c != 0 || !aHas {
		return c
	}
	return foldCompare(a.firstName, b.firstName)
}

func compareJournalsLocked(a, b *Journal) int {
	return compareKeyed(a.name != "", b.name != "", a.name, b.name)
}

func compareArticlesLocked(a, b *Article) int {
	return compareKeyed(a.title != "", b.title != "", a.title, b.title)
}

// Compare orders two authors by (last name, first name), case-insensitive.
// Comparing authors from different stores returns ErrForeignEntity.
func (a *Author) Compare(other *Author) (int, error) {
	if a.store != other.store {
		return 0, ErrForeignEntity
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return compareAuthorsLocked(a, other), nil
}

// Compare orders two journals by name, case-insensitive. Comparing
// journals from different stores returns ErrForeignEntity.
func (j *Journal) Compare(other *Journal) (int, error) {
	if j.store != other.store {
		return 0, ErrForeignEntity
	}
	j.store.mu.Lock()
	defer j.store.mu.Unlock()
	return compareJournalsLocked(j, other), nil
}

// Compare orders two articles by title, case-insensitive. Comparing
// articles from different stores returns ErrForeignEntity.
func (a *Article) Compare(other *Article) (int, error) {
	if a.store != other.store {
		return 0, ErrForeignEntity
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return compareArticlesLocked(a, other), nil
}
