package bib

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	t.Cleanup(s.Close)
	return s
}

func TestAuthorOrdering(t *testing.T) {
	s := newTestStore(t)

	s.NewAuthor("Josiah", "Carberry")
	s.NewAuthor("Jane", "Adams")
	s.NewAuthor("john", "adams")

	got := s.Authors()
	want := [][2]string{
		{"Jane", "Adams"},
		{"john", "adams"},
		{"Josiah", "Carberry"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d authors, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].FirstName() != w[0] || got[i].LastName() != w[1] {
			t.Errorf("authors[%d] = %q %q, want %q %q",
				i, got[i].FirstName(), got[i].LastName(), w[0], w[1])
		}
	}
}

func TestEmptyNameSortsFirst(t *testing.T) {
	s := newTestStore(t)

	s.NewArticle("Agile Methods")
	s.NewArticle("")
	s.NewJournal("Psychoceramics Quarterly")
	s.NewJournal("")

	if got := s.Articles()[0].Title(); got != "" {
		t.Errorf("first article title = %q, want empty", got)
	}
	if got := s.Journals()[0].Name(); got != "" {
		t.Errorf("first journal name = %q, want empty", got)
	}
}

func TestResortOnRename(t *testing.T) {
	s := newTestStore(t)

	a := s.NewArticle("Alpha")
	s.NewArticle("Beta")

	a.SetTitle("Zeta")
	if got := s.Articles()[0].Title(); got != "Beta" {
		t.Errorf("first article after rename = %q, want Beta", got)
	}
}

func TestCompareCrossStore(t *testing.T) {
	s1 := newTestStore(t)
	s2 := newTestStore(t)

	a := s1.NewAuthor("Jane", "Adams")
	b := s2.NewAuthor("Josiah", "Carberry")
	if _, err := a.Compare(b); !errors.Is(err, ErrForeignEntity) {
		t.Errorf("Compare across stores = %v, want ErrForeignEntity", err)
	}
}

func TestEnsureAuthorCaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	a := s.NewAuthor("Jane", "Adams")
	if got := s.EnsureAuthor("JANE", "adams"); got != a {
		t.Error("EnsureAuthor did not match existing author case-insensitively")
	}
	if got := s.EnsureAuthor("Jane", "Addams"); got == a {
		t.Error("EnsureAuthor matched a different last name")
	}
	if n := len(s.Authors()); n != 2 {
		t.Errorf("got %d authors, want 2", n)
	}
}

func TestLookupByIdentifier(t *testing.T) {
	s := newTestStore(t)

	a := s.NewAuthor("Josiah", "Carberry")
	a.SetORCID("0000-0002-1825-0097")
	j := s.NewJournal("Psychoceramics Quarterly")
	j.SetISSN("0123-4567")
	art := s.NewArticle("Toward a Unified Theory of High-Energy Metaphysics")
	art.SetDOI("10.5555/12345678")

	if got, ok := s.AuthorByORCID("0000-0002-1825-0097"); !ok || got != a {
		t.Error("AuthorByORCID missed")
	}
	if _, ok := s.AuthorByORCID(""); ok {
		t.Error("empty ORCID matched")
	}
	if got, ok := s.JournalByISSN("0123-4567"); !ok || got != j {
		t.Error("JournalByISSN missed")
	}
	if got, ok := s.ArticleByDOI("10.5555/12345678"); !ok || got != art {
		t.Error("ArticleByDOI missed")
	}
	if _, ok := s.ArticleByDOI("10.5555/99999999"); ok {
		t.Error("ArticleByDOI matched an absent DOI")
	}
	if got, ok := s.ArticleByTitle("toward a unified theory of high-energy metaphysics"); !ok || got != art {
		t.Error("ArticleByTitle should match case-insensitively")
	}
}

func TestDirtyFlag(t *testing.T) {
	s := newTestStore(t)

	if s.Dirty() {
		t.Fatal("new store reports dirty")
	}
	a := s.NewArticle("Alpha")
	if !s.Dirty() {
		t.Fatal("store not dirty after creation")
	}
	s.ResetDirty()
	if s.Dirty() {
		t.Fatal("ResetDirty did not clear the flag")
	}

	// Setting a field to its current value is not a change.
	a.SetTitle("Alpha")
	if s.Dirty() {
		t.Error("no-op set marked the store dirty")
	}
	a.SetTitle("Beta")
	if !s.Dirty() {
		t.Error("field change did not mark the store dirty")
	}
}

func TestRemoveAbsentEntity(t *testing.T) {
	s := newTestStore(t)

	a := s.NewArticle("Alpha")
	if err := s.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(a); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove = %v, want ErrNotFound", err)
	}
}

func TestRemoveForeignEntity(t *testing.T) {
	s1 := newTestStore(t)
	s2 := newTestStore(t)

	a := s2.NewArticle("Alpha")
	if err := s1.Remove(a); !errors.Is(err, ErrForeignEntity) {
		t.Errorf("Remove foreign = %v, want ErrForeignEntity", err)
	}
}

func TestRemoveAuthorCascades(t *testing.T) {
	s := newTestStore(t)

	au := s.NewAuthor("Josiah", "Carberry")
	a1 := s.NewArticle("Alpha")
	a2 := s.NewArticle("Beta")
	if err := a1.AddAuthor(au); err != nil {
		t.Fatal(err)
	}
	if err := a2.AddAuthor(au); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(au); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(a1.Authors()) != 0 || len(a2.Authors()) != 0 {
		t.Error("removed author still attached to articles")
	}
}

func TestRemoveJournalCascades(t *testing.T) {
	s := newTestStore(t)

	j := s.NewJournal("Psychoceramics Quarterly")
	a := s.NewArticle("Alpha")
	if err := a.SetJournal(j); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(j); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if a.Journal() != nil {
		t.Error("article still linked to removed journal")
	}
}

func TestRemoveArticleCascades(t *testing.T) {
	s := newTestStore(t)

	mid := s.NewArticle("Middle")
	citer := s.NewArticle("Citer")
	cited := s.NewArticle("Cited")
	if err := citer.AddReference(mid); err != nil {
		t.Fatal(err)
	}
	if err := mid.AddReference(cited); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(mid); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(citer.References()) != 0 {
		t.Error("citer still references removed article")
	}
	if len(cited.ReferencedBy()) != 0 {
		t.Error("cited article still referenced by removed article")
	}
	if n := len(s.Articles()); n != 2 {
		t.Errorf("got %d articles after removal, want 2", n)
	}
}

func TestTagOrderIsExplicit(t *testing.T) {
	s := newTestStore(t)

	z := s.NewTag("zebra", 0x112233)
	a := s.NewTag("aardvark", 0x445566)
	m := s.NewTag("marmot", 0x778899)

	// Creation order, not name order.
	if got := tagNames(s); got != "zebra,aardvark,marmot" {
		t.Fatalf("tag order = %s", got)
	}

	if err := s.MoveTagUp(m); err != nil {
		t.Fatal(err)
	}
	if got := tagNames(s); got != "zebra,marmot,aardvark" {
		t.Errorf("after MoveTagUp: %s", got)
	}

	// Moving past either end is a no-op.
	if err := s.MoveTagUp(z); err != nil {
		t.Fatal(err)
	}
	if err := s.MoveTagDown(a); err != nil {
		t.Fatal(err)
	}
	if got := tagNames(s); got != "zebra,marmot,aardvark" {
		t.Errorf("after boundary moves: %s", got)
	}
}

func tagNames(s *Store) string {
	out := ""
	for i, t := range s.Tags() {
		if i > 0 {
			out += ","
		}
		out += t.Name()
	}
	return out
}

func TestTagColorMask(t *testing.T) {
	s := newTestStore(t)

	tag := s.NewTag("wide", 0x1FFFFFF)
	if got := tag.Color(); got != MaxColor {
		t.Errorf("color = %#x, want %#x", got, MaxColor)
	}
	tag.SetColor(-1)
	if got := tag.Color(); got < 0 || got > MaxColor {
		t.Errorf("color = %#x, out of 24-bit range", got)
	}
}
