package bib

import (
	"errors"
	"testing"
)

func TestMergeAuthors(t *testing.T) {
	s := newTestStore(t)

	target := s.NewAuthor("Josiah", "Carberry")
	source := s.NewAuthor("J", "Carberry")
	onlySource := s.NewArticle("Alpha")
	both := s.NewArticle("Beta")
	if err := onlySource.AddAuthor(source); err != nil {
		t.Fatal(err)
	}
	if err := both.AddAuthor(source); err != nil {
		t.Fatal(err)
	}
	if err := both.AddAuthor(target); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeAuthors(target, source); err != nil {
		t.Fatalf("MergeAuthors: %v", err)
	}

	if got := onlySource.Authors(); len(got) != 1 || got[0] != target {
		t.Error("article not re-pointed at target")
	}
	// Already listing target: source's edge is dropped, not duplicated.
	if got := both.Authors(); len(got) != 1 || got[0] != target {
		t.Errorf("got %d authors on shared article, want 1", len(got))
	}
	if n := len(s.Authors()); n != 1 {
		t.Errorf("got %d authors after merge, want 1", n)
	}
}

func TestMergeJournals(t *testing.T) {
	s := newTestStore(t)

	target := s.NewJournal("Psychoceramics Quarterly")
	source := s.NewJournal("Psychoceramics Q.")
	a := s.NewArticle("Alpha")
	if err := a.SetJournal(source); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeJournals(target, source); err != nil {
		t.Fatalf("MergeJournals: %v", err)
	}
	if a.Journal() != target {
		t.Error("article journal not re-pointed at target")
	}
	if n := len(s.Journals()); n != 1 {
		t.Errorf("got %d journals after merge, want 1", n)
	}
}

func TestMergeTags(t *testing.T) {
	s := newTestStore(t)

	target := s.NewTag("methods", 0x111111)
	source := s.NewTag("methodology", 0x222222)
	a := s.NewArticle("Alpha")
	if err := a.AddTag(source); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeTags(target, source); err != nil {
		t.Fatalf("MergeTags: %v", err)
	}
	if !a.HasTag(target) || a.HasTag(source) {
		t.Error("tag edge not re-pointed at target")
	}
	if n := len(s.Tags()); n != 1 {
		t.Errorf("got %d tags after merge, want 1", n)
	}
}

func TestMergeArticles(t *testing.T) {
	s := newTestStore(t)

	target := s.NewArticle("Target")
	source := s.NewArticle("Source")
	au := s.NewAuthor("Jane", "Adams")
	tag := s.NewTag("core", 0)
	cited := s.NewArticle("Cited")
	citer := s.NewArticle("Citer")

	if err := source.AddAuthor(au); err != nil {
		t.Fatal(err)
	}
	if err := source.AddTag(tag); err != nil {
		t.Fatal(err)
	}
	if err := source.AddReference(cited); err != nil {
		t.Fatal(err)
	}
	if err := citer.AddReference(source); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeArticles(target, source); err != nil {
		t.Fatalf("MergeArticles: %v", err)
	}

	if !target.HasAuthor(au) {
		t.Error("author not carried into target")
	}
	if !target.HasTag(tag) {
		t.Error("tag not carried into target")
	}
	if !target.HasReference(cited) {
		t.Error("outbound reference not carried into target")
	}
	if !citer.HasReference(target) {
		t.Error("inbound citation not re-pointed at target")
	}
	if _, ok := s.ArticleByTitle("Source"); ok {
		t.Error("source article survived the merge")
	}
	for _, a := range s.Articles() {
		for _, ref := range a.References() {
			if ref == source {
				t.Fatal("dangling reference to merged-away source")
			}
		}
		for _, ref := range a.ReferencedBy() {
			if ref == source {
				t.Fatal("dangling referenced-by to merged-away source")
			}
		}
	}
}

func TestMergeArticlesMutualCitation(t *testing.T) {
	s := newTestStore(t)

	target := s.NewArticle("Target")
	source := s.NewArticle("Source")
	if err := target.AddReference(source); err != nil {
		t.Fatal(err)
	}
	if err := source.AddReference(target); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeArticles(target, source); err != nil {
		t.Fatalf("MergeArticles: %v", err)
	}

	// Edges between the pair collapse instead of becoming self-citations.
	if len(target.References()) != 0 || len(target.ReferencedBy()) != 0 {
		t.Error("merge of mutually citing articles left a self edge")
	}
}

func TestMergeArticlesSharedCiter(t *testing.T) {
	s := newTestStore(t)

	target := s.NewArticle("Target")
	source := s.NewArticle("Source")
	citer := s.NewArticle("Citer")
	if err := citer.AddReference(target); err != nil {
		t.Fatal(err)
	}
	if err := citer.AddReference(source); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeArticles(target, source); err != nil {
		t.Fatalf("MergeArticles: %v", err)
	}
	if n := len(citer.References()); n != 1 {
		t.Errorf("citer has %d references after merge, want 1", n)
	}
}

func TestMergeRemovedEntityRejected(t *testing.T) {
	s := newTestStore(t)

	target := s.NewAuthor("Josiah", "Carberry")
	source := s.NewAuthor("J", "Carberry")
	art := s.NewArticle("Alpha")
	if err := art.AddAuthor(source); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(target); err != nil {
		t.Fatal(err)
	}

	if err := s.MergeAuthors(target, source); !errors.Is(err, ErrNotFound) {
		t.Errorf("merge into removed target = %v, want ErrNotFound", err)
	}
	// The rejected merge left the article pointing at the live source.
	if got := art.Authors(); len(got) != 1 || got[0] != source {
		t.Error("rejected merge re-pointed the article")
	}
	if got := s.Authors(); len(got) != 1 || got[0] != source {
		t.Errorf("author list mutated by rejected merge: %d entries", len(got))
	}

	if err := s.MergeAuthors(source, target); !errors.Is(err, ErrNotFound) {
		t.Errorf("merge of removed source = %v, want ErrNotFound", err)
	}

	ta := s.NewArticle("Target")
	sa := s.NewArticle("Source")
	if err := s.Remove(ta); err != nil {
		t.Fatal(err)
	}
	if err := s.MergeArticles(ta, sa); !errors.Is(err, ErrNotFound) {
		t.Errorf("article merge into removed target = %v, want ErrNotFound", err)
	}
}

func TestMergeRejections(t *testing.T) {
	s1 := newTestStore(t)
	s2 := newTestStore(t)

	a := s1.NewAuthor("Jane", "Adams")
	b := s2.NewAuthor("Josiah", "Carberry")

	if err := s1.MergeAuthors(a, a); !errors.Is(err, ErrSelfReference) {
		t.Errorf("merge with self = %v, want ErrSelfReference", err)
	}
	if err := s1.MergeAuthors(a, b); !errors.Is(err, ErrForeignEntity) {
		t.Errorf("merge across stores = %v, want ErrForeignEntity", err)
	}
	if n := len(s1.Authors()); n != 1 {
		t.Errorf("rejected merge mutated the store: %d authors", n)
	}
}
