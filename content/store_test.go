package content

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStore(filepath.Join(t.TempDir(), "data", "content.json"), log)
}

func writeRaw(t *testing.T, s *Store, raw string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte(raw), 0o644); err != nil {
		t.Fatalf("write raw: %v", err)
	}
}

func TestReadCreatesFileWithDefaults(t *testing.T) {
	s := setupTestStore(t)

	got := s.Read()
	if !reflect.DeepEqual(got, Defaults()) {
		t.Errorf("Read() = %+v, want defaults", got)
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("content file should exist after first read: %v", err)
	}
	var onDisk Data
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("seeded file is not valid JSON: %v", err)
	}
	if len(onDisk.BreakingNews) != len(DefaultBreakingNews) {
		t.Errorf("seeded breakingNews = %v, want %v", onDisk.BreakingNews, DefaultBreakingNews)
	}
}

func TestReadCorruptedFileReturnsDefaults(t *testing.T) {
	s := setupTestStore(t)
	writeRaw(t, s, "{ this is not json")

	got := s.Read()
	if !reflect.DeepEqual(got, Defaults()) {
		t.Errorf("Read() on corrupted file = %+v, want defaults", got)
	}
}

func TestReadCoercesMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func() Data
	}{
		{
			name: "ticker is a number",
			raw:  `{"breakingNews": 42, "availableTags": ["a"]}`,
			want: func() Data {
				d := Defaults()
				d.AvailableTags = []string{"a"}
				return d
			},
		},
		{
			name: "overrides is a list",
			raw:  `{"articleOverrides": [1, 2], "heroSlides": [{"id": "s1", "title": "One"}]}`,
			want: func() Data {
				d := Defaults()
				d.HeroSlides = []HeroSlide{{ID: "s1", Title: "One"}}
				return d
			},
		},
		{
			name: "null fields",
			raw:  `{"breakingNews": null, "availableTags": null, "articleOverrides": null, "heroSlides": null}`,
			want: Defaults,
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: Defaults,
		},
		{
			name: "top level array",
			raw:  `["a", "b"]`,
			want: Defaults,
		},
		{
			name: "empty ticker is kept",
			raw:  `{"breakingNews": []}`,
			want: func() Data {
				d := Defaults()
				d.BreakingNews = []string{}
				return d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t)
			writeRaw(t, s, tt.raw)
			got := s.Read()
			if want := tt.want(); !reflect.DeepEqual(got, want) {
				t.Errorf("Read() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	doc := Data{
		BreakingNews:  []string{"first", "second"},
		AvailableTags: []string{"go", "news"},
		ArticleOverrides: map[string]ArticleOverride{
			"42": {Title: String("New title"), Tags: Tags()},
			"43": {ImageURL: String("/uploads/x.png"), Tags: Tags("a", "b")},
		},
		HeroSlides: []HeroSlide{
			{ID: "h1", Title: "Hero", Excerpt: "e", ImageURL: "/i.png", Category: "world", Author: "Desk", PublishedAt: "2024-05-01T10:00:00Z", Views: 7, Slug: "hero", Source: "wire"},
			{ID: "h2", Title: "Second"},
		},
	}

	written, err := s.Write(func(Data) Data { return doc })
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !reflect.DeepEqual(written, doc) {
		t.Errorf("Write returned %+v, want %+v", written, doc)
	}

	got := s.Read()
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Read after Write = %+v, want %+v", got, doc)
	}
}

func TestWriteNormalizesNilCollections(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.Write(func(Data) Data { return Data{} })
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := Data{
		BreakingNews:     []string{},
		AvailableTags:    []string{},
		ArticleOverrides: map[string]ArticleOverride{},
		HeroSlides:       []HeroSlide{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Write(empty) = %+v, want %+v", got, want)
	}
	if reread := s.Read(); !reflect.DeepEqual(reread, want) {
		t.Errorf("Read after empty write = %+v, want %+v", reread, want)
	}
}

func TestWriteErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewStore(filepath.Join(blocker, "content.json"), log)

	if _, err := s.UpdateBreakingNews([]string{"x"}); err == nil {
		t.Fatal("expected write error when parent path is a file")
	}
	if got := s.Read(); !reflect.DeepEqual(got, Defaults()) {
		t.Errorf("Read with unusable path = %+v, want defaults", got)
	}
}

func TestUpdateArticleOverrideMerges(t *testing.T) {
	s := setupTestStore(t)

	patchA := ArticleOverride{Title: String("A title"), Excerpt: String("A excerpt")}
	patchB := ArticleOverride{Excerpt: String("B excerpt"), Tags: Tags("b")}

	if _, err := s.UpdateArticleOverride("7", patchA); err != nil {
		t.Fatalf("first override failed: %v", err)
	}
	d, err := s.UpdateArticleOverride("7", patchB)
	if err != nil {
		t.Fatalf("second override failed: %v", err)
	}

	want := ArticleOverride{Title: String("A title"), Excerpt: String("B excerpt"), Tags: Tags("b")}
	if got := d.ArticleOverrides["7"]; !reflect.DeepEqual(got, want) {
		t.Errorf("override = %+v, want %+v", got, want)
	}
	got, ok := s.Override("7")
	if !ok {
		t.Fatal("override should be stored")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stored override = %+v, want %+v", got, want)
	}
	if _, ok := s.Override("8"); ok {
		t.Error("unknown article should have no override")
	}
}

func TestUpdateArticleOverrideKeepsOtherArticles(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.UpdateArticleOverride("1", ArticleOverride{Title: String("one")}); err != nil {
		t.Fatalf("override failed: %v", err)
	}
	d, err := s.UpdateArticleOverride("2", ArticleOverride{Title: String("two")})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if len(d.ArticleOverrides) != 2 {
		t.Errorf("overrides = %v, want 2 entries", d.ArticleOverrides)
	}
}

func TestUpdateBreakingNewsReplaces(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.UpdateBreakingNews([]string{"a", "b", "c"}); err != nil {
		t.Fatalf("UpdateBreakingNews failed: %v", err)
	}
	d, err := s.UpdateBreakingNews([]string{"z"})
	if err != nil {
		t.Fatalf("UpdateBreakingNews failed: %v", err)
	}
	if !reflect.DeepEqual(d.BreakingNews, []string{"z"}) {
		t.Errorf("BreakingNews = %v, want [z]", d.BreakingNews)
	}

	if _, err := s.UpdateBreakingNews(nil); err != nil {
		t.Fatalf("UpdateBreakingNews(nil) failed: %v", err)
	}
	if got := s.Read().BreakingNews; len(got) != 0 {
		t.Errorf("BreakingNews after empty write = %v, want empty", got)
	}
}

func TestSetAvailableTagsReplaces(t *testing.T) {
	s := setupTestStore(t)

	d, err := s.SetAvailableTags([]string{"only"})
	if err != nil {
		t.Fatalf("SetAvailableTags failed: %v", err)
	}
	if !reflect.DeepEqual(d.AvailableTags, []string{"only"}) {
		t.Errorf("AvailableTags = %v, want [only]", d.AvailableTags)
	}
	if !reflect.DeepEqual(s.Read().BreakingNews, DefaultBreakingNews) {
		t.Error("setting tags should not touch the ticker")
	}
}

func TestSetHeroSlidesLastWriteWins(t *testing.T) {
	s := setupTestStore(t)

	first := []HeroSlide{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	second := []HeroSlide{{ID: "c", Title: "C"}}

	if _, err := s.SetHeroSlides(first); err != nil {
		t.Fatalf("SetHeroSlides failed: %v", err)
	}
	if _, err := s.SetHeroSlides(second); err != nil {
		t.Fatalf("SetHeroSlides failed: %v", err)
	}
	if got := s.Read().HeroSlides; !reflect.DeepEqual(got, second) {
		t.Errorf("HeroSlides = %+v, want %+v", got, second)
	}
}

func TestConcurrentWritesAreSerialized(t *testing.T) {
	s := setupTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			if _, err := s.UpdateArticleOverride(id, ArticleOverride{Title: String(id)}); err != nil {
				t.Errorf("override %s failed: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.Read().ArticleOverrides); got != 20 {
		t.Errorf("overrides = %d, want 20 (no lost updates)", got)
	}
}

func TestMergeEmptyPatchIsNoop(t *testing.T) {
	base := ArticleOverride{Title: String("t"), Tags: Tags("x")}
	if got := base.Merge(ArticleOverride{}); !reflect.DeepEqual(got, base) {
		t.Errorf("Merge(empty) = %+v, want %+v", got, base)
	}
	if !(ArticleOverride{}).IsZero() {
		t.Error("empty override should be zero")
	}
	if base.IsZero() {
		t.Error("populated override should not be zero")
	}
}
