package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store reads and writes the content document at a fixed path.
//
// Mutations are whole-document read-modify-write cycles. They are serialized
// within one process; separate processes sharing the file are last writer
// wins.
type Store struct {
	mu   sync.Mutex
	path string
	log  logrus.FieldLogger
}

// NewStore returns a Store backed by the JSON file at path. The file and its
// directory are created on first read.
func NewStore(path string, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		path: path,
		log:  log.WithField("component", "content"),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document. It never fails: a missing file is
// created with defaults, and any field that is absent or malformed is
// replaced by its default.
func (s *Store) Read() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() Data {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		d := Defaults()
		if err := s.persist(d); err != nil {
			s.log.WithError(err).Warn("seed content document")
		}
		return d
	}
	if err != nil {
		s.log.WithError(err).Error("read content document")
		return Defaults()
	}
	return s.decode(raw)
}

// decode parses each top-level field on its own so one bad field does not
// discard the rest of the document.
func (s *Store) decode(raw []byte) Data {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.log.WithError(err).Error("parse content document")
		return Defaults()
	}

	d := Defaults()
	decodeField(s.log, fields, "breakingNews", &d.BreakingNews)
	decodeField(s.log, fields, "availableTags", &d.AvailableTags)
	decodeField(s.log, fields, "articleOverrides", &d.ArticleOverrides)
	decodeField(s.log, fields, "heroSlides", &d.HeroSlides)
	return d.normalize()
}

// decodeField overwrites *dst with fields[key] when it is present and well
// formed; otherwise *dst keeps the default it already holds.
func decodeField[T any](log logrus.FieldLogger, fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithError(err).WithField("field", key).Warn("malformed content field, using default")
		return
	}
	*dst = v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Write applies update to the current document, persists the result and
// returns it. It is the only mutation primitive; persistence errors are
// returned to the caller.
func (s *Store) Write(update func(Data) Data) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := update(s.read()).normalize()
	if err := s.persist(next); err != nil {
		return Data{}, err
	}
	return next, nil
}

// persist writes d through a temporary file in the same directory followed
// by a rename, so readers see either the old or the new document.
func (s *Store) persist(d Data) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return fmt.Errorf("create temp content file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close content: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod content: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace content: %w", err)
	}
	return nil
}

// UpdateArticleOverride shallow-merges patch into the override stored for
// articleID, creating it if absent.
func (s *Store) UpdateArticleOverride(articleID string, patch ArticleOverride) (Data, error) {
	return s.Write(func(d Data) Data {
		if d.ArticleOverrides == nil {
			d.ArticleOverrides = map[string]ArticleOverride{}
		}
		d.ArticleOverrides[articleID] = d.ArticleOverrides[articleID].Merge(patch)
		return d
	})
}

// UpdateBreakingNews replaces the ticker items.
func (s *Store) UpdateBreakingNews(items []string) (Data, error) {
	return s.Write(func(d Data) Data {
		d.BreakingNews = append([]string{}, items...)
		return d
	})
}

// SetAvailableTags replaces the tag set.
func (s *Store) SetAvailableTags(tags []string) (Data, error) {
	return s.Write(func(d Data) Data {
		d.AvailableTags = append([]string{}, tags...)
		return d
	})
}

// SetHeroSlides replaces the hero slides.
func (s *Store) SetHeroSlides(slides []HeroSlide) (Data, error) {
	return s.Write(func(d Data) Data {
		d.HeroSlides = append([]HeroSlide{}, slides...)
		return d
	})
}

// Override returns the stored override for articleID.
func (s *Store) Override(articleID string) (ArticleOverride, bool) {
	o, ok := s.Read().ArticleOverrides[articleID]
	return o, ok
}
