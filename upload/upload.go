// Package upload stores admin-submitted images in a public directory under
// generated, practically unique filenames.
package upload

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// MaxSize is the largest accepted upload, in bytes.
const MaxSize = 10 << 20 // 10MB

var (
	// ErrNoFile is returned when the form carries no file.
	ErrNoFile = errors.New("no file provided")
	// ErrUnsupportedType is returned for a declared MIME type outside the allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned when the file exceeds the size cap.
	ErrTooLarge = errors.New("file too large")
)

// extensions maps every allowed MIME type to the extension used when the
// original filename has none.
var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/avif":    ".avif",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// Allowed reports whether the MIME type is on the allow-list.
func Allowed(contentType string) bool {
	_, ok := extensions[contentType]
	return ok
}

// Result describes a stored file.
type Result struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Service writes uploads to Dir and reports them under URLPrefix.
type Service struct {
	Dir       string
	URLPrefix string
	MaxSize   int64

	now    func() time.Time
	random io.Reader
}

// NewService returns a Service storing files in dir, served at urlPrefix
// (for example "/uploads").
func NewService(dir, urlPrefix string) *Service {
	return &Service{
		Dir:       dir,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
		MaxSize:   MaxSize,
		now:       time.Now,
		random:    rand.Reader,
	}
}

// Save validates fh and writes it to disk. Validation runs in a fixed order:
// missing file, declared type, then size. An empty declared type is let
// through.
func (s *Service) Save(fh *multipart.FileHeader) (Result, error) {
	if fh == nil {
		return Result{}, ErrNoFile
	}
	contentType := declaredType(fh.Header.Get("Content-Type"))
	if contentType != "" && !Allowed(contentType) {
		return Result{}, ErrUnsupportedType
	}
	if fh.Size > s.MaxSize {
		return Result{}, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Read one byte past the cap so a lying Size header is still caught.
	data, err := io.ReadAll(io.LimitReader(src, s.MaxSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxSize {
		return Result{}, ErrTooLarge
	}

	name, err := s.generateName(fh.Filename, contentType)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create uploads dir: %w", err)
	}
	if err := writeExclusive(filepath.Join(s.Dir, name), data); err != nil {
		return Result{}, err
	}

	res := Result{
		URL:         path.Join(s.URLPrefix, name),
		Filename:    name,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		res.Width = cfg.Width
		res.Height = cfg.Height
	}
	return res, nil
}

func writeExclusive(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close upload: %w", err)
	}
	return nil
}

// declaredType lowercases the media type and drops any parameters.
func declaredType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	return strings.ToLower(v)
}

// generateName builds "{unixMillis}-{token}{ext}".
func (s *Service) generateName(original, contentType string) (string, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + token + Extension(original, contentType), nil
}

const tokenLen = 6

// token returns tokenLen base36 characters.
func (s *Service) token() (string, error) {
	var b [8]byte
	if _, err := io.ReadFull(s.random, b[:]); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	const space = 36 * 36 * 36 * 36 * 36 * 36
	t := strconv.FormatUint(binary.BigEndian.Uint64(b[:])%space, 36)
	return strings.Repeat("0", tokenLen-len(t)) + t, nil
}

// Extension picks the file extension for an upload: the original filename's
// extension when it has a usable one, else the one implied by the declared
// MIME type, else "".
func Extension(original, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if clean := sanitizeExt(ext); clean != "" {
		return clean
	}
	return extensions[contentType]
}

func sanitizeExt(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return "." + ext
}
