package imagestore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	// Raster formats Word documents embed besides jpeg.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
)

var ErrUnsupportedSource = errors.New("unsupported image source")

const jpegQuality = 90

// Resolver assigns a question number to an image nobody has mapped yet.
type Resolver interface {
	Resolve(ctx context.Context, fingerprint, path string) (int, error)
}

// MappingStore persists question number -> image fingerprints.
type MappingStore interface {
	LoadImageMappings(ctx context.Context) map[int][]string
	SaveImageMappings(ctx context.Context, mappings map[int][]string) error
}

// Store names embedded images by content fingerprint, keeps a normalized
// jpeg copy of each under dir and maps fingerprints to question numbers.
type Store struct {
	dir      string
	persist  MappingStore
	resolver Resolver
	log      *zap.Logger

	mu       sync.Mutex
	mappings map[int][]string
	byPrint  map[string]int
}

func New(ctx context.Context, dir string, persist MappingStore, resolver Resolver, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		dir:      dir,
		persist:  persist,
		resolver: resolver,
		log:      log,
		mappings: map[int][]string{},
		byPrint:  map[string]int{},
	}
	if persist != nil {
		for number, prints := range persist.LoadImageMappings(ctx) {
			for _, fp := range prints {
				s.index(number, fp)
			}
		}
	}
	return s
}

func (s *Store) index(number int, fp string) {
	if _, ok := s.byPrint[fp]; ok {
		return
	}
	s.byPrint[fp] = number
	s.mappings[number] = append(s.mappings[number], fp)
}

// Fingerprint hashes the encoded image payload and renders it as
// lowercase hex.
func Fingerprint(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// SplitDataURI returns the base64 payload of a "data:<mime>;base64,<payload>"
// image source.
func SplitDataURI(src string) (string, error) {
	if !strings.HasPrefix(src, "data:") {
		return "", fmt.Errorf("%w: %.32q", ErrUnsupportedSource, src)
	}
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: not a base64 data uri", ErrUnsupportedSource)
	}
	return strings.TrimSpace(payload), nil
}

// Path is where the normalized image for fp lives.
func (s *Store) Path(fp string) string {
	return filepath.Join(s.dir, fp+".jpg")
}

// QuestionNumber resolves an embedded image source to the question number
// it belongs to, storing the normalized image on first sight. Unknown
// images go to the resolver and the answer is persisted at once.
func (s *Store) QuestionNumber(ctx context.Context, src string) (int, error) {
	payload, err := SplitDataURI(src)
	if err != nil {
		return 0, err
	}
	fp := Fingerprint(payload)

	if err := s.ensureStored(fp, payload); err != nil {
		s.log.Warn("failed to store normalized image", zap.String("fingerprint", fp), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if number, ok := s.byPrint[fp]; ok {
		return number, nil
	}
	if s.resolver == nil {
		return 0, fmt.Errorf("image %s is not mapped to a question", fp)
	}

	number, err := s.resolver.Resolve(ctx, fp, s.Path(fp))
	if err != nil {
		return 0, fmt.Errorf("resolve image %s: %w", fp, err)
	}
	s.index(number, fp)
	s.log.Info("image mapped to question", zap.String("fingerprint", fp), zap.Int("question", number))

	if s.persist != nil {
		if err := s.persist.SaveImageMappings(ctx, s.snapshot()); err != nil {
			return 0, fmt.Errorf("save image mappings: %w", err)
		}
	}
	return number, nil
}

// ImagePath returns the stored image of the first fingerprint mapped to
// the question number.
func (s *Store) ImagePath(number int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prints := s.mappings[number]
	if len(prints) == 0 {
		return "", false
	}
	return s.Path(prints[0]), true
}

// Mappings returns a copy of the mapping ordered by question number.
func (s *Store) Mappings() map[int][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() map[int][]string {
	numbers := make([]int, 0, len(s.mappings))
	for n := range s.mappings {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make(map[int][]string, len(numbers))
	for _, n := range numbers {
		out[n] = append([]string(nil), s.mappings[n]...)
	}
	return out
}

func (s *Store) ensureStored(fp, payload string) error {
	path := s.Path(fp)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	raw, err := decodeBase64(payload)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	return writeNormalized(path, raw)
}

// writeNormalized flattens the image onto white and re-encodes it as jpeg.
func writeNormalized(path string, raw []byte) error {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := jpeg.Encode(tmp, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
