package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hintwire/prompter/pkg/kv"
)

// MaxImportSize caps the size of an imported résumé file.
const MaxImportSize = 1 << 20

// Import errors.
var (
	// ErrUnsupportedType is returned for files that are not plain text
	// or markdown.
	ErrUnsupportedType = errors.New("resume: unsupported file type (want .txt, .md or .markdown)")

	// ErrTooLarge is returned for files over MaxImportSize.
	ErrTooLarge = errors.New("resume: file larger than 1 MiB")

	// ErrNotText is returned for files that are not valid UTF-8.
	ErrNotText = errors.New("resume: file is not valid UTF-8 text")
)

// textKey is the fixed location of the résumé text.
var textKey = kv.Key{"resume", "text"}

// Store persists the résumé string.
type Store struct {
	kv kv.Store
}

// NewStore creates a Store backed by db.
func NewStore(db kv.Store) *Store {
	return &Store{kv: db}
}

// Load returns the stored résumé text, or "" when none is stored.
func (s *Store) Load(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, textKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resume: load: %w", err)
	}
	return string(data), nil
}

// Save replaces the stored résumé text.
func (s *Store) Save(ctx context.Context, text string) error {
	if err := s.kv.Set(ctx, textKey, []byte(text)); err != nil {
		return fmt.Errorf("resume: save: %w", err)
	}
	return nil
}

// Clear removes the stored résumé text.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, textKey); err != nil {
		return fmt.Errorf("resume: clear: %w", err)
	}
	return nil
}

// ImportFile replaces the stored résumé with the contents of a local
// .txt, .md or .markdown file and returns the imported text.
func (s *Store) ImportFile(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("resume: import: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImportSize+1))
	if err != nil {
		return "", fmt.Errorf("resume: import: %w", err)
	}
	if len(data) > MaxImportSize {
		return "", ErrTooLarge
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}

	text := string(data)
	if err := s.Save(ctx, text); err != nil {
		return "", err
	}
	return text, nil
}
