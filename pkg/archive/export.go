package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hintwire/prompter/pkg/storage"
)

// Format selects an export encoding.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("archive: unknown export format %q (want json or yaml)", s)
	}
}

// Marshal renders the session in the given format.
func (s *Session) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("archive: marshal: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("archive: marshal: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("archive: unknown export format %q", f)
	}
}

// Export renders the session and writes it to path in fs.
func Export(ctx context.Context, fs storage.FileStore, path string, s *Session, f Format) error {
	data, err := s.Marshal(f)
	if err != nil {
		return err
	}
	w, err := fs.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("archive: export: %w", err)
	}
	_, werr := w.Write(data)
	if werr != nil {
		werr = fmt.Errorf("archive: export: %w", werr)
	}
	cerr := w.Close()
	if cerr != nil {
		cerr = fmt.Errorf("archive: export: %w", cerr)
	}
	return errors.Join(werr, cerr)
}
