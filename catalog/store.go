package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arfz/logwire/compress"
	"github.com/arfz/logwire/format"
)

// Sidecar is an immutable snapshot of a catalog: a 16-bit id -> literal
// text mapping. It implements consumer.Catalog via Lookup, and is the type
// Builder.Build and Load return.
type Sidecar struct {
	entries map[uint16]string
}

// Lookup implements consumer.Catalog.
func (s *Sidecar) Lookup(id uint16) (string, bool) {
	if s == nil {
		return "", false
	}
	text, ok := s.entries[id]
	return text, ok
}

// ID implements producer.CatalogIndex, letting a Sidecar loaded from disk
// also drive encoding directly (e.g. a second producer process sharing a
// catalog built once by a build-time tool).
func (s *Sidecar) ID(text string) (uint16, bool) {
	for id, t := range s.entries {
		if t == text {
			return id, true
		}
	}
	return 0, false
}

// Len returns the number of entries in the sidecar.
func (s *Sidecar) Len() int {
	return len(s.entries)
}

// sidecarFile is the on-disk JSON shape: a flat object mapping the decimal
// string form of each id to its literal text, the simplest encoding a host
// tool outside this module (a Python or Node build script) can also emit.
type sidecarFile struct {
	Entries map[string]string `json:"entries"`
}

// MarshalJSON renders the sidecar in sidecarFile shape.
func (s *Sidecar) MarshalJSON() ([]byte, error) {
	f := sidecarFile{Entries: make(map[string]string, len(s.entries))}
	for id, text := range s.entries {
		f.Entries[fmt.Sprintf("%d", id)] = text
	}
	return json.Marshal(f)
}

// UnmarshalJSON parses sidecarFile shape back into s.
func (s *Sidecar) UnmarshalJSON(data []byte) error {
	var f sidecarFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	entries := make(map[uint16]string, len(f.Entries))
	for k, v := range f.Entries {
		var id uint16
		if _, err := fmt.Sscanf(k, "%d", &id); err != nil {
			return fmt.Errorf("catalog: invalid id %q in sidecar: %w", k, err)
		}
		entries[id] = v
	}
	s.entries = entries
	return nil
}

// A sidecar file starts with a one-byte header naming which compress.Codec
// (if any) compressed the JSON payload that follows. Sidecar files are
// small and read once at process startup, so compression is a convenience
// for hosts that ship the file over a slow link, not a hot path; it never
// appears inside a wire frame, since the codec itself has no notion of
// compression.
const storeHeaderSize = 1

// Save writes s to path as JSON, optionally compressed with codec. The file
// always starts with the one-byte codec header; with format.CompressionNone
// the JSON that follows it is uncompressed.
func Save(s *Sidecar, path string, codec format.CompressionType) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("catalog: marshal sidecar: %w", err)
	}

	c, err := compress.GetCodec(codec)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	compressed, err := c.Compress(payload)
	if err != nil {
		return fmt.Errorf("catalog: compress sidecar: %w", err)
	}

	out := make([]byte, storeHeaderSize+len(compressed))
	out[0] = byte(codec)
	copy(out[storeHeaderSize:], compressed)

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}

// Load reads a sidecar previously written by Save, decompressing it with
// whatever codec its header byte names.
func Load(path string) (*Sidecar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	if len(raw) < storeHeaderSize {
		return nil, fmt.Errorf("catalog: %s is too short to contain a header", path)
	}

	codec := format.CompressionType(raw[0])
	c, err := compress.GetCodec(codec)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	payload, err := c.Decompress(raw[storeHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("catalog: decompress %s: %w", path, err)
	}

	var s Sidecar
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal %s: %w", path, err)
	}
	return &s, nil
}
