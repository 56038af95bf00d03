package embeddings

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Write encodes vec as little-endian float32 values
func Write(w io.Writer, vec []float32) error {
	if err := Validate(vec); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
		return fmt.Errorf("failed to write embedding: %w", err)
	}
	return nil
}

// Read decodes a vector written by Write
func Read(r io.Reader) ([]float32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("embedding file is empty")
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding size: %d (not a multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return vec, nil
}

// Cache stores vectors per model and text under Dir. It wraps an
// Embedder and only calls it on a miss.
type Cache struct {
	Fs       afero.Fs
	Dir      string
	Model    string
	Embedder Embedder
}

// NewCache returns a disk cache in front of e
func NewCache(fs afero.Fs, dir, model string, e Embedder) *Cache {
	return &Cache{Fs: fs, Dir: dir, Model: model, Embedder: e}
}

func (c *Cache) path(text string) string {
	key := uuid.NewSHA1(uuid.NameSpaceOID, []byte(c.Model+"\x00"+text))
	return filepath.Join(c.Dir, c.Model, key.String()+".bin")
}

// Lookup returns a cached vector
func (c *Cache) Lookup(text string) ([]float32, bool) {
	f, err := c.Fs.Open(c.path(text))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	vec, err := Read(f)
	if err != nil {
		return nil, false
	}
	return vec, true
}

// Store writes vec for text
func (c *Cache) Store(text string, vec []float32) error {
	p := c.path(text)
	if err := c.Fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create embedding cache: %w", err)
	}
	f, err := c.Fs.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create embedding file: %w", err)
	}
	if err := Write(f, vec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Embed returns the cached vector for text, computing and storing it on
// a miss
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.Lookup(text); ok {
		return vec, nil
	}
	vec, err := c.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.Store(text, vec); err != nil {
		return nil, err
	}
	return vec, nil
}
