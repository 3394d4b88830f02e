package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileProvider stores each region in its own directory under Dir, one JSON
// file per entry.
type FileProvider struct {
	Dir string
	TTL time.Duration
}

// NewFileProvider returns a provider rooted at dir.
func NewFileProvider(dir string, ttl time.Duration) *FileProvider {
	return &FileProvider{Dir: dir, TTL: ttl}
}

func (p *FileProvider) BuildRegion(name string) (Region, error) {
	if p.Dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	dir := filepath.Join(p.Dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &fileRegion{name: name, dir: dir, ttl: p.TTL}, nil
}

func (p *FileProvider) Close() error {
	return nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

type fileRegion struct {
	name string
	dir  string
	ttl  time.Duration
}

func (r *fileRegion) Name() string {
	return r.name
}

func (r *fileRegion) filename(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(r.dir, hex.EncodeToString(hash[:])+".json")
}

func (r *fileRegion) Get(_ context.Context, key string) ([]byte, error) {
	filename := r.filename(key)
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(filename)
		return nil, ErrMiss
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(filename)
		return nil, ErrMiss
	}
	return entry.Data, nil
}

func (r *fileRegion) Put(_ context.Context, key string, value []byte) error {
	entry := fileEntry{Data: value}
	if r.ttl > 0 {
		entry.ExpiresAt = time.Now().Add(r.ttl)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	tmp := r.filename(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.filename(key))
}

func (r *fileRegion) Remove(_ context.Context, key string) error {
	err := os.Remove(r.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (r *fileRegion) Clear(context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			if err := os.Remove(filepath.Join(r.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *fileRegion) Close() error {
	return nil
}
