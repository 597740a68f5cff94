package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tair/techstore/internal/product/domain"
)

// FileStore is a JSON file-backed ProductRepository. Every successful
// mutation rewrites the file.
type FileStore struct {
	*InMemoryStore
	path string
}

var _ domain.ProductRepository = (*FileStore)(nil)

type fileSnapshot struct {
	Products  []domain.Product `json:"products"`
	OrderRefs map[uint]int     `json:"order_refs,omitempty"`
}

// NewFileStore constructs a FileStore at the given path. If the file exists
// it will be loaded.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{InMemoryStore: NewInMemoryStore(), path: path}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) loadFromFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(b) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}

	var snap fileSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode store file %s: %w", s.path, err)
	}
	s.restore(snap.Products, snap.OrderRefs)
	return nil
}

func (s *FileStore) save() error {
	s.mu.RLock()
	products, refs := s.snapshot()
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(fileSnapshot{Products: products, OrderRefs: refs}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Create(ctx context.Context, product *domain.Product) error {
	if err := s.InMemoryStore.Create(ctx, product); err != nil {
		return err
	}
	return s.save()
}

func (s *FileStore) Update(ctx context.Context, product *domain.Product) error {
	if err := s.InMemoryStore.Update(ctx, product); err != nil {
		return err
	}
	return s.save()
}

func (s *FileStore) Delete(ctx context.Context, id uint) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return err
	}
	return s.save()
}

func (s *FileStore) UpdateStock(ctx context.Context, id uint, stock int) error {
	if err := s.InMemoryStore.UpdateStock(ctx, id, stock); err != nil {
		return err
	}
	return s.save()
}

func (s *FileStore) AddOrderItem(ctx context.Context, item *domain.OrderItem) error {
	if err := s.InMemoryStore.AddOrderItem(ctx, item); err != nil {
		return err
	}
	return s.save()
}
