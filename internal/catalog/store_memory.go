package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"
)

//go:embed data/products.json
var defaultProducts []byte

// MemStore holds the catalog loaded at startup. List hands out copies so
// callers can never reach the loaded records.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore(products []Product) (*MemStore, error) {
	if err := Validate(products); err != nil {
		return nil, err
	}
	return &MemStore{products: cloneProducts(products)}, nil
}

// NewStore returns the catalog bundled with the binary.
func NewStore() (*MemStore, error) {
	return LoadJSON(defaultProducts)
}

func LoadJSON(raw []byte) (*MemStore, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewMemStore(products)
}

func LoadFile(path string) (*MemStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return LoadJSON(raw)
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products), nil
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		p.Images = maps.Clone(p.Images)
		out[i] = p
	}
	return out
}
