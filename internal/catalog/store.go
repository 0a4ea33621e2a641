package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Product is one read-only catalog entry. Images maps a metal color variant
// (yellow, rose, white) to an image reference.
type Product struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	PopularityScore float64           `json:"popularityScore"`
	Weight          float64           `json:"weight"`
	Images          map[string]string `json:"images"`
}

// Store serves the catalog in display order.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

var (
	ErrDuplicateID   = errors.New("duplicate product id")
	ErrBadWeight     = errors.New("product weight must be positive")
	ErrBadPopularity = errors.New("product popularity score out of range")
)

const (
	MinPopularity = 0
	MaxPopularity = 100
)

// Validate checks the invariants pricing relies on.
func Validate(products []Product) error {
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: id=%d", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}

		if !(p.Weight > 0) {
			return fmt.Errorf("%w: id=%d weight=%v", ErrBadWeight, p.ID, p.Weight)
		}
		if !(p.PopularityScore >= MinPopularity && p.PopularityScore <= MaxPopularity) {
			return fmt.Errorf("%w: id=%d score=%v", ErrBadPopularity, p.ID, p.PopularityScore)
		}
	}
	return nil
}
