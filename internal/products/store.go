package products

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound marks a lookup of a product id with no existing record.
var ErrNotFound = errors.New("product not found")

// Store is the authoritative in-memory product map. Ids are assigned
// sequentially starting at 1, never reused, and records are never deleted.
// Mutations on the same id are serialized by a per-record lock; different
// ids proceed independently.
type Store struct {
	mu      sync.RWMutex
	seq     uint64
	records map[uint64]*record
}

type record struct {
	mu      sync.Mutex
	product Product
}

// NewStore builds an empty product store.
func NewStore() *Store {
	return &Store{records: make(map[uint64]*record)}
}

// Create assigns the next sequential id and inserts the record.
func (s *Store) Create(product Product) (Product, error) {
	if err := product.checkInvariants(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	product.ID = s.seq
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.records[product.ID] = &record{product: product}
	return product, nil
}

// Get returns a copy of the record, or ErrNotFound.
func (s *Store) Get(id uint64) (Product, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Product{}, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.product, nil
}

// List returns copies of all records ordered by id.
func (s *Store) List() []Product {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if product, err := s.Get(id); err == nil {
			out = append(out, product)
		}
	}
	return out
}

// Mutate runs an atomic read-modify-write against one record. fn receives a
// working copy and either mutates it or returns the precondition violation;
// any error discards the copy. On success the store validates invariants,
// commits, and invokes committed (if set) before releasing the record lock,
// so events appended there keep transition-completion order per product.
func (s *Store) Mutate(id uint64, fn func(*Product) error, committed func(Product)) (Product, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Product{}, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	working := rec.product
	if err := fn(&working); err != nil {
		return Product{}, err
	}
	if working.ID != rec.product.ID {
		return Product{}, fmt.Errorf("product id is immutable")
	}
	if err := working.checkInvariants(); err != nil {
		return Product{}, err
	}

	working.UpdatedAt = time.Now()
	rec.product = working
	if committed != nil {
		committed(working)
	}
	return working, nil
}

// Len returns the number of records ever created.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
