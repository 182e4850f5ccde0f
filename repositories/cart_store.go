package repositories

import (
	"context"
	"sync"

	"booknest/models"
)

// CartStore keeps per-user carts between requests. Implementations must
// serialize mutations for a single user so concurrent add/remove/clear calls
// from the same session cannot interleave.
type CartStore interface {
	Get(ctx context.Context, userID int) ([]models.CartItem, error)
	Add(ctx context.Context, userID int, item models.CartItem) error
	Remove(ctx context.Context, userID, bookID int) error
	Clear(ctx context.Context, userID int) error
}

// MemoryCartStore is the in-process fallback used when Redis is not
// configured. Carts do not survive a restart, matching the ephemeral
// lifetime of a cart.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[int][]models.CartItem
	locks map[int]*sync.Mutex
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[int][]models.CartItem),
		locks: make(map[int]*sync.Mutex),
	}
}

func (s *MemoryCartStore) lockFor(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *MemoryCartStore) Get(ctx context.Context, userID int) ([]models.CartItem, error) {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	items := s.carts[userID]
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryCartStore) Add(ctx context.Context, userID int, item models.CartItem) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items := s.carts[userID]
	for i := range items {
		if items[i].BookID == item.BookID {
			items[i].Quantity += item.Quantity
			s.carts[userID] = items
			return nil
		}
	}
	s.carts[userID] = append(items, item)
	return nil
}

func (s *MemoryCartStore) Remove(ctx context.Context, userID, bookID int) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].BookID == bookID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryCartStore) Clear(ctx context.Context, userID int) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	delete(s.carts, userID)
	return nil
}
