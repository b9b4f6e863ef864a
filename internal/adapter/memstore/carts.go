package memstore

import (
	"sync"

	"github.com/example/astro-shop-service/internal/domain"
)

// MemoryCartRegistry — корзины в памяти процесса, одна на пользователя.
// Корзины не удаляются до конца жизни процесса.
type MemoryCartRegistry struct {
	mu    sync.Mutex
	store map[string]*domain.Cart
}

func NewMemoryCartRegistry() *MemoryCartRegistry {
	return &MemoryCartRegistry{store: make(map[string]*domain.Cart)}
}

func (r *MemoryCartRegistry) GetOrCreate(userID string) *domain.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.store[userID]
	if !ok {
		cart = &domain.Cart{}
		r.store[userID] = cart
	}
	return cart
}

var _ domain.CartRegistry = (*MemoryCartRegistry)(nil)
