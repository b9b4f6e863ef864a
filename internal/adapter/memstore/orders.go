package memstore

import (
	"fmt"
	"sync"

	"github.com/example/astro-shop-service/internal/domain"
)

// MemoryOrderRegistry — заказы в памяти процесса; номера выдаются
// монотонным счётчиком без повторного использования и заполнения дыр.
// Наружу уходят только копии: читатель HTTP API и обработчик событий
// не делят один указатель.
type MemoryOrderRegistry struct {
	mu    sync.RWMutex
	seq   int
	store map[string]*domain.Order
}

func NewMemoryOrderRegistry() *MemoryOrderRegistry {
	return &MemoryOrderRegistry{store: make(map[string]*domain.Order)}
}

func (r *MemoryOrderRegistry) NextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%04d", r.seq)
}

func (r *MemoryOrderRegistry) Put(o domain.Order) {
	r.mu.Lock()
	r.store[o.ID] = &o
	r.mu.Unlock()
}

func (r *MemoryOrderRegistry) Get(id string) (domain.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.store[id]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

func (r *MemoryOrderRegistry) Update(id string, fn func(*domain.Order) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	return fn(o)
}

func (r *MemoryOrderRegistry) All() []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.store))
	for _, o := range r.store {
		out = append(out, *o)
	}
	return out
}

var _ domain.OrderRegistry = (*MemoryOrderRegistry)(nil)
