package ledger

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nestegg/nestegg/internal/domain"
)

// MemoryRepository implements Repository in process memory. Used by tests
// and for running without a database.
type MemoryRepository struct {
	mu  sync.RWMutex
	txs []domain.Transaction
}

// NewMemoryRepository creates an empty in-memory transaction repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) SaveAll(_ context.Context, _ uuid.UUID, txs []domain.Transaction) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.txs)
	r.txs = Merge(r.txs, txs)
	return len(r.txs) - before, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.txs), nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.txs), nil
}
