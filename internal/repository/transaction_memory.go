package repository

import (
	"context"
	"sort"
	"sync"

	"fundsystem/internal/model"
)

// InMemoryTransactionRepository 内存版交易流水
// 进程内切片 + 互斥锁，服务重启后流水丢失（见配置 storage.driver）
type InMemoryTransactionRepository struct {
	mu    sync.RWMutex
	items []model.FundTransaction
}

func NewInMemoryTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{}
}

func (r *InMemoryTransactionRepository) Append(ctx context.Context, tx *model.FundTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *tx)
	return nil
}

func (r *InMemoryTransactionRepository) Latest(ctx context.Context, n int) ([]model.FundTransaction, error) {
	// 条数不是正数直接返回空，避免错误配置把服务打挂
	if n <= 0 {
		return []model.FundTransaction{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FundTransaction, len(r.items))
	copy(out, r.items)

	// 按交易时间倒序；SliceStable 保持写入顺序，再整体反转，
	// 使同一时刻后写入的流水排在前面
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampUTC.Before(out[j].TimestampUTC)
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}
