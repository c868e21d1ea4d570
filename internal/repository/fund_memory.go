package repository

import (
	"context"

	"fundsystem/internal/model"
)

// InMemoryFundRepository 内存版基金目录
// 启动时用固定目录初始化，之后只读，无需加锁
type InMemoryFundRepository struct {
	funds []model.Fund
	byID  map[string]*model.Fund
}

// DefaultFunds 默认基金目录
func DefaultFunds() []model.Fund {
	return []model.Fund{
		{ID: "1", Name: "FPV_EL CLIENTE_RECAUDADORA", MinAmount: 75000, Category: "FPV"},
		{ID: "2", Name: "FPV_EL CLIENTE_ECOPETROL", MinAmount: 125000, Category: "FPV"},
		{ID: "3", Name: "DEUDAPRIVADA", MinAmount: 50000, Category: "FIC"},
		{ID: "4", Name: "FDO-ACCIONES", MinAmount: 250000, Category: "FIC"},
		{ID: "5", Name: "FPV_EL CLIENTE_DINAMICA", MinAmount: 100000, Category: "FPV"},
	}
}

func NewInMemoryFundRepository(funds []model.Fund) *InMemoryFundRepository {
	byID := make(map[string]*model.Fund, len(funds))
	for i := range funds {
		byID[funds[i].ID] = &funds[i]
	}
	return &InMemoryFundRepository{funds: funds, byID: byID}
}

func (r *InMemoryFundRepository) Get(ctx context.Context, id string) (*model.Fund, error) {
	fund, ok := r.byID[id]
	if !ok {
		return nil, ErrFundNotFound
	}
	return fund, nil
}

func (r *InMemoryFundRepository) List(ctx context.Context) ([]model.Fund, error) {
	// 返回拷贝，防止调用方修改目录
	out := make([]model.Fund, len(r.funds))
	copy(out, r.funds)
	return out, nil
}
