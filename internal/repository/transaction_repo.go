package repository

import (
	"context"

	"fundsystem/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository 交易流水仓储接口
//
// 流水只追加，查询只有"最近 N 条"一种：按交易时间倒序，
// 同一时刻的流水后写入的排在前面
type TransactionRepository interface {
	Append(ctx context.Context, tx *model.FundTransaction) error
	Latest(ctx context.Context, n int) ([]model.FundTransaction, error)
}

// MySQLTransactionRepository 数据库版交易流水
// 以流水号为唯一键，交易时间上建二级索引支撑倒序查询
type MySQLTransactionRepository struct {
	db *gorm.DB
}

func NewMySQLTransactionRepository(db *gorm.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

func (r *MySQLTransactionRepository) Append(ctx context.Context, tx *model.FundTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *MySQLTransactionRepository) Latest(ctx context.Context, n int) ([]model.FundTransaction, error) {
	// gorm 的 Limit(-1) 表示不限条数，和内存版保持一致：非正数返回空
	if n <= 0 {
		return []model.FundTransaction{}, nil
	}

	var transactions []model.FundTransaction
	// 时间相同的流水按自增ID倒序，即后写入的排在前面
	err := r.db.WithContext(ctx).
		Order("timestamp_utc DESC, id DESC").
		Limit(n).
		Find(&transactions).Error
	return transactions, err
}
