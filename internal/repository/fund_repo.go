package repository

import (
	"context"
	"errors"

	"fundsystem/internal/model"

	"gorm.io/gorm"
)

var (
	ErrFundNotFound = errors.New("基金不存在")
)

// FundRepository 基金目录仓储接口
// 基金目录是只读的：只有精确查询和全量列表，列表顺序要求稳定
type FundRepository interface {
	Get(ctx context.Context, id string) (*model.Fund, error)
	List(ctx context.Context) ([]model.Fund, error)
}

// MySQLFundRepository 数据库版基金目录
type MySQLFundRepository struct {
	db *gorm.DB
}

func NewMySQLFundRepository(db *gorm.DB) *MySQLFundRepository {
	return &MySQLFundRepository{db: db}
}

func (r *MySQLFundRepository) Get(ctx context.Context, id string) (*model.Fund, error) {
	var fund model.Fund
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (r *MySQLFundRepository) List(ctx context.Context) ([]model.Fund, error) {
	var funds []model.Fund
	// 按主键排序，保证列表顺序稳定
	err := r.db.WithContext(ctx).Order("id ASC").Find(&funds).Error
	return funds, err
}
