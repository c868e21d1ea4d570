package model

import (
	"time"
)

// ============================================================================
// 交易类型常量
// ============================================================================

const (
	TransactionTypeSubscribe = "Subscribe" // 认购基金
	TransactionTypeCancel    = "Cancel"    // 取消认购
)

// ============================================================================
// 基金交易流水实体
// ============================================================================

// FundTransaction 基金交易流水表
// 记录每一次认购/取消认购操作，是余额对账的核心依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 流水号全局唯一 —— 外部存储以流水号为主键
// 3. 按交易时间建二级索引 —— 支撑"最近 N 条"倒序查询
type FundTransaction struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	TransactionNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"id"` // 流水号（全局唯一）
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`           // Subscribe | Cancel
	FundID        string    `gorm:"type:varchar(64);index;not null" json:"fundId"`   // 关联基金ID
	Amount        int64     `gorm:"not null" json:"amount"`                          // 交易金额（等于基金最低认购金额）
	TimestampUTC  time.Time `gorm:"index;not null" json:"timestampUtc"`              // 交易时间（UTC）
}

func (FundTransaction) TableName() string {
	return "fund_transaction"
}
