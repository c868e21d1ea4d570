package model

// Fund 基金信息表
// 基金目录在服务启动时加载一次，运行期间只读，不会新增、修改或删除
type Fund struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(128);not null" json:"name"`
	MinAmount int64  `gorm:"not null" json:"minAmount"` // 最低认购金额
	Category  string `gorm:"type:varchar(32)" json:"category,omitempty"`
}

func (Fund) TableName() string {
	return "fund"
}
