package db

import "gorm.io/gorm"

// Post 定义了生成文案的持久化模型。
// 每条记录对应一次完整结束的生成流，创建后不再修改。
type Post struct {
	gorm.Model
	Content string `gorm:"type:text;not null"`
	Tone    string `gorm:"not null"`
	UserID  uint   `gorm:"index;not null"`
	User    User
	// RequestID 是客户端在发起生成时拿到的幂等令牌，
	// 重复提交同一令牌不会产生第二条记录。历史数据允许为空。
	RequestID *string `gorm:"uniqueIndex"`
}
