// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// User 表示博客的注册用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`                                       // 用户唯一标识符 (主键)
	Name      string    `gorm:"type:varchar(191);not null"`                       // 显示名称，不能为空
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null"` // 用户邮箱，必须唯一且不能为空
	Password  string    `gorm:"type:text;not null"`                               // 存储的是哈希后的密码，不能为空
	CreatedAt time.Time `gorm:"autoCreateTime"`                                   // 用户记录创建时间 (GORM 自动填充)
}

// AvatarURL 根据邮箱生成 Gravatar 头像地址 (仅用于展示，不持久化)。
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", sum)
}
