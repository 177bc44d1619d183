package repository

import (
	"context"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，应返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，应返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Create 创建新用户。
	// 唯一约束 (邮箱) 冲突时应返回 ErrDuplicateEntry；
	// 该约束是注册去重的权威判定，应用层的存在性检查只是快路径提示。
	Create(ctx context.Context, user *domain.User) error
}
