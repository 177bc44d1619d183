package repository

import (
	"context"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// PostRepository 定义了文章数据的存储和检索操作。
type PostRepository interface {
	// FindAll 按插入顺序返回全部文章。
	FindAll(ctx context.Context) ([]domain.Post, error)

	// FindByID 根据文章 ID 查找文章。
	// 如果文章不存在，应返回 ErrPostNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Post, error)

	// Create 创建新文章。
	// 标题唯一约束冲突时应返回 ErrDuplicateEntry。
	Create(ctx context.Context, post *domain.Post) error

	// Update 保存对已有文章的修改。
	// 标题唯一约束冲突时应返回 ErrDuplicateEntry。
	Update(ctx context.Context, post *domain.Post) error

	// DeleteWithComments 在单个事务中删除文章及其全部评论，
	// 保证不会留下孤儿评论 (表结构未声明级联删除)。
	// 如果文章不存在，应返回 ErrPostNotFound。
	DeleteWithComments(ctx context.Context, id uint) error
}
