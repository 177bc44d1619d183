package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
)

// GormPostRepository 是 PostRepository 接口的 GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository 创建 GormPostRepository 实例
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

// FindAll 按插入顺序 (主键升序) 返回全部文章
func (r *GormPostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list posts: %w", err)
	}
	return posts, nil
}

// FindByID 实现根据文章 ID 查找文章
func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("gorm: find post by id %d: %w", id, err)
	}
	return &post, nil
}

// Create 实现创建新文章
// 标题唯一索引冲突映射为 ErrDuplicateEntry。
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create post (title: %s): %w", post.Title, err)
	}
	return nil
}

// Update 实现保存对已有文章的修改
func (r *GormPostRepository) Update(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: update post (id: %d): %w", post.ID, err)
	}
	return nil
}

// DeleteWithComments 在单个事务中删除文章及其全部评论。
// 表结构没有声明级联删除，必须在这里显式清理，避免留下孤儿评论。
func (r *GormPostRepository) DeleteWithComments(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先确认文章存在，才能返回明确的未找到错误
		var post domain.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrPostNotFound
			}
			return fmt.Errorf("gorm: find post by id %d: %w", id, err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return fmt.Errorf("gorm: delete comments of post %d: %w", id, err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("gorm: delete post %d: %w", id, err)
		}
		return nil
	})
	return err
}
