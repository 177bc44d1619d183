package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

// Create 实现创建新评论
func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err != nil {
		return fmt.Errorf("gorm: create comment (post_id: %d, author_id: %d): %w",
			comment.PostID, comment.AuthorID, err)
	}
	return nil
}

// commentRow 是 JOIN 查询的中间结果，头像地址在内存中计算
type commentRow struct {
	ID          uint
	Text        string
	AuthorName  string
	AuthorEmail string
}

// ListViewsByPost 通过 JOIN users 表返回某篇文章的全部评论及作者展示信息。
// 按 §9 的重设计要求走基于 ID 的查询，而不是双向对象关联。
func (r *GormCommentRepository) ListViewsByPost(ctx context.Context, postID uint) ([]domain.CommentView, error) {
	var rows []commentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id AS id, comments.text AS text, users.name AS author_name, users.email AS author_email").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Order("comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments of post %d: %w", postID, err)
	}

	views := make([]domain.CommentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.CommentView{
			ID:         row.ID,
			Text:       row.Text,
			AuthorName: row.AuthorName,
			AvatarURL:  domain.AvatarURL(row.AuthorEmail),
		})
	}
	return views, nil
}
