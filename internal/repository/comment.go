package repository

import (
	"context"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// CommentRepository 定义了评论数据的存储和检索操作。
type CommentRepository interface {
	// Create 创建新评论。调用方负责保证文章和用户存在。
	Create(ctx context.Context, comment *domain.Comment) error

	// ListViewsByPost 返回某篇文章的全部评论 (含作者展示信息)，
	// 通过查询时 JOIN users 表得到，按创建顺序排列。
	ListViewsByPost(ctx context.Context, postID uint) ([]domain.CommentView, error)
}
