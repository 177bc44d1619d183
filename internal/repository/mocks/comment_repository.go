package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// CommentRepository 是 repository.CommentRepository 的 Mock 实现
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) ListViewsByPost(ctx context.Context, postID uint) ([]domain.CommentView, error) {
	args := m.Called(ctx, postID)
	var views []domain.CommentView
	if args.Get(0) != nil {
		views = args.Get(0).([]domain.CommentView)
	}
	return views, args.Error(1)
}
