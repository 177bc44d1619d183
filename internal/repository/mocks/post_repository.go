package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MiltonKlun/blog-post/internal/domain"
)

// PostRepository 是 repository.PostRepository 的 Mock 实现
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	var posts []domain.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	args := m.Called(ctx, id)
	var post *domain.Post
	if args.Get(0) != nil {
		post = args.Get(0).(*domain.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepository) DeleteWithComments(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
