package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
	"github.com/MiltonKlun/blog-post/internal/repository/mocks"
	"github.com/MiltonKlun/blog-post/internal/service"
)

func newCommentService(t *testing.T) (*service.CommentService, *mocks.CommentRepository, *mocks.PostRepository) {
	t.Helper()
	mockCommentRepo := new(mocks.CommentRepository)
	mockPostRepo := new(mocks.PostRepository)
	return service.NewCommentService(mockCommentRepo, mockPostRepo), mockCommentRepo, mockPostRepo
}

func TestCommentService_Add_Success(t *testing.T) {
	// Arrange
	commentService, mockCommentRepo, mockPostRepo := newCommentService(t)
	ctx := context.Background()

	postInDb := &domain.Post{ID: 3, Title: "Target"}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(postInDb, nil).Once()
	mockCommentRepo.On("Create", ctx, mock.MatchedBy(func(comment *domain.Comment) bool {
		assert.Equal(t, uint(8), comment.AuthorID, "评论应归属当前登录用户")
		assert.Equal(t, uint(3), comment.PostID, "评论应挂在目标文章上")
		assert.Equal(t, "Great post!", comment.Text)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Comment).ID = 11
		}).
		Return(nil).
		Once()

	// Act
	comment, err := commentService.Add(ctx, 8, 3, "Great post!")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, uint(11), comment.ID)

	mockPostRepo.AssertExpectations(t)
	mockCommentRepo.AssertExpectations(t)
}

func TestCommentService_Add_EmptyText(t *testing.T) {
	// Arrange
	commentService, mockCommentRepo, mockPostRepo := newCommentService(t)
	ctx := context.Background()

	postInDb := &domain.Post{ID: 3, Title: "Target"}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(postInDb, nil).Once()

	// Act
	_, err := commentService.Add(ctx, 8, 3, "   ")

	// Assert: 空评论被拒绝，不创建评论行
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	mockPostRepo.AssertExpectations(t)
}

func TestCommentService_Add_EmptyTextOnMissingPost(t *testing.T) {
	// Arrange: 文章存在性先于内容校验——对不存在的文章，空评论也得到未找到
	commentService, mockCommentRepo, mockPostRepo := newCommentService(t)
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrPostNotFound).Once()

	// Act
	_, err := commentService.Add(ctx, 8, 99, "")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPostNotFound), "不存在的文章应优先返回 ErrPostNotFound")
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	mockPostRepo.AssertExpectations(t)
}

func TestCommentService_Add_PostNotFound(t *testing.T) {
	// Arrange
	commentService, mockCommentRepo, mockPostRepo := newCommentService(t)
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrPostNotFound).Once()

	// Act
	_, err := commentService.Add(ctx, 8, 99, "Orphan comment")

	// Assert: 目标文章不存在时不创建评论行
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPostNotFound))
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	mockPostRepo.AssertExpectations(t)
}
