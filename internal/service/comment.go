package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
)

// CommentService 负责评论相关的业务逻辑。
// 调用者必须已登录；登录态由 handler 层判定后以 actorID 传入。
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	if commentRepo == nil {
		panic("CommentRepository cannot be nil for CommentService")
	}
	if postRepo == nil {
		panic("PostRepository cannot be nil for CommentService")
	}
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Add 以 actorID 的身份给某篇文章追加评论。
// 目标文章必须存在，评论内容不能为空。
func (s *CommentService) Add(ctx context.Context, actorID uint, postID uint, text string) (*domain.Comment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "post_id": postID})

	// 1. 目标文章必须存在；对不存在的文章，空评论也同样是未找到
	_, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			logCtx.Warn("Add comment failed: post not found")
			return nil, ErrPostNotFound
		}
		logCtx.WithError(err).Error("Database error checking post existence")
		return nil, ErrInternalServer
	}

	// 2. 字段验证
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	// 3. 保存评论
	comment := &domain.Comment{
		Text:     strings.TrimSpace(text),
		AuthorID: actorID,
		PostID:   postID,
	}
	err = s.commentRepo.Create(ctx, comment)
	if err != nil {
		logCtx.WithError(err).Error("Database error during comment creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("comment_id", comment.ID).Info("Comment added successfully")
	return comment, nil
}
