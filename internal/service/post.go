package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
)

// PostInput 是创建/编辑文章时的可编辑字段。
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// validate 检查必填字段是否为空
func (in PostInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Subtitle) == "" ||
		strings.TrimSpace(in.Body) == "" ||
		strings.TrimSpace(in.ImgURL) == "" {
		return ErrInvalidInput
	}
	return nil
}

// PostService 负责文章相关的业务逻辑。
// 写操作 (Create/Update/Delete) 仅限管理员，入口处做显式能力检查。
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewPostService 创建 PostService 实例。
func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for PostService")
	}
	if commentRepo == nil {
		panic("CommentRepository cannot be nil for PostService")
	}
	return &PostService{postRepo: postRepo, commentRepo: commentRepo}
}

// List 按插入顺序返回全部文章，无需登录。
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		return nil, ErrInternalServer
	}
	return posts, nil
}

// Get 根据 ID 获取文章。不存在时返回明确的 ErrPostNotFound。
func (s *PostService) Get(ctx context.Context, id uint) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		logrus.WithError(err).WithField("post_id", id).Error("Failed to find post")
		return nil, ErrInternalServer
	}
	if post == nil { // 防御
		return nil, ErrPostNotFound
	}
	return post, nil
}

// GetWithComments 获取文章及其全部评论 (含作者展示信息)，供详情页渲染。
func (s *PostService) GetWithComments(ctx context.Context, id uint) (*domain.Post, []domain.CommentView, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.commentRepo.ListViewsByPost(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("post_id", id).Error("Failed to list comments for post")
		return nil, nil, ErrInternalServer
	}
	return post, comments, nil
}

// Create 创建新文章，仅限管理员。
// 发布日期在调用时生成，作者设为调用者。
func (s *PostService) Create(ctx context.Context, actorID uint, in PostInput) (*domain.Post, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "title": in.Title})

	// 1. 能力检查
	if err := AuthorizeAdmin(actorID); err != nil {
		logCtx.Warn("Create post denied: not admin")
		return nil, err
	}

	// 2. 字段验证
	if err := in.validate(); err != nil {
		return nil, err
	}

	// 3. 保存 (标题唯一索引是去重的权威判定)
	post := &domain.Post{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Body:     in.Body,
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Date:     time.Now().Format(domain.DateLayout),
		AuthorID: actorID,
	}
	err := s.postRepo.Create(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Create post failed: duplicate title")
			return nil, ErrDuplicateTitle
		}
		logCtx.WithError(err).Error("Database error during post creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("post_id", post.ID).Info("Post created successfully")
	return post, nil
}

// Update 修改已有文章的可编辑字段，仅限管理员。
// 发布日期和作者保持不变。
func (s *PostService) Update(ctx context.Context, actorID uint, id uint, in PostInput) (*domain.Post, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "post_id": id})

	// 1. 能力检查
	if err := AuthorizeAdmin(actorID); err != nil {
		logCtx.Warn("Update post denied: not admin")
		return nil, err
	}

	// 2. 字段验证
	if err := in.validate(); err != nil {
		return nil, err
	}

	// 3. 加载并覆盖四个可编辑字段
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Title = strings.TrimSpace(in.Title)
	post.Subtitle = strings.TrimSpace(in.Subtitle)
	post.Body = in.Body
	post.ImgURL = strings.TrimSpace(in.ImgURL)

	err = s.postRepo.Update(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Update post failed: duplicate title")
			return nil, ErrDuplicateTitle
		}
		logCtx.WithError(err).Error("Database error during post update")
		return nil, ErrInternalServer
	}

	logCtx.Info("Post updated successfully")
	return post, nil
}

// Delete 删除文章及其全部评论，仅限管理员。
func (s *PostService) Delete(ctx context.Context, actorID uint, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actorID, "post_id": id})

	// 1. 能力检查
	if err := AuthorizeAdmin(actorID); err != nil {
		logCtx.Warn("Delete post denied: not admin")
		return err
	}

	// 2. 删除文章和评论在同一事务中完成，保证引用完整性
	err := s.postRepo.DeleteWithComments(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		logCtx.WithError(err).Error("Database error during post deletion")
		return ErrInternalServer
	}

	logCtx.Info("Post and its comments deleted successfully")
	return nil
}
