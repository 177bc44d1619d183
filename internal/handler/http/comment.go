package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/middleware"
	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// CommentHandler 封装了提交评论的 HTTP 处理逻辑
type CommentHandler struct {
	commentService *service.CommentService
	sessions       *session.Manager
}

// NewCommentHandler 创建 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService, sessions *session.Manager) *CommentHandler {
	if commentService == nil {
		panic("CommentService cannot be nil for CommentHandler")
	}
	if sessions == nil {
		panic("session Manager cannot be nil for CommentHandler")
	}
	return &CommentHandler{commentService: commentService, sessions: sessions}
}

// CommentForm 定义评论表单的字段
type CommentForm struct {
	Comment string `form:"comment"`
}

// Add 处理文章详情页的评论提交。
// 路由上已要求登录 (未登录会被闪现提示并重定向到登录页)。
// 成功后回到同一篇文章的详情页，让新评论立即可见。
func (h *CommentHandler) Add(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.HTML(http.StatusNotFound, "404.html", baseData(c, h.sessions))
		return
	}
	detailPath := "/post/" + strconv.FormatUint(id, 10)

	// 表单没有必填约束，空评论也交给 Service 统一判定：
	// 文章不存在时得到的是 404，而不是重定向进一个 404 的详情页
	var form CommentForm
	if berr := c.ShouldBind(&form); berr != nil {
		logrus.WithError(berr).Warn("Handler.AddComment: failed to bind form")
	}

	_, err = h.commentService.Add(c.Request.Context(), actorID, uint(id), form.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			// 空评论：闪现提示并回到详情页，不产生数据变更
			if ferr := h.sessions.AddFlash(c.Writer, c.Request, "Comment cannot be empty."); ferr != nil {
				logrus.WithError(ferr).Warn("Handler.AddComment: failed to add flash")
			}
			c.Redirect(http.StatusSeeOther, detailPath)
			return
		}
		HandleServiceError(c, h.sessions, err)
		return
	}

	c.Redirect(http.StatusSeeOther, detailPath)
}
