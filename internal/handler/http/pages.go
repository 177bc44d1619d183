package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// PageHandler 封装了首页和静态信息页的 HTTP 处理逻辑
type PageHandler struct {
	postService *service.PostService
	sessions    *session.Manager
}

// NewPageHandler 创建 PageHandler 实例
func NewPageHandler(postService *service.PostService, sessions *session.Manager) *PageHandler {
	if postService == nil {
		panic("PostService cannot be nil for PageHandler")
	}
	if sessions == nil {
		panic("session Manager cannot be nil for PageHandler")
	}
	return &PageHandler{postService: postService, sessions: sessions}
}

// Home 渲染文章列表首页，无需登录
func (h *PageHandler) Home(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", merge(baseData(c, h.sessions), gin.H{"Posts": posts}))
}

// About 渲染关于页
func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", baseData(c, h.sessions))
}

// Contact 渲染联系页
func (h *PageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", baseData(c, h.sessions))
}
