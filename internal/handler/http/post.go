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

// PostHandler 封装了文章浏览与管理相关的 HTTP 处理逻辑
type PostHandler struct {
	postService *service.PostService
	sessions    *session.Manager
}

// NewPostHandler 创建 PostHandler 实例
func NewPostHandler(postService *service.PostService, sessions *session.Manager) *PostHandler {
	if postService == nil {
		panic("PostService cannot be nil for PostHandler")
	}
	if sessions == nil {
		panic("session Manager cannot be nil for PostHandler")
	}
	return &PostHandler{postService: postService, sessions: sessions}
}

// PostForm 定义创建/编辑文章表单的字段
type PostForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle" binding:"required"`
	Body     string `form:"body" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required"`
}

// postID 从路径参数解析文章 ID；非法 ID 与未知 ID 同样按未找到处理
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Show 渲染文章详情页：文章本体加全部评论 (含作者名字和头像)。
// 文章不存在时返回明确的 404，而不是渲染期的空指针。
func (h *PostHandler) Show(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "404.html", baseData(c, h.sessions))
		return
	}
	post, comments, err := h.postService.GetWithComments(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	c.HTML(http.StatusOK, "post.html", merge(baseData(c, h.sessions), gin.H{
		"Post":     post,
		"Comments": comments,
	}))
}

// ShowNew 渲染新建文章表单，仅限管理员
func (h *PostHandler) ShowNew(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)
	if err := service.AuthorizeAdmin(actorID); err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
		"Form":   PostForm{},
		"IsEdit": false,
	}))
}

// Create 处理新建文章表单提交，仅限管理员
func (h *PostHandler) Create(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.CreatePost: invalid form input")
		// 能力检查先于表单提示，非管理员不应看到表单反馈
		if aerr := service.AuthorizeAdmin(actorID); aerr != nil {
			HandleServiceError(c, h.sessions, aerr)
			return
		}
		c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
			"Form":   form,
			"IsEdit": false,
			"Error":  "All fields are required.",
		}))
		return
	}

	post, err := h.postService.Create(c.Request.Context(), actorID, service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTitle) || errors.Is(err, service.ErrInvalidInput) {
			c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
				"Form":   form,
				"IsEdit": false,
				"Error":  formErrorMessage(err),
			}))
			return
		}
		HandleServiceError(c, h.sessions, err)
		return
	}

	logrus.WithField("post_id", post.ID).Info("Handler.CreatePost: post created")
	c.Redirect(http.StatusSeeOther, "/")
}

// ShowEdit 渲染编辑文章表单，仅限管理员
func (h *PostHandler) ShowEdit(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)
	if err := service.AuthorizeAdmin(actorID); err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	id, ok := postID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "404.html", baseData(c, h.sessions))
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
		"Form": PostForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImgURL:   post.ImgURL,
		},
		"IsEdit": true,
		"PostID": post.ID,
	}))
}

// Update 处理编辑文章表单提交，仅限管理员。
// 发布日期和作者不变，成功后回到文章详情页。
func (h *PostHandler) Update(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)
	id, ok := postID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "404.html", baseData(c, h.sessions))
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.UpdatePost: invalid form input")
		if aerr := service.AuthorizeAdmin(actorID); aerr != nil {
			HandleServiceError(c, h.sessions, aerr)
			return
		}
		c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
			"Form":   form,
			"IsEdit": true,
			"PostID": id,
			"Error":  "All fields are required.",
		}))
		return
	}

	post, err := h.postService.Update(c.Request.Context(), actorID, id, service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTitle) || errors.Is(err, service.ErrInvalidInput) {
			c.HTML(http.StatusOK, "make-post.html", merge(baseData(c, h.sessions), gin.H{
				"Form":   form,
				"IsEdit": true,
				"PostID": id,
				"Error":  formErrorMessage(err),
			}))
			return
		}
		HandleServiceError(c, h.sessions, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatUint(uint64(post.ID), 10))
}

// Delete 删除文章及其全部评论，仅限管理员
func (h *PostHandler) Delete(c *gin.Context) {
	actorID, _ := middleware.LoggedInUserID(c)
	id, ok := postID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "404.html", baseData(c, h.sessions))
		return
	}
	if err := h.postService.Delete(c.Request.Context(), actorID, id); err != nil {
		HandleServiceError(c, h.sessions, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// formErrorMessage 把表单相关的业务错误转成用户可见的提示
func formErrorMessage(err error) string {
	if errors.Is(err, service.ErrDuplicateTitle) {
		return "A post with this title already exists."
	}
	return "All fields are required."
}
