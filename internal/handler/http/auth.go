package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// AuthHandler 封装了注册/登录/登出相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	if sessions == nil {
		panic("session Manager cannot be nil for AuthHandler")
	}
	return &AuthHandler{authService: authService, sessions: sessions}
}

// RegisterForm 定义注册表单的字段与校验规则
type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ShowRegister 渲染注册表单
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", merge(baseData(c, h.sessions), gin.H{"Form": RegisterForm{}}))
}

// Register 处理注册表单提交
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	// 1. 绑定并校验表单；失败时带着已填内容重新渲染
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.Register: invalid form input")
		c.HTML(http.StatusOK, "register.html", merge(baseData(c, h.sessions), gin.H{
			"Form":  form,
			"Error": "Please fill in all fields with a valid email.",
		}))
		return
	}

	// 2. 调用 Service 层处理注册逻辑
	user, err := h.authService.Register(c.Request.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationFailed) {
			// 邮箱冲突：闪现提示并重新渲染表单，不创建新行
			if ferr := h.sessions.AddFlash(c.Writer, c.Request, "Already registered email."); ferr != nil {
				logrus.WithError(ferr).Warn("Handler.Register: failed to add flash")
			}
			c.HTML(http.StatusOK, "register.html", merge(baseData(c, h.sessions), gin.H{"Form": form}))
			return
		}
		HandleServiceError(c, h.sessions, err)
		return
	}

	// 3. 注册成功即登录 (建立会话)，回到文章列表
	if err := h.sessions.SetUser(c.Writer, c.Request, user.ID); err != nil {
		logrus.WithError(err).Error("Handler.Register: failed to establish session")
		c.String(http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// LoginForm 定义登录表单的字段与校验规则
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ShowLogin 渲染登录表单
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", merge(baseData(c, h.sessions), gin.H{"Form": LoginForm{}}))
}

// Login 处理登录表单提交
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.Login: invalid form input")
		c.HTML(http.StatusOK, "login.html", merge(baseData(c, h.sessions), gin.H{
			"Form":  form,
			"Error": "Email and password are required.",
		}))
		return
	}

	user, err := h.authService.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			// 未知邮箱和错误密码统一提示，避免账号枚举
			if ferr := h.sessions.AddFlash(c.Writer, c.Request, "Invalid email or password."); ferr != nil {
				logrus.WithError(ferr).Warn("Handler.Login: failed to add flash")
			}
			c.HTML(http.StatusOK, "login.html", merge(baseData(c, h.sessions), gin.H{"Form": form}))
			return
		}
		HandleServiceError(c, h.sessions, err)
		return
	}

	if err := h.sessions.SetUser(c.Writer, c.Request, user.ID); err != nil {
		logrus.WithError(err).Error("Handler.Login: failed to establish session")
		c.String(http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout 结束登录会话 (路由上已要求登录)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		logrus.WithError(err).Warn("Handler.Logout: failed to clear session")
	}
	c.Redirect(http.StatusSeeOther, "/")
}
