package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/session"
)

// UserIDKey 是登录用户 ID 在 gin 上下文中的键。
const UserIDKey = "user_id"

// CurrentUser 返回一个 Gin 中间件，把 Cookie 会话解析成登录用户 ID
// 并放进请求上下文。未登录的请求照常放行 (公开页面也需要知道登录态)。
// "当前用户" 不是全局状态：每个请求各解析一次，handler 显式读取。
func CurrentUser(sessions *session.Manager) gin.HandlerFunc {
	if sessions == nil {
		panic("session Manager cannot be nil for CurrentUser middleware")
	}
	return func(c *gin.Context) {
		if userID, ok := sessions.CurrentUserID(c.Request); ok {
			c.Set(UserIDKey, userID)
			logrus.WithField("user_id", userID).Debug("CurrentUser middleware: session resolved")
		}
		c.Next()
	}
}

// RequireLogin 返回一个 Gin 中间件，要求请求必须带有效登录会话。
// 未登录时不硬性报错，而是按站点的 UX 约定闪现提示并重定向到登录页。
func RequireLogin(sessions *session.Manager, message string) gin.HandlerFunc {
	if sessions == nil {
		panic("session Manager cannot be nil for RequireLogin middleware")
	}
	return func(c *gin.Context) {
		if _, ok := c.Get(UserIDKey); ok {
			c.Next()
			return
		}
		logrus.WithField("path", c.Request.URL.Path).Debug("RequireLogin middleware: anonymous request redirected to login")
		if err := sessions.AddFlash(c.Writer, c.Request, message); err != nil {
			logrus.WithError(err).Warn("RequireLogin middleware: failed to add flash")
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// LoggedInUserID 从 gin 上下文读取登录用户 ID。
// 第二个返回值为 false 表示匿名请求。
func LoggedInUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
