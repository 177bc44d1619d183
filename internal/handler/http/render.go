package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MiltonKlun/blog-post/internal/middleware"
	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// baseData 组装所有模板共用的渲染数据：
// 登录态、管理员标记和待展示的闪现消息 (取出即消费)。
func baseData(c *gin.Context, sessions *session.Manager) gin.H {
	userID, loggedIn := middleware.LoggedInUserID(c)
	return gin.H{
		"LoggedIn": loggedIn,
		"IsAdmin":  loggedIn && userID == service.AdminUserID,
		"Flashes":  sessions.Flashes(c.Writer, c.Request),
	}
}

// merge 把页面数据并入基础数据后返回，供 c.HTML 使用。
func merge(base gin.H, extra gin.H) gin.H {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
