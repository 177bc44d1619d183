package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// HandleServiceError 把 service 层的业务错误映射为 HTTP 结果。
// 校验类错误由各 handler 自己处理 (需要回填表单)，不走这里。
func HandleServiceError(c *gin.Context, sessions *session.Manager, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		// 授权失败：禁止访问，不重定向
		c.String(http.StatusForbidden, "403 Forbidden")
	case errors.Is(err, service.ErrPostNotFound):
		c.HTML(http.StatusNotFound, "404.html", baseData(c, sessions))
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		c.String(http.StatusInternalServerError, "An unexpected error occurred")
	}
}
