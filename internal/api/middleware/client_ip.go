package middleware

import (
	"github.com/gin-gonic/gin"

	"kamu-koprusu/backend/internal/service"
)

// ClientIP 将客户端 IP 注入请求 context，供审计日志记录来源地址
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
