package middleware

import (
	"strings"

	"github.com/ForumHub/ForumHub-backend/internal/cache"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(authHeader)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		// 已注销的令牌在黑名单中拒绝（redis 未配置时跳过检查）
		if rc := cache.GetRedisCache(); rc != nil {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if blacklisted, err := rc.IsTokenBlacklisted(c.Request.Context(), token); err == nil && blacklisted {
				utils.Unauthorized(c, "Token has been revoked")
				c.Abort()
				return
			}
		}

		// 将用户信息存储到context中
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// OptionalAuthMiddleware 公开列表接口使用：携带有效令牌时注入当前用户，
// 未携带或令牌无效时照常放行（此时列表中 isLiked 一律为 false）
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(authHeader)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}
