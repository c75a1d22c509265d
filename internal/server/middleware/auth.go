package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"novelpack/internal/pkg/ctxutil"
	httputil "novelpack/internal/pkg/http"
	"novelpack/internal/pkg/jwt"
)

// CallerKey gin context 中调用方名称的 key
const CallerKey = "caller"

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后把调用方注入 context
func Auth(jwtUtil *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse(40101, "Unauthorized"))
			return
		}

		// Bearer {token}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse(40101, "Invalid authorization header"))
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse(40102, message))
			return
		}

		c.Set(CallerKey, claims.Subject)
		c.Request = c.Request.WithContext(ctxutil.WithCaller(c.Request.Context(), claims.Subject))

		c.Next()
	}
}
