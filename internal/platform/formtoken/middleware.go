package formtoken

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// FieldName はフォーム内のトークンのフィールド名です。
	FieldName = "csrf_token"
	// HeaderName はフォーム以外のクライアント向けのヘッダー名です。
	HeaderName = "X-CSRF-Token"
)

// Required returns a Gin middleware that rejects form submissions without a
// valid token for the route being posted to.
func Required(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. フォーム値を優先し、なければヘッダーを参照
		tokenStr := c.PostForm(FieldName)
		if tokenStr == "" {
			tokenStr = c.GetHeader(HeaderName)
		}

		// 2. トークンはルートパスに紐づく
		if err := m.Verify(tokenStr, c.FullPath()); err != nil {
			slog.Warn("form token rejected",
				"path", c.FullPath(),
				"remote_addr", c.ClientIP(),
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or missing form token"})
			return
		}
		c.Next()
	}
}
