// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Pinger はヘルスチェックで疎通確認する依存先です（*sql.DB が満たします）。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealth は /healthz エンドポイントのハンドラーを返します。
// pingerがnilの場合はプロセスの生存のみを報告します。
func NewHealth(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, gin.H{"status": "ok", "db": "ok"}
		if pinger == nil {
			body["db"] = "skipped"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				slog.Warn("health check: db ping failed", "error", err)
				status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": "unreachable"}
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}
