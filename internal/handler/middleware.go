package handler

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader リクエスト相関ID用のヘッダー名
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware リクエストごとに相関IDを採番してログとレスポンスヘッダーに付与する
// クライアントが既にIDを送ってきた場合はそれを使う。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		log.Printf("📡 [%s] %s %s -> %d (%v)", requestID, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
