package ginx

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/pkg/idgen"
	"github.com/rs/zerolog"
)

// RequestIDKey gin.Context 中保存请求 ID 的 key
const RequestIDKey = "requestID"

// RequestIDHeader 请求 ID 的响应头
const RequestIDHeader = "X-Request-ID"

// RequestLogger 为每个请求分配请求 ID，把带有请求 ID 的 logger 放入请求的 context，
// 并在请求结束后记录访问日志
//
// handler 中通过 zerolog.Ctx(c) 获取 logger 时，engine 需要开启 ContextWithFallback
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			id, err := idgen.DefaultGenerator().GenerateRequestID()
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to generate request ID")
			}
			requestID = id
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With().Str("requestID", requestID).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		reqLogger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
