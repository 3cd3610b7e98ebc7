package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/telemetry"
)

// Recovery turns a panic into a logged, reported error and hands the
// response to render, which is expected to write the 500 page.
func Recovery(render gin.HandlerFunc) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		logger.Error("panic recovered",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.ByteString("stack", debug.Stack()),
		)
		telemetry.CaptureError(err, map[string]string{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		render(c)
		c.Abort()
	})
}
