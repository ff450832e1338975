package httpserver

import (
	"fmt"
	"time"

	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/apierr"
)

// HandlerFunc returns the status and body for a successful request.
type HandlerFunc func(c *gin.Context) (status int, resp any, err error)

// Handle wraps fn with the request log and the error response.
func Handle(m metric.Metric, rpc string, fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := time.Now()
		status, resp, err := fn(c)
		if err != nil {
			apierr.Abort(c, err)
			status = apierr.Status(err)
		} else {
			c.JSON(status, resp)
		}
		m.RequestLog(c.Request.Context(), rpc,
			metric.TotalDur(time.Since(st)),
			zap.String("addr", c.ClientIP()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
}

// Bind decodes the json body; decoding errors are reported as invalid requests.
func Bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrInvalidRequest, err)
	}
	return nil
}
