package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// quietRoutes are polled by infrastructure and only logged at debug.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// RequestLogger writes one line per request once the handler chain is done,
// including route params and the api error code of a failed request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		for _, p := range c.Params {
			fields = append(fields, "param_"+p.Key, p.Value)
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != 0 {
			fields = append(fields, "user_id", rd.UserID, "role", rd.Role)
		}
		if code := c.GetString(ctxutil.ErrorCodeKey); code != "" {
			fields = append(fields, "error_code", code)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch levelFor(route, status) {
		case "error":
			log.Error("request", fields...)
		case "warn":
			log.Warn("request", fields...)
		case "debug":
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func levelFor(route string, status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	case quietRoutes[route]:
		return "debug"
	default:
		return "info"
	}
}
