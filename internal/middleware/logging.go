package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggingConfig controls StructuredLogging's verbosity.
type LoggingConfig struct {
	SkipPaths      []string
	LogRequestBody bool
	MaxBodySize    int
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// StructuredLogging logs one structured entry per request with method,
// path, status, latency and the resolved client_id, at a level chosen
// by the response status code.
func StructuredLogging(cfg LoggingConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		start := time.Now()

		var requestBody []byte
		if cfg.LogRequestBody && c.Request.Body != nil && (c.Request.Method == "POST" || c.Request.Method == "PUT") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		duration := time.Since(start)
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": duration.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetHeader("X-Request-ID"),
		}
		if clientID := c.GetString("client_id"); clientID != "" {
			fields["client_id"] = clientID
		}
		if cfg.LogRequestBody && len(requestBody) > 0 {
			body := string(requestBody)
			if len(body) > cfg.MaxBodySize {
				body = body[:cfg.MaxBodySize] + "...[truncated]"
			}
			fields["request_body"] = body
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.Errors()
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("server error")
		case status >= 400:
			entry.Warn("client error")
		case duration > time.Second:
			entry.Warn("slow request")
		default:
			entry.Info("request completed")
		}
	}
}

// RequestLogging is a terse access-log middleware for deployments that
// don't need StructuredLogging's body capture.
func RequestLogging() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		logrus.WithFields(logrus.Fields{
			"method":    p.Method,
			"path":      p.Path,
			"status":    p.StatusCode,
			"latency":   p.Latency,
			"client_ip": p.ClientIP,
		}).Info("http request")
		return ""
	})
}
