// Package middleware provides the ambient HTTP concerns of the addon:
// response compression, the open CORS policy Stremio clients need, and
// leveled request logging.
package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flixfinder/flixfinder/pkg/logger"
)

var gzipPool = sync.Pool{
	New: func() interface{} { return gzip.NewWriter(nil) },
}

type gzipWriter struct {
	gin.ResponseWriter
	zw *gzip.Writer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	return w.zw.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.zw.Write([]byte(s))
}

// Gzip compresses responses for clients that accept it, reusing writers
// across requests.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		zw := gzipPool.Get().(*gzip.Writer)
		zw.Reset(c.Writer)
		defer func() {
			zw.Close()
			gzipPool.Put(zw)
		}()

		c.Writer = &gzipWriter{ResponseWriter: c.Writer, zw: zw}
		c.Next()
	}
}

// CORS opens the addon to any origin; Stremio clients load it cross-site.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger records one line per request, at a level matching the response
// status.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		line := []interface{}{
			c.ClientIP(), c.Request.Method, status, time.Since(start), path,
		}
		switch {
		case status >= 500:
			log.Errorf("[HTTP] %s %s %d %v %s", line...)
		case status >= 400:
			log.Warnf("[HTTP] %s %s %d %v %s", line...)
		default:
			log.Infof("[HTTP] %s %s %d %v %s", line...)
		}
	}
}
