package handler

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// RequestLogger пишет в лог каждый обработанный запрос.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http запрос",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// negotiateEncoding выбирает br или gzip по заголовку Accept-Encoding.
// Побеждает больший q, при равенстве - br.
func negotiateEncoding(header string) string {
	var brQ, gzQ float64
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			brQ = max(brQ, q)
		case "gzip":
			gzQ = max(gzQ, q)
		}
	}
	switch {
	case brQ > 0 && brQ >= gzQ:
		return "br"
	case gzQ > 0:
		return "gzip"
	}
	return ""
}

type compressWriter struct {
	gin.ResponseWriter
	w io.Writer
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	cw.Header().Del("Content-Length")
	return cw.w.Write(b)
}

func (cw *compressWriter) WriteString(s string) (int, error) {
	return cw.Write([]byte(s))
}

// Compress сжимает ответы brotli или gzip, если клиент их принимает.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		enc := negotiateEncoding(c.GetHeader("Accept-Encoding"))
		if enc == "" {
			c.Next()
			return
		}

		var w io.WriteCloser
		switch enc {
		case "br":
			w = brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression)
		default:
			gz, err := gzip.NewWriterLevel(c.Writer, gzip.DefaultCompression)
			if err != nil {
				c.Next()
				return
			}
			w = gz
		}

		c.Header("Content-Encoding", enc)
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &compressWriter{ResponseWriter: c.Writer, w: w}
		defer w.Close()

		c.Next()
	}
}
