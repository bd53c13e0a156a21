package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	// Level is the gzip compression level.
	Level int
	// CompressibleTypes lists content type prefixes worth compressing.
	CompressibleTypes []string
}

// DefaultCompressionConfig returns sensible compression defaults. The
// API responses are JSON, so text types are what matters; media bytes
// never pass through this server.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Level: gzip.DefaultCompression,
		CompressibleTypes: []string{
			"application/json",
			"application/javascript",
			"text/html",
			"text/css",
			"text/plain",
			"image/svg+xml",
		},
	}
}

// gzipWriterPool reuses gzip writers across requests.
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter compresses the body once the first write reveals
// the content type.
type gzipResponseWriter struct {
	http.ResponseWriter
	config      CompressionConfig
	gzipWriter  *gzip.Writer
	statusCode  int
	decided     bool
	compressing bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	g.statusCode = code
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if !g.decided {
		g.decide(data)
	}
	if g.compressing {
		return g.gzipWriter.Write(data)
	}
	return g.ResponseWriter.Write(data)
}

// decide picks compression on the first write, then sends headers.
func (g *gzipResponseWriter) decide(firstChunk []byte) {
	g.decided = true

	contentType := g.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(firstChunk)
		g.Header().Set("Content-Type", contentType)
	}

	if g.compressible(contentType) && g.Header().Get("Content-Encoding") == "" {
		g.compressing = true
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Del("Content-Length")
		g.Header().Add("Vary", "Accept-Encoding")

		gz := gzipWriterPool.Get().(*gzip.Writer)
		gz.Reset(g.ResponseWriter)
		g.gzipWriter = gz
	}

	g.ResponseWriter.WriteHeader(g.statusCode)
}

func (g *gzipResponseWriter) compressible(contentType string) bool {
	for _, t := range g.config.CompressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func (g *gzipResponseWriter) close() {
	if !g.decided {
		// Empty body: just flush the status.
		g.ResponseWriter.WriteHeader(g.statusCode)
		return
	}
	if g.gzipWriter != nil {
		g.gzipWriter.Close()
		gzipWriterPool.Put(g.gzipWriter)
		g.gzipWriter = nil
	}
}

// Compression returns middleware that gzips compressible responses for
// clients that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gw := &gzipResponseWriter{
				ResponseWriter: w,
				config:         config,
				statusCode:     http.StatusOK,
			}
			defer gw.close()

			next.ServeHTTP(gw, r)
		})
	}
}
