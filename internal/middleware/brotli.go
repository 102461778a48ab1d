package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Responses below this size are sent uncompressed; the brotli framing
// overhead is not worth it for small JSON bodies.
const brotliMinLength = 1024

// brotliWriter wraps the Gin response writer and defers the decision to
// compress until enough body bytes have accumulated. Once the threshold is
// crossed everything flows through the brotli encoder.
type brotliWriter struct {
	gin.ResponseWriter
	enc     *brotli.Writer
	pending []byte
	started bool
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	w.pending = append(w.pending, p...)
	if !w.started && len(w.pending) < brotliMinLength {
		return len(p), nil
	}
	if !w.started {
		w.started = true
		w.ResponseWriter.Header().Set("Content-Encoding", "br")
		w.ResponseWriter.Header().Del("Content-Length")
	}
	n, err := w.enc.Write(w.pending)
	w.pending = w.pending[:0]
	return n, err
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush drains anything still buffered as plain bytes and forwards the
// flush. Streaming handlers call this before the threshold is reached, so
// their responses go out uncompressed.
func (w *brotliWriter) Flush() {
	if len(w.pending) > 0 {
		_, _ = w.ResponseWriter.Write(w.pending)
		w.pending = w.pending[:0]
	}
	w.ResponseWriter.Flush()
}

// finish settles the response at the end of the handler chain: small
// bodies that never crossed the threshold are written plain, compressed
// streams are closed so the encoder emits its trailer.
func (w *brotliWriter) finish() error {
	if len(w.pending) > 0 {
		if _, err := w.ResponseWriter.Write(w.pending); err != nil {
			return err
		}
		w.pending = w.pending[:0]
	}
	if w.started {
		return w.enc.Close()
	}
	return nil
}

// Brotli compresses response bodies for clients that advertise br support.
// SSE and WebSocket traffic is passed through untouched.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsBrotli(c.Request) || isStreamingRequest(c) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brotliWriter{
			ResponseWriter: c.Writer,
			enc:            brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression),
		}
		c.Writer = w
		defer func() {
			if err := w.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

// isStreamingRequest reports whether the request expects a protocol that
// buffered compression would break.
func isStreamingRequest(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
