package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/logger"
)

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET requests from store for ttl. Entries are keyed by viewer
// and full request URI, so each ?page= and each user gets its own copy. Only
// 200 responses are stored. Nothing here invalidates; see cache.Cache.Clear.
func CachePage(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c)
		ctx := c.Request.Context()

		data, ok, err := store.Get(ctx, key)
		if err != nil {
			logger.Warn("page cache get", zap.String("key", key), zap.Error(err))
		}
		if ok {
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		payload, err := json.Marshal(cachedPage{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := store.Set(ctx, key, payload, ttl); err != nil {
			logger.Warn("page cache set", zap.String("key", key), zap.Error(err))
		}
	}
}

func pageKey(c *gin.Context) string {
	viewer := "anon"
	if user := CurrentUser(c); user != nil {
		viewer = strconv.Itoa(user.ID)
	}
	return viewer + ":" + c.Request.URL.RequestURI()
}
