package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"logistics/internal/metrics"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replay"
	replayTTL         = 24 * time.Hour
)

// storedResponse is what a replayed request gets back.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body so it can be stored after the handler.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// replayStore keeps responses keyed by method, route and client key.
type replayStore struct {
	client *redis.Client
	ttl    time.Duration
}

func replayKey(c *gin.Context, key string) string {
	return "idempotency:" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}

func (s replayStore) load(ctx context.Context, key string) (*storedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s replayStore) save(ctx context.Context, key string, resp storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// IdempotencyMiddleware lets clients retry order and simulation writes with
// an Idempotency-Key. A repeated key gets the first response back without
// running the handler again. Conflicts and server errors are not stored, so a
// run rejected because another one was in progress can be retried as is.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	store := replayStore{client: redisClient, ttl: replayTTL}

	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if redisClient == nil || key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := replayKey(c, key)

		stored, err := store.load(ctx, storeKey)
		if err != nil {
			log.Printf("op=idempotency.load key=%s err=%v", storeKey, err)
			c.Next()
			return
		}
		if stored != nil {
			metrics.IdempotentReplays.WithLabelValues(c.FullPath()).Inc()
			c.Header(replayHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if !cacheable(status) {
			return
		}
		resp := storedResponse{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.buf.Bytes(),
		}
		if err := store.save(ctx, storeKey, resp); err != nil {
			log.Printf("op=idempotency.save key=%s err=%v", storeKey, err)
		}
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// cacheable reports whether a response with the given status may be replayed.
func cacheable(status int) bool {
	return status >= 200 && status < 500 && status != http.StatusConflict
}
