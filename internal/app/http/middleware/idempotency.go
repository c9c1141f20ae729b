package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"
)

const idempotencyBucket = "responses"

// IdempotencyStore records responses of completed mutating requests keyed
// by the client's Idempotency-Key header, in a local bolt file. A retry
// with the same key replays the recorded response instead of re-executing
// the handler, so a lost response (not a lost request) cannot cause a
// double-apply.
type IdempotencyStore struct {
	db *bolt.DB
}

func NewIdempotencyStore(path string) (*IdempotencyStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(idempotencyBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &IdempotencyStore{db: db}, nil
}

func (s *IdempotencyStore) Close() error {
	return s.db.Close()
}

type recordedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	RecordedAt  int64  `json:"recordedAt"`
}

func (s *IdempotencyStore) get(key string) (*recordedResponse, error) {
	var rec *recordedResponse
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(idempotencyBucket)).Get([]byte(key))
		if v == nil {
			return nil
		}
		rec = &recordedResponse{}
		return json.Unmarshal(v, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *IdempotencyStore) put(key string, rec recordedResponse) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(idempotencyBucket)).Put([]byte(key), data)
	})
}

type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// Idempotency replays recorded responses for repeated Idempotency-Key
// headers on mutating requests. Requests without the header pass through
// untouched. Server errors are not recorded, so a failed attempt can be
// retried for real.
func Idempotency(store *IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}
		// Scope the key to the operation so the same client key on a
		// different endpoint is a different request.
		key = c.Request.Method + " " + c.FullPath() + " " + key

		if rec, err := store.get(key); err == nil && rec != nil {
			c.Header("Idempotency-Replayed", "true")
			c.Data(rec.Status, rec.ContentType, rec.Body)
			c.Abort()
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		_ = store.put(key, recordedResponse{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
			RecordedAt:  time.Now().UnixMilli(),
		})
	}
}
