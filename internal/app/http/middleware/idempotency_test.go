package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestStore(t *testing.T) *IdempotencyStore {
	t.Helper()
	store, err := NewIdempotencyStore(filepath.Join(t.TempDir(), "idempotency.db"))
	if err != nil {
		t.Fatalf("NewIdempotencyStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRouter(store *IdempotencyStore) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Idempotency(store))

	calls := 0
	r.POST("/payments/:id/pay", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": strconv.Itoa(calls)})
	})
	r.POST("/fail", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	return r, &calls
}

func doPost(r *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysRecordedResponse(t *testing.T) {
	r, calls := newTestRouter(newTestStore(t))

	first := doPost(r, "/payments/p1/pay", "key-1")
	second := doPost(r, "/payments/p1/pay", "key-1")

	if *calls != 1 {
		t.Errorf("handler ran %d times, want 1", *calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotency-Replayed") != "true" {
		t.Error("missing replay marker header")
	}
}

func TestIdempotencyDistinctKeysExecuteSeparately(t *testing.T) {
	r, calls := newTestRouter(newTestStore(t))

	doPost(r, "/payments/p1/pay", "key-1")
	doPost(r, "/payments/p1/pay", "key-2")

	if *calls != 2 {
		t.Errorf("handler ran %d times, want 2", *calls)
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	r, calls := newTestRouter(newTestStore(t))

	doPost(r, "/payments/p1/pay", "")
	doPost(r, "/payments/p1/pay", "")

	if *calls != 2 {
		t.Errorf("handler ran %d times, want 2", *calls)
	}
}

func TestIdempotencyDoesNotRecordServerErrors(t *testing.T) {
	r, calls := newTestRouter(newTestStore(t))

	doPost(r, "/fail", "key-1")
	doPost(r, "/fail", "key-1")

	if *calls != 2 {
		t.Errorf("failed attempt was replayed; handler ran %d times, want 2", *calls)
	}
}
