package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/internal/httputil"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	httputil.RetryBaseDelay = time.Millisecond
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := New(types.ClassifierConfig{
		Endpoint:      ts.URL + "/",
		APIKey:        "secret",
		MaxRetries:    3,
		RatePerSecond: 1000,
	})
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Vaksin mengandung chip", req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"category":"HOAX","confidence":0.91,"explanation":"mirip artikel hoaks"}`))
	})

	got, err := c.Classify(context.Background(), "Vaksin mengandung chip")
	require.NoError(t, err)
	assert.Equal(t, Result{Category: CategoryHoax, Confidence: 0.91, Explanation: "mirip artikel hoaks"}, got)
	assert.True(t, got.Alert())
}

func TestClassifyRetriesOn429(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "halo", req.Text)
		w.Write([]byte(`{"category":"CHAT_BIASA","confidence":0.2}`))
	})

	got, err := c.Classify(context.Background(), "halo")
	require.NoError(t, err)
	assert.Equal(t, CategoryChat, got.Category)
	assert.False(t, got.Alert())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		text    string
		want    string
	}{
		{
			name:    "empty message",
			handler: func(w http.ResponseWriter, _ *http.Request) {},
			text:    "  ",
			want:    "empty message",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			text: "pesan",
			want: "status 500: model not loaded",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"category":`))
			},
			text: "pesan",
			want: "decoding response",
		},
		{
			name: "no category",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"confidence":0.5}`))
			},
			text: "pesan",
			want: "no category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Classify(context.Background(), tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(types.ClassifierConfig{})
	assert.Error(t, err)
}

func TestClassifyBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Text == "rusak" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"category":"SUSPICIOUS","confidence":0.6}`))
	})

	got, err := c.ClassifyBatch(context.Background(), []string{"satu", "rusak", "tiga"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, CategorySuspicious, got[0].Category)
	assert.Equal(t, CategoryError, got[1].Category)
	assert.Contains(t, got[1].Explanation, "status 400")
	assert.Equal(t, CategorySuspicious, got[2].Category)
}

func TestClassifyBatchCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"category":"HOAX","confidence":1}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ClassifyBatch(ctx, []string{"satu"})
	assert.ErrorIs(t, err, context.Canceled)
}
