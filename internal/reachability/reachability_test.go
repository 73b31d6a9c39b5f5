package reachability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func TestWatch_FeedsSinkUntilCancelled(t *testing.T) {
	states := []bool{true, false, false, true}
	var mu sync.Mutex
	calls := 0
	p := ProberFunc(func(context.Context) bool {
		mu.Lock()
		defer mu.Unlock()
		s := states[calls%len(states)]
		calls++
		return s
	})

	ctx, cancel := context.WithCancel(context.Background())
	var got []bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, p, time.Millisecond, func(online bool) {
			got = append(got, online)
			if len(got) == len(states) {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, states, got)
}

func TestWatch_ProbesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var got []bool
	Watch(ctx, Always(false), time.Hour, func(online bool) {
		got = append(got, online)
		cancel()
	})
	assert.Equal(t, []bool{false}, got)
}

func TestHTTPProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	p := &HTTPProber{Client: service.NewHTTPClient(time.Second, ""), URL: srv.URL, Timeout: time.Second}

	assert.True(t, p.Probe(context.Background()))
	srv.Close()
	assert.False(t, p.Probe(context.Background()))
}
